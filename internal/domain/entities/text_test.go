package entities

import (
	"math/rand"
	"sort"
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "quote", input: "&quot;Hello&quot;", want: `"Hello"`},
		{name: "apostrophe numeric", input: "Don&#039;t", want: "Don't"},
		{name: "ampersand", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "hex reference", input: "it&#x27;s", want: "it's"},
		{name: "named accent", input: "Pok&eacute;mon", want: "Pokémon"},
		{name: "less than", input: "4 &lt; 5", want: "4 < 5"},
		{name: "plain", input: "No entities here", want: "No entities here"},
		{name: "unknown entity kept", input: "&bogus;", want: "&bogus;"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeEntities(tc.input); got != tc.want {
				t.Fatalf("DecodeEntities(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         int
	}{
		{score: 10, total: 10, want: 100},
		{score: 3, total: 10, want: 30},
		{score: 0, total: 10, want: 0},
		{score: 1, total: 3, want: 33},
		{score: 2, total: 3, want: 67},
		{score: 1, total: 8, want: 13}, // 12.5 rounds away from zero
		{score: 0, total: 0, want: 0},
	}

	for _, tc := range tests {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestShuffleChoicesIsPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	q := Question{
		Prompt:           "Which?",
		CorrectAnswer:    "right",
		IncorrectAnswers: []string{"a", "b", "c"},
	}

	for i := 0; i < 50; i++ {
		choices := ShuffleChoices(q, r.Shuffle)
		if len(choices) != len(q.IncorrectAnswers)+1 {
			t.Fatalf("len = %d, want %d", len(choices), len(q.IncorrectAnswers)+1)
		}

		correct := 0
		for _, c := range choices {
			if c == q.CorrectAnswer {
				correct++
			}
		}
		if correct != 1 {
			t.Fatalf("correct answer appears %d times in %v", correct, choices)
		}

		got := append([]string(nil), choices...)
		sort.Strings(got)
		want := []string{"a", "b", "c", "right"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("choices %v are not a permutation of %v", choices, want)
			}
		}
	}

	if q.IncorrectAnswers[0] != "a" || len(q.IncorrectAnswers) != 3 {
		t.Fatalf("source answers modified: %v", q.IncorrectAnswers)
	}
}

func TestShuffleChoicesIsRoughlyUniform(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	q := Question{CorrectAnswer: "d", IncorrectAnswers: []string{"a", "b", "c"}}

	const rounds = 8000
	positions := make([]int, 4)
	for i := 0; i < rounds; i++ {
		for pos, c := range ShuffleChoices(q, r.Shuffle) {
			if c == "d" {
				positions[pos]++
			}
		}
	}

	for pos, n := range positions {
		if n < rounds/4-400 || n > rounds/4+400 {
			t.Fatalf("correct answer landed at %d in %d of %d rounds: %v", pos, n, rounds, positions)
		}
	}
}

func TestBooleanQuestionChoices(t *testing.T) {
	q := Question{CorrectAnswer: "True", IncorrectAnswers: []string{"False"}, Type: "boolean"}
	choices := ShuffleChoices(q, nil)
	if len(choices) != 2 {
		t.Fatalf("choices = %v, want 2 entries", choices)
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"easy", " Medium ", "HARD"} {
		if _, err := ParseDifficulty(in); err != nil {
			t.Errorf("ParseDifficulty(%q): %v", in, err)
		}
	}
	if _, err := ParseDifficulty("expert"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
