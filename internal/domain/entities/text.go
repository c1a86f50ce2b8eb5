package entities

import (
	"html"
	"math"
	"math/rand"
)

// Shuffler permutes n elements in place through swap.
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler is a uniform Fisher-Yates shuffle.
var DefaultShuffler Shuffler = rand.Shuffle

// ShuffleChoices returns the incorrect answers followed by the correct one,
// permuted by shuffle. The source question is not modified.
func ShuffleChoices(q Question, shuffle Shuffler) []string {
	choices := make([]string, 0, len(q.IncorrectAnswers)+1)
	choices = append(choices, q.IncorrectAnswers...)
	choices = append(choices, q.CorrectAnswer)

	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return choices
}

// DecodeEntities converts HTML named and numeric character references
// (&quot; &#039; &amp; &eacute; &#x27; ...) to their display form.
// Correctness is always checked on the raw text, never on this output.
func DecodeEntities(text string) string {
	return html.UnescapeString(text)
}

// Percentage returns round(100*score/total), rounding halves away from zero.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
