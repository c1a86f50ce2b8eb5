package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty is the question filter passed to the trivia source.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulties lists the selectable difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps user or config input to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
}

// Title returns the display label of the difficulty.
func (d Difficulty) Title() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// Category is a topic filter from the trivia catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Question is a single trivia question as returned by the source.
// Text fields keep the source encoding; see DecodeEntities.
type Question struct {
	Prompt           string   // question text
	CorrectAnswer    string   // raw correct answer
	IncorrectAnswers []string // raw incorrect answers in source order
	Category         string   // category display name reported by the source
	Type             string   // "multiple" or "boolean"
	Difficulty       string
}

// Valid reports whether the question has the fields a round needs.
func (q Question) Valid() bool {
	return strings.TrimSpace(q.Prompt) != "" && strings.TrimSpace(q.CorrectAnswer) != ""
}

// AnsweredQuestion records the outcome of one answer attempt.
type AnsweredQuestion struct {
	Question        Question
	ShuffledChoices []string
	SelectedChoice  string
	IsCorrect       bool
}
