package entities

import (
	"errors"
	"time"
)

// UserSettings stores the quiz setup a user picked last time.
type UserSettings struct {
	UserID     int64
	Difficulty Difficulty // preferred difficulty
	CategoryID *int       // nullable, nil means any category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUserSettings creates a new UserSettings instance with default values.
func NewUserSettings(userID int64) *UserSettings {
	now := time.Now()
	return &UserSettings{
		UserID:     userID,
		Difficulty: DifficultyEasy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

var ErrSettingsNotFound = errors.New("settings not found")
