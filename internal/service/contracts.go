package service

import (
	"context"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// TriviaCatalog lists the categories offered by the trivia service.
type TriviaCatalog interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

// TriviaQuestionSource fetches one batch of questions for a round.
type TriviaQuestionSource interface {
	FetchBatch(ctx context.Context, difficulty entities.Difficulty, categoryID *int) ([]entities.Question, error)
}

// CategoryCache stores the category list between catalog calls.
type CategoryCache interface {
	Get(ctx context.Context) ([]entities.Category, bool, error)
	Set(ctx context.Context, categories []entities.Category) error
}

type SessionRepository interface {
	GetOrCreate(chatID int64) (*entities.QuizSession, bool)
	Get(chatID int64) (*entities.QuizSession, bool)
	Len() int
	SweepIdle(now time.Time, ttl time.Duration) int
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

type SettingsRepository interface {
	Create(ctx context.Context, userID int64) error
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateDifficulty(ctx context.Context, userID int64, difficulty entities.Difficulty) error
	UpdateCategory(ctx context.Context, userID int64, categoryID *int) error
}

// Transactor runs fn inside a single transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CategoryLister is the category source used by the quiz flow.
type CategoryLister interface {
	List(ctx context.Context) []entities.Category
}

// PreferenceStore persists the setup choices of a user.
type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateDifficulty(ctx context.Context, userID int64, difficulty entities.Difficulty) error
	UpdateCategory(ctx context.Context, userID int64, categoryID *int) error
}
