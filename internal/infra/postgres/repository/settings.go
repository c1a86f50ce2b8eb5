package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
)

// SettingsRepository stores the quiz setup each user picked last.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create creates default settings for a user.
func (r *SettingsRepository) Create(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (user_id, difficulty, category_id, created_at, updated_at)
		VALUES ($1, 'easy', NULL, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := postgres.Conn(ctx, r.db).Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}

	return nil
}

// GetByUserID retrieves settings for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, difficulty, category_id, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		settings   entities.UserSettings
		difficulty string
	)
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&difficulty,
		&settings.CategoryID,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Difficulty = entities.Difficulty(difficulty)
	return &settings, nil
}

// UpdateDifficulty stores the preferred difficulty.
func (r *SettingsRepository) UpdateDifficulty(ctx context.Context, userID int64, difficulty entities.Difficulty) error {
	query := `
		UPDATE user_settings
		SET difficulty = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, userID, string(difficulty))
	if err != nil {
		return fmt.Errorf("update difficulty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrSettingsNotFound
	}

	return nil
}

// UpdateCategory stores the preferred category; nil means any category.
func (r *SettingsRepository) UpdateCategory(ctx context.Context, userID int64, categoryID *int) error {
	query := `
		UPDATE user_settings
		SET category_id = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, userID, categoryID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrSettingsNotFound
	}

	return nil
}
