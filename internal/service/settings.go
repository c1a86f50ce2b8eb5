package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrSettingsNotFound) {
			// Create default settings.
			if err := s.repository.Create(ctx, userID); err != nil {
				return nil, err
			}
			// Retrieve newly created settings.
			return s.repository.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	return settings, nil
}

func (s *SettingsService) UpdateDifficulty(ctx context.Context, userID int64, difficulty entities.Difficulty) error {
	return s.withSettings(ctx, userID, func() error {
		return s.repository.UpdateDifficulty(ctx, userID, difficulty)
	})
}

func (s *SettingsService) UpdateCategory(ctx context.Context, userID int64, categoryID *int) error {
	return s.withSettings(ctx, userID, func() error {
		return s.repository.UpdateCategory(ctx, userID, categoryID)
	})
}

// withSettings runs update, creating default settings first if the user has none.
func (s *SettingsService) withSettings(ctx context.Context, userID int64, update func() error) error {
	err := update()
	if !errors.Is(err, entities.ErrSettingsNotFound) {
		return err
	}
	if err := s.repository.Create(ctx, userID); err != nil {
		return err
	}
	return update()
}
