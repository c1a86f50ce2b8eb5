package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

type UserService struct {
	users      UserRepository
	settings   SettingsRepository
	transactor Transactor
	logger     *zap.Logger
}

func NewUserService(users UserRepository, settings SettingsRepository, transactor Transactor, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		settings:   settings,
		transactor: transactor,
		logger:     logger,
	}
}

// EnsureUser registers the user together with default quiz settings.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	exists, err := s.users.Exists(ctx, user.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.users.Save(ctx, user)
		if err != nil {
			return err
		}
		if err := s.settings.Create(ctx, user.ID); err != nil {
			return fmt.Errorf("create default settings: %w", err)
		}
		if created {
			s.logger.Info("user registered",
				zap.Int64("user_id", user.ID),
				zap.Int64("chat_id", user.ChatID),
			)
		}
		return nil
	})
}
