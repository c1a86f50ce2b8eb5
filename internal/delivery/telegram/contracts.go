package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// Bot is the subset of *tgbotapi.BotAPI used by the handler.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type QuizService interface {
	LoadCategories(ctx context.Context, chatID, userID int64) entities.SessionView
	SelectDifficulty(ctx context.Context, chatID, userID int64, difficulty entities.Difficulty) (entities.SessionView, error)
	SelectCategory(ctx context.Context, chatID, userID int64, categoryID *int) (entities.SessionView, error)
	Start(ctx context.Context, chatID int64) (entities.SessionView, error)
	Answer(ctx context.Context, chatID int64, round uint64, index, choiceIndex int) (entities.AnsweredQuestion, entities.SessionView, error)
	Next(ctx context.Context, chatID int64, round uint64, index int) (entities.SessionView, error)
	Restart(ctx context.Context, chatID, userID int64) entities.SessionView
	View(chatID int64) (entities.SessionView, error)
}
