package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

// withRecover keeps a panicking update from taking down the dispatch pool.
func (h *Handler) withRecover(fn func(ctx context.Context, update tgbotapi.Update)) func(ctx context.Context, update tgbotapi.Update) {
	return func(ctx context.Context, update tgbotapi.Update) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("panic while handling update",
					zap.Int("update_id", update.UpdateID),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		fn(ctx, update)
	}
}
