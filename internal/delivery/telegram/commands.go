package telegram

import (
	"context"
	"errors"

	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// startCommand greets the user and shows the setup screen.
func (h *Handler) startCommand(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newHTMLMessage(chatID, msgWelcome))
		return h.quizCommand(userID)(ctx, chatID)
	}
}

// quizCommand abandons any round and shows a fresh setup screen.
func (h *Handler) quizCommand(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.quizService.Restart(ctx, chatID, userID)
		return h.sendSetup(ctx, chatID, userID, "")
	}
}

// restartCommand abandons the current round.
func (h *Handler) restartCommand(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.quizService.Restart(ctx, chatID, userID)
		return h.sendSetup(ctx, chatID, userID, msgRestarted+"\n\n")
	}
}

// scoreCommand shows the progress of the current round.
func (h *Handler) scoreCommand() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		view, err := h.quizService.View(chatID)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				h.send(newHTMLMessage(chatID, msgNoQuiz))
				return nil
			}
			return err
		}

		h.send(newHTMLMessage(chatID, renderScore(view)))
		return nil
	}
}

func (h *Handler) sendSetup(ctx context.Context, chatID, userID int64, prefix string) error {
	view := h.quizService.LoadCategories(ctx, chatID, userID)

	msg := newHTMLMessage(chatID, prefix+renderSetup(view))
	msg.ReplyMarkup = buildSetupKeyboard(view, 0)
	h.send(msg)
	return nil
}
