package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type Handler struct {
	bot         Bot
	logger      *zap.Logger
	quizService QuizService
	userService UserService
	workers     int
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	userService UserService,
	workers int,
) *Handler {
	if workers <= 0 {
		workers = 1
	}
	return &Handler{
		bot:         bot,
		logger:      logger,
		quizService: quizService,
		userService: userService,
		workers:     workers,
	}
}

// Run receives updates until ctx is done. Updates are handled concurrently
// by at most h.workers goroutines; in-flight updates finish before Run returns.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started", zap.Int("workers", h.workers))
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	p := pool.New().WithMaxGoroutines(h.workers)
	defer p.Wait()

	handle := h.withRecover(h.handleUpdate)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.Go(func() {
				handle(ctx, update)
			})
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := chatID
	if from := update.Message.From; from != nil {
		userID = from.ID
	}

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgUseCommands))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.startCommand(userID))(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.quizCommand(userID))(ctx, chatID)

	case "restart":
		_ = h.withErrorHandling(h.restartCommand(userID))(ctx, chatID)

	case "score":
		_ = h.withErrorHandling(h.scoreCommand())(ctx, chatID)

	case "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
