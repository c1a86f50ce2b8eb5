package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// callbackReply describes how a callback updates the message it came from.
// An empty text leaves the message unchanged.
type callbackReply struct {
	text   string
	kb     *tgbotapi.InlineKeyboardMarkup
	notice string
}

// callbackRequest is a decoded callback query.
type callbackRequest struct {
	id        string
	chatID    int64
	userID    int64
	messageID int
	data      callbackData
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, noticeStale)
		return
	}

	req := callbackRequest{
		id:        cb.ID,
		chatID:    cb.Message.Chat.ID,
		userID:    cb.Message.Chat.ID,
		messageID: cb.Message.MessageID,
		data:      decodeCallback(cb.Data),
	}
	if cb.From != nil {
		req.userID = cb.From.ID
	}

	var (
		reply callbackReply
		err   error
	)

	switch req.data.Action {
	case actionDifficulty:
		reply, err = h.onDifficulty(ctx, req)
	case actionCategory:
		reply, err = h.onCategory(ctx, req)
	case actionPage:
		reply, err = h.onPage(req)
	case actionStart:
		reply, err = h.onStart(ctx, req)
	case actionAnswer:
		reply, err = h.onAnswer(ctx, req)
	case actionNext:
		reply, err = h.onNext(ctx, req)
	case actionAgain:
		reply, err = h.onAgain(ctx, req)
	default:
		err = errBadCallback
	}

	if err != nil {
		reply = h.callbackError(req, err)
	}

	if reply.text != "" {
		h.send(newHTMLEdit(req.chatID, req.messageID, reply.text, reply.kb))
	}

	// Remove the user's "clock".
	h.answerCallback(req.id, reply.notice)
}

func (h *Handler) onDifficulty(ctx context.Context, req callbackRequest) (callbackReply, error) {
	difficulty, page, err := req.data.difficulty()
	if err != nil {
		return callbackReply{}, err
	}

	view, err := h.quizService.SelectDifficulty(ctx, req.chatID, req.userID, difficulty)
	if err != nil {
		return callbackReply{}, err
	}

	return setupReply(view, page, ""), nil
}

func (h *Handler) onCategory(ctx context.Context, req callbackRequest) (callbackReply, error) {
	categoryID, page, err := req.data.category()
	if err != nil {
		return callbackReply{}, err
	}

	view, err := h.quizService.SelectCategory(ctx, req.chatID, req.userID, categoryID)
	if err != nil {
		return callbackReply{}, err
	}

	return setupReply(view, page, ""), nil
}

func (h *Handler) onPage(req callbackRequest) (callbackReply, error) {
	page, err := req.data.page()
	if err != nil {
		return callbackReply{}, err
	}

	view, err := h.quizService.View(req.chatID)
	if err != nil {
		return callbackReply{}, err
	}
	if view.Stage != entities.StageSetup {
		return callbackReply{}, entities.ErrInvalidStage
	}

	return setupReply(view, page, ""), nil
}

func (h *Handler) onStart(ctx context.Context, req callbackRequest) (callbackReply, error) {
	view, err := h.quizService.View(req.chatID)
	if err != nil {
		return callbackReply{}, err
	}
	if view.Pending {
		return callbackReply{}, entities.ErrStartPending
	}
	if view.Stage != entities.StageSetup {
		return callbackReply{}, entities.ErrInvalidStage
	}

	h.send(newHTMLEdit(req.chatID, req.messageID, msgLoading, nil))

	view, err = h.quizService.Start(ctx, req.chatID)
	switch {
	case err == nil:
		return questionReply(view), nil

	case errors.Is(err, entities.ErrStaleResult):
		return callbackReply{text: msgRoundCancelled}, nil

	case errors.Is(err, entities.ErrStartPending):
		return callbackReply{notice: noticeStartPending}, nil

	default:
		// Back to the setup screen so the user can retry.
		if !errors.Is(err, service.ErrQuestionFetchFailed) {
			h.logger.Error("failed to start quiz",
				zap.Int64("chat_id", req.chatID),
				zap.Error(err),
			)
		}
		reply := setupReply(view, 0, msgFetchFailed+"\n\n")
		reply.notice = noticeFetchFailed
		return reply, nil
	}
}

func (h *Handler) onAnswer(ctx context.Context, req callbackRequest) (callbackReply, error) {
	round, index, choice, err := req.data.answer()
	if err != nil {
		return callbackReply{}, err
	}

	answered, view, err := h.quizService.Answer(ctx, req.chatID, round, index, choice)
	if err != nil {
		return callbackReply{}, err
	}

	kb := buildNextKeyboard(view)
	reply := callbackReply{
		text:   renderFeedback(answered, view),
		kb:     &kb,
		notice: noticeIncorrect,
	}
	if answered.IsCorrect {
		reply.notice = noticeCorrect
	}
	if answered.ShuffledChoices[choice] != answered.SelectedChoice {
		reply.notice = noticeAlreadyChosen
	}
	return reply, nil
}

func (h *Handler) onNext(ctx context.Context, req callbackRequest) (callbackReply, error) {
	round, index, err := req.data.next()
	if err != nil {
		return callbackReply{}, err
	}

	view, err := h.quizService.Next(ctx, req.chatID, round, index)
	if err != nil {
		return callbackReply{}, err
	}

	if view.Stage == entities.StageFinished {
		kb := buildResultKeyboard()
		return callbackReply{text: renderResult(view), kb: &kb}, nil
	}
	return questionReply(view), nil
}

func (h *Handler) onAgain(ctx context.Context, req callbackRequest) (callbackReply, error) {
	h.quizService.Restart(ctx, req.chatID, req.userID)
	view := h.quizService.LoadCategories(ctx, req.chatID, req.userID)
	return setupReply(view, 0, ""), nil
}

// callbackError maps an error to a notice. Expected outcomes of stale or
// repeated taps are not logged as errors.
func (h *Handler) callbackError(req callbackRequest, err error) callbackReply {
	switch {
	case errors.Is(err, entities.ErrStaleAction):
		return callbackReply{notice: noticeStale}
	case errors.Is(err, service.ErrSessionNotFound):
		return callbackReply{notice: noticeSessionGone}
	case errors.Is(err, entities.ErrStartPending):
		return callbackReply{notice: noticeStartPending}
	case errors.Is(err, entities.ErrInvalidStage):
		return callbackReply{notice: noticeSetupOnly}
	case errors.Is(err, errBadCallback),
		errors.Is(err, entities.ErrInvalidDifficulty),
		errors.Is(err, entities.ErrInvalidChoice):
		h.logger.Warn("bad callback data",
			zap.Int64("chat_id", req.chatID),
			zap.String("data", req.data.Raw),
		)
		return callbackReply{notice: noticeBadCallback}
	default:
		h.logger.Error("handle callback error",
			zap.Int64("chat_id", req.chatID),
			zap.String("data", req.data.Raw),
			zap.Error(err),
		)
		return callbackReply{notice: msgInternalError}
	}
}

func (h *Handler) answerCallback(id, notice string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, notice)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func setupReply(view entities.SessionView, page int, prefix string) callbackReply {
	kb := buildSetupKeyboard(view, page)
	return callbackReply{text: prefix + renderSetup(view), kb: &kb}
}

func questionReply(view entities.SessionView) callbackReply {
	kb := buildChoiceKeyboard(view)
	return callbackReply{text: renderQuestion(view), kb: &kb}
}
