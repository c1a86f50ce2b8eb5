// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const (
	msgWelcome = "👋 <b>Welcome to Trivia Quiz!</b>\n\n" +
		"Pick a difficulty and a category, then press <b>Start</b> to get 10 questions."
	msgHelp = "<b>Commands</b>\n\n" +
		"/quiz — set up a new quiz\n" +
		"/restart — abandon the current quiz\n" +
		"/score — show your current score\n" +
		"/help — show this message"
	msgUnknownCommand = "Unknown command. Send /help to see what I can do."
	msgUseCommands    = "Send /quiz to play."
	msgInternalError  = "Something went wrong. Please try again later."
	msgRestarted      = "Quiz abandoned. Set up a new one:"
	msgNoQuiz         = "No quiz in progress. Send /quiz to start one."
	msgLoading        = "⏳ Loading questions…"
	msgFetchFailed    = "⚠️ Could not load questions. Please try again."
	msgRoundCancelled = "This quiz was cancelled."
)

// Callback notices, shown as a toast.
const (
	noticeStale         = "This button is no longer active."
	noticeSessionGone   = "This quiz has expired. Send /quiz to start a new one."
	noticeStartPending  = "Questions are already loading."
	noticeSetupOnly     = "Finish or restart the current quiz first."
	noticeBadCallback   = "Unknown action."
	noticeFetchFailed   = "Could not load questions."
	noticeCorrect       = "Correct!"
	noticeIncorrect     = "Incorrect!"
	noticeAlreadyChosen = "You already answered this question."
)

const (
	labelCorrect   = "✅ Correct!"
	labelIncorrect = "❌ Incorrect! The correct answer was: "
	labelAny       = "Any category"
	labelStart     = "▶️ Start"
	labelNext      = "Next ➡️"
	labelResults   = "Show results 🏁"
	labelAgain     = "🔄 Play again"
	labelPrev      = "◀️"
	labelMore      = "▶️"
	labelSelected  = "✅ "
)

// text decodes the HTML entities of a trivia string and escapes the result
// for Telegram's HTML parse mode.
func text(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, entities.DecodeEntities(s))
}

// plain decodes the HTML entities of a trivia string for use in button labels.
func plain(s string) string {
	return entities.DecodeEntities(s)
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

func newHTMLEdit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	return edit
}
