package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const (
	categoriesPerPage = 8
	categoriesPerRow  = 2
)

// categoryPages returns the number of picker pages for n categories.
func categoryPages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + categoriesPerPage - 1) / categoriesPerPage
}

// clampPage keeps page within the picker bounds.
func clampPage(page, n int) int {
	if last := categoryPages(n) - 1; page > last {
		return last
	}
	if page < 0 {
		return 0
	}
	return page
}

// buildSetupKeyboard builds the difficulty row, one page of the category
// picker and the Start button.
func buildSetupKeyboard(view entities.SessionView, page int) tgbotapi.InlineKeyboardMarkup {
	page = clampPage(page, len(view.Categories))

	var rows [][]tgbotapi.InlineKeyboardButton

	var difficulties []tgbotapi.InlineKeyboardButton
	for _, d := range entities.Difficulties {
		label := d.Title()
		if d == view.Difficulty {
			label = labelSelected + label
		}
		difficulties = append(difficulties, tgbotapi.NewInlineKeyboardButtonData(label, buildDifficultyCallback(d, page)))
	}
	rows = append(rows, difficulties)

	anyLabel := labelAny
	if view.CategoryID == nil {
		anyLabel = labelSelected + anyLabel
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(anyLabel, buildCategoryCallback(nil, page)),
	))

	from := page * categoriesPerPage
	to := min(from+categoriesPerPage, len(view.Categories))

	var row []tgbotapi.InlineKeyboardButton
	for _, c := range view.Categories[from:to] {
		label := plain(c.Name)
		if view.CategoryID != nil && *view.CategoryID == c.ID {
			label = labelSelected + label
		}
		id := c.ID
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildCategoryCallback(&id, page)))
		if len(row) == categoriesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if total := categoryPages(len(view.Categories)); total > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(labelPrev, buildPageCallback(page-1)))
		}
		if page < total-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(labelMore, buildPageCallback(page+1)))
		}
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(labelStart, buildStartCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildChoiceKeyboard builds one button per shuffled choice of the active question.
func buildChoiceKeyboard(view entities.SessionView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Choices))
	for i, choice := range view.Choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(plain(choice), buildAnswerCallback(view.Round, view.CurrentIndex, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildNextKeyboard builds the button shown under answer feedback.
func buildNextKeyboard(view entities.SessionView) tgbotapi.InlineKeyboardMarkup {
	label := labelNext
	if view.CurrentIndex+1 >= view.Total {
		label = labelResults
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildNextCallback(view.Round, view.CurrentIndex)),
		),
	)
}

// buildResultKeyboard builds keyboard for the results screen.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelAgain, buildAgainCallback()),
		),
	)
}
