package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// renderSetup renders the setup screen text.
func renderSetup(view entities.SessionView) string {
	category := labelAny
	if name := view.CategoryName(); name != "" {
		category = name
	}

	var b strings.Builder
	b.WriteString("🧠 <b>New quiz</b>\n\n")
	fmt.Fprintf(&b, "<b>Difficulty:</b> %s\n", view.Difficulty.Title())
	fmt.Fprintf(&b, "<b>Category:</b> %s\n\n", text(category))
	if len(view.Categories) == 0 {
		b.WriteString("<i>Categories are unavailable right now, questions come from any category.</i>\n\n")
	}
	b.WriteString("Choose your options and press <b>Start</b>.")
	return b.String()
}

// renderQuestion renders the active question.
func renderQuestion(view entities.SessionView) string {
	if view.Question == nil {
		return msgNoQuiz
	}

	q := view.Question
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Question %d/%d</b>", view.CurrentIndex+1, view.Total)
	if q.Category != "" {
		fmt.Fprintf(&b, " · %s", text(q.Category))
	}
	fmt.Fprintf(&b, "\n\n%s", text(q.Prompt))
	return b.String()
}

// renderFeedback renders the question together with the outcome of the answer.
func renderFeedback(answered entities.AnsweredQuestion, view entities.SessionView) string {
	var b strings.Builder
	b.WriteString(renderQuestion(view))
	fmt.Fprintf(&b, "\n\nYour answer: <b>%s</b>\n", text(answered.SelectedChoice))
	if answered.IsCorrect {
		b.WriteString(labelCorrect)
	} else {
		b.WriteString(labelIncorrect + "<b>" + text(answered.Question.CorrectAnswer) + "</b>")
	}
	fmt.Fprintf(&b, "\n\nScore: %d", view.Score)
	return b.String()
}

// renderResult renders the final score screen.
func renderResult(view entities.SessionView) string {
	return fmt.Sprintf(
		"🏁 <b>Quiz finished!</b>\n\nYour score: <b>%d/%d (%d%%)</b>",
		view.Score, view.Total, view.Percentage,
	)
}

// renderScore renders the /score reply for any stage.
func renderScore(view entities.SessionView) string {
	switch view.Stage {
	case entities.StageInProgress:
		return fmt.Sprintf(
			"📊 Question %d/%d, score so far: <b>%d</b>",
			view.CurrentIndex+1, view.Total, view.Score,
		)
	case entities.StageFinished:
		return renderResult(view)
	default:
		return msgNoQuiz
	}
}
