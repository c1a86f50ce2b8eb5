package telegram

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionDifficulty = "diff"
	actionCategory   = "cat"
	actionPage       = "page"
	actionStart      = "start"
	actionAnswer     = "ans"
	actionNext       = "next"
	actionAgain      = "again"
)

// anyCategory is the category parameter that clears the filter.
const anyCategory = "any"

var errBadCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildDifficultyCallback encodes a difficulty choice made on picker page.
func buildDifficultyCallback(d entities.Difficulty, page int) string {
	return callbackData{Action: actionDifficulty, Params: []string{string(d), strconv.Itoa(page)}}.encode()
}

// buildCategoryCallback encodes a category choice; nil selects any category.
// page is the picker page to show afterwards.
func buildCategoryCallback(categoryID *int, page int) string {
	id := anyCategory
	if categoryID != nil {
		id = strconv.Itoa(*categoryID)
	}
	return callbackData{Action: actionCategory, Params: []string{id, strconv.Itoa(page)}}.encode()
}

func buildPageCallback(page int) string {
	return callbackData{Action: actionPage, Params: []string{strconv.Itoa(page)}}.encode()
}

func buildStartCallback() string {
	return callbackData{Action: actionStart}.encode()
}

func buildAnswerCallback(round uint64, index, choice int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.FormatUint(round, 10),
			strconv.Itoa(index),
			strconv.Itoa(choice),
		},
	}.encode()
}

func buildNextCallback(round uint64, index int) string {
	return callbackData{
		Action: actionNext,
		Params: []string{strconv.FormatUint(round, 10), strconv.Itoa(index)},
	}.encode()
}

func buildAgainCallback() string {
	return callbackData{Action: actionAgain}.encode()
}

func (cd callbackData) difficulty() (entities.Difficulty, int, error) {
	if len(cd.Params) != 2 {
		return "", 0, errBadCallback
	}
	page, err := strconv.Atoi(cd.Params[1])
	if err != nil || page < 0 {
		return "", 0, errBadCallback
	}
	d, err := entities.ParseDifficulty(cd.Params[0])
	if err != nil {
		return "", 0, err
	}
	return d, page, nil
}

func (cd callbackData) category() (*int, int, error) {
	if len(cd.Params) != 2 {
		return nil, 0, errBadCallback
	}
	page, err := strconv.Atoi(cd.Params[1])
	if err != nil || page < 0 {
		return nil, 0, errBadCallback
	}
	if cd.Params[0] == anyCategory {
		return nil, page, nil
	}
	id, err := strconv.Atoi(cd.Params[0])
	if err != nil {
		return nil, 0, errBadCallback
	}
	return &id, page, nil
}

func (cd callbackData) page() (int, error) {
	if len(cd.Params) != 1 {
		return 0, errBadCallback
	}
	page, err := strconv.Atoi(cd.Params[0])
	if err != nil || page < 0 {
		return 0, errBadCallback
	}
	return page, nil
}

func (cd callbackData) answer() (round uint64, index, choice int, err error) {
	if len(cd.Params) != 3 {
		return 0, 0, 0, errBadCallback
	}
	round, err1 := strconv.ParseUint(cd.Params[0], 10, 64)
	index, err2 := strconv.Atoi(cd.Params[1])
	choice, err3 := strconv.Atoi(cd.Params[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, errBadCallback
	}
	return round, index, choice, nil
}

func (cd callbackData) next() (round uint64, index int, err error) {
	if len(cd.Params) != 2 {
		return 0, 0, errBadCallback
	}
	round, err1 := strconv.ParseUint(cd.Params[0], 10, 64)
	index, err2 := strconv.Atoi(cd.Params[1])
	if err1 != nil || err2 != nil {
		return 0, 0, errBadCallback
	}
	return round, index, nil
}
