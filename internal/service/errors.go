package service

import "errors"

var (
	ErrSessionNotFound     = errors.New("quiz session not found")
	ErrCatalogFetchFailed  = errors.New("category catalog fetch failed")
	ErrQuestionFetchFailed = errors.New("question fetch failed")
)
