package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// SettingsStorage keeps quiz preferences in memory when no database is configured.
type SettingsStorage struct {
	mu       sync.RWMutex
	settings map[int64]entities.UserSettings
}

func NewSettingsStorage() *SettingsStorage {
	return &SettingsStorage{settings: make(map[int64]entities.UserSettings)}
}

func (s *SettingsStorage) Create(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[userID]; !ok {
		s.settings[userID] = *entities.NewUserSettings(userID)
	}
	return nil
}

func (s *SettingsStorage) GetByUserID(_ context.Context, userID int64) (*entities.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settings[userID]
	if !ok {
		return nil, entities.ErrSettingsNotFound
	}
	if st.CategoryID != nil {
		id := *st.CategoryID
		st.CategoryID = &id
	}
	return &st, nil
}

func (s *SettingsStorage) UpdateDifficulty(_ context.Context, userID int64, difficulty entities.Difficulty) error {
	return s.update(userID, func(st *entities.UserSettings) {
		st.Difficulty = difficulty
	})
}

func (s *SettingsStorage) UpdateCategory(_ context.Context, userID int64, categoryID *int) error {
	return s.update(userID, func(st *entities.UserSettings) {
		if categoryID == nil {
			st.CategoryID = nil
			return
		}
		id := *categoryID
		st.CategoryID = &id
	})
}

func (s *SettingsStorage) update(userID int64, fn func(st *entities.UserSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[userID]
	if !ok {
		return entities.ErrSettingsNotFound
	}
	fn(&st)
	st.UpdatedAt = time.Now()
	s.settings[userID] = st
	return nil
}

// NoopTransactor runs functions directly; in-memory storage has no transactions.
type NoopTransactor struct{}

func (NoopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
