package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// UserStorage keeps users in memory when no database is configured.
type UserStorage struct {
	mu    sync.RWMutex
	users map[int64]entities.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{users: make(map[int64]entities.User)}
}

func (s *UserStorage) Save(_ context.Context, user *entities.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[user.ID]
	s.users[user.ID] = *user
	return !exists, nil
}

func (s *UserStorage) Exists(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}
