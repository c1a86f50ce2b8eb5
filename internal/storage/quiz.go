package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// SessionStorage provides in-memory storage for quiz sessions by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
	shuffle  entities.Shuffler
}

// NewSessionStorage creates a new SessionStorage. New sessions use shuffle
// to order answer choices; nil selects the default shuffler.
func NewSessionStorage(shuffle entities.Shuffler) *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.QuizSession),
		shuffle:  shuffle,
	}
}

// GetOrCreate returns the chat's session, creating one in Setup if needed.
func (s *SessionStorage) GetOrCreate(chatID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return session, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[chatID]; ok {
		return session, false
	}
	session = entities.NewQuizSession(chatID, s.shuffle)
	s.sessions[chatID] = session
	return session, true
}

// Get retrieves the session for a given chat ID.
func (s *SessionStorage) Get(chatID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

// Delete removes the session for a given chat ID.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len returns the number of stored sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepIdle removes sessions without activity since before now-ttl and
// returns how many were removed.
func (s *SessionStorage) SweepIdle(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if session.LastActivity().Before(cutoff) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}
