package memory

import (
	"context"
	"sync"

	"quizbot/internal/domain"
)

// SessionStore is an in-memory implementation of engine.SessionStore.
// Entries are created lazily and never evicted, so the map grows with the
// number of distinct senders; the Redis store bounds growth via key TTLs.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

func (s *SessionStore) GetOrCreate(_ context.Context, userID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		return session, nil
	}
	session := domain.NewSession()
	s.sessions[userID] = session
	return session, nil
}

func (s *SessionStore) Put(_ context.Context, userID string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
	return nil
}

func (s *SessionStore) Reset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = domain.NewSession()
	return nil
}
