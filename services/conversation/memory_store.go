package conversation

import (
	"context"
	"sync"

	"praxisagent/models"
)

// MemorySessionStore is a process-local SessionStore. It backs tests and
// single-instance deployments without Redis.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.CallSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.CallSession)}
}

func (s *MemorySessionStore) Get(_ context.Context, callID string) (models.CallSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[callID]; ok {
		return sess, nil
	}
	return models.NewCallSession(callID), nil
}

func (s *MemorySessionStore) Put(_ context.Context, sess models.CallSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.CallID] = sess
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, callID)
	return nil
}
