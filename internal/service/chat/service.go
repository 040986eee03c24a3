package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/chat"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrFeedbackNotFound = errors.New("feedback id not found")
	ErrInvalidVote      = errors.New("vote must be \"up\" or \"down\"")
)

// Service owns the live session handles. Nothing is persisted across restarts.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService bootstraps the in-memory session registry.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*Session),
	}
}

// CreateSession provisions an empty session with the given preferences.
func (s *Service) CreateSession(_ context.Context, prefs chat.Preferences) (*Session, error) {
	session := newSession(prefs)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session handle by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession ends a session and drops its log.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
