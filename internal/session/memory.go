package session

import (
	"context"
	"sync"

	"github.com/printmanage/console/internal/core/domain"
)

// Memory is a process-local SessionStore, used by the terminal console.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]domain.Session)}
}

func (m *Memory) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.Roles = append([]string(nil), s.Roles...)
	return &s, nil
}

func (m *Memory) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	c.Roles = append([]string(nil), s.Roles...)
	m.sessions[s.ID] = c
	return nil
}

func (m *Memory) ClearToken(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Token = ""
	m.sessions[id] = s
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
