// Package session binds a persisted console session to the typed accessor
// the controllers and remote stores consume.
package session

import (
	"context"
	"sync"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

// Bound is a session snapshot tied to the store it came from. Clearing the
// token updates both the snapshot and the store.
type Bound struct {
	mu    sync.RWMutex
	s     domain.Session
	store ports.SessionStore
}

var _ ports.Session = (*Bound)(nil)

// Bind wraps s; store may be nil for sessions that are never persisted.
func Bind(s *domain.Session, store ports.SessionStore) *Bound {
	b := &Bound{store: store}
	if s != nil {
		b.s = *s
	}
	return b
}

func (b *Bound) ID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.ID
}

func (b *Bound) Token() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.Token
}

func (b *Bound) Role() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.Role
}

func (b *Bound) Roles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.s.Roles...)
}

func (b *Bound) DisplayName() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.DisplayName
}

func (b *Bound) DarkMode() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.DarkMode
}

// Snapshot returns a copy of the underlying session.
func (b *Bound) Snapshot() domain.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.s
	s.Roles = append([]string(nil), b.s.Roles...)
	return s
}

func (b *Bound) ClearToken(ctx context.Context) error {
	b.mu.Lock()
	b.s.Token = ""
	id := b.s.ID
	b.mu.Unlock()

	if b.store == nil || id == "" {
		return nil
	}
	return b.store.ClearToken(ctx, id)
}
