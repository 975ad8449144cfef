package ports

import (
	"context"

	"github.com/printmanage/console/internal/core/domain"
)

// Session is the typed accessor injected into controllers and stores in
// place of ambient storage lookups.
type Session interface {
	Token() string
	Role() string
	Roles() []string
	DisplayName() string
	DarkMode() bool
	// ClearToken forgets the auth token so the next protected action asks
	// for a new sign-in.
	ClearToken(ctx context.Context) error
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	ClearToken(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
