package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/session"
)

// AuthService signs users in against the store and keeps their session.
type AuthService struct {
	auth      ports.Authenticator
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(auth ports.Authenticator, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{auth: auth, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login checks the credentials with the store and opens a session
// holding the store token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login rejected")
		return nil, err
	}

	sess := &domain.Session{
		ID:          ulid.Make().String(),
		Token:       res.Token,
		UserID:      res.User.ID,
		Role:        res.User.Role,
		Roles:       []string{res.User.Role},
		DisplayName: res.User.Name,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.log.Info().Str("session_id", sess.ID).Str("role", sess.Role).Msg("signed in")
	return sess, nil
}

// IssueToken signs the JWT handed to the browser for sess.
func (s *AuthService) IssueToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":  sess.ID,
		"role": sess.Role,
		"name": sess.DisplayName,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// Resolve loads a session and binds it to the session store.
func (s *AuthService) Resolve(ctx context.Context, id string) (*session.Bound, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Bind(sess, s.sessions), nil
}

// Logout forgets the session.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("session_id", id).Msg("signed out")
	return nil
}

// Preferences are the user-adjustable parts of a session.
type Preferences struct {
	DarkMode *bool  `json:"dark_mode"`
	Role     string `json:"role"`
}

// UpdatePreferences switches the dark mode and the active role. The role
// must be one of the session's roles.
func (s *AuthService) UpdatePreferences(ctx context.Context, id string, p Preferences) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != "" {
		if !slices.Contains(sess.Roles, p.Role) {
			return nil, domain.ErrForbidden
		}
		sess.Role = p.Role
	}
	if p.DarkMode != nil {
		sess.DarkMode = *p.DarkMode
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}
