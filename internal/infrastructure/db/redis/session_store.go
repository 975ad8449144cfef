package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

const defaultSessionTTL = 12 * time.Hour

// Hash fields of a session.
const (
	fieldToken       = "token"
	fieldUserID      = "user_id"
	fieldRole        = "role"
	fieldRoles       = "roles"
	fieldDisplayName = "display_name"
	fieldDarkMode    = "dark_mode"
)

// SessionStore keeps one hash per session.
// Key format: session:<id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore wraps client; sessions expire ttl after their last save.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}

// Get loads a session and slides its expiry.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	vals, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	s.client.Expire(ctx, s.key(id), s.ttl)
	return decodeSession(id, vals), nil
}

// Save writes every field of sess.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	key := s.key(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, encodeSession(sess))
		if sess.Token == "" {
			pipe.HDel(ctx, key, fieldToken)
		}
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearToken drops the token field only; the session itself survives.
func (s *SessionStore) ClearToken(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return s.client.HDel(ctx, s.key(id), fieldToken).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func encodeSession(sess *domain.Session) map[string]any {
	vals := map[string]any{
		fieldUserID:      strconv.FormatInt(sess.UserID, 10),
		fieldRole:        sess.Role,
		fieldRoles:       strings.Join(sess.Roles, ","),
		fieldDisplayName: sess.DisplayName,
		fieldDarkMode:    strconv.FormatBool(sess.DarkMode),
	}
	if sess.Token != "" {
		vals[fieldToken] = sess.Token
	}
	return vals
}

func decodeSession(id string, vals map[string]string) *domain.Session {
	sess := &domain.Session{
		ID:          id,
		Token:       vals[fieldToken],
		Role:        vals[fieldRole],
		DisplayName: vals[fieldDisplayName],
	}
	sess.UserID, _ = strconv.ParseInt(vals[fieldUserID], 10, 64)
	sess.DarkMode, _ = strconv.ParseBool(vals[fieldDarkMode])
	if roles := vals[fieldRoles]; roles != "" {
		sess.Roles = strings.Split(roles, ",")
	}
	return sess
}
