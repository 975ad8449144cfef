package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrUnknownConfirmation = errors.New("confirmation not found or expired")
	ErrNotOwner            = errors.New("confirmation belongs to another session")
)

const DefaultTTL = 5 * time.Minute

type entry[P any] struct {
	owner   string
	gate    *Gate[P]
	expires time.Time
}

// Registry keeps gates addressed by id for callers that cannot hold a Gate
// across requests. Each gate belongs to one owner and expires after the TTL.
type Registry[P any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry[P]
}

func NewRegistry[P any](ttl time.Duration) *Registry[P] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry[P]{ttl: ttl, now: time.Now, entries: make(map[string]*entry[P])}
}

// Ask arms a new gate for owner and returns its id.
func (r *Registry[P]) Ask(owner, message string, payload P, action Action[P]) string {
	g := &Gate[P]{}
	g.Ask(message, payload, action)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	id := ulid.Make().String()
	r.entries[id] = &entry[P]{owner: owner, gate: g, expires: r.now().Add(r.ttl)}
	return id
}

// Confirm runs the action stored under id. The entry is removed whether
// the action succeeds or not.
func (r *Registry[P]) Confirm(ctx context.Context, owner, id string) error {
	g, err := r.take(owner, id)
	if err != nil {
		return err
	}
	return g.Confirm(ctx)
}

// Cancel discards the action stored under id and returns its payload.
func (r *Registry[P]) Cancel(owner, id string) (P, error) {
	g, err := r.take(owner, id)
	if err != nil {
		var zero P
		return zero, err
	}
	p, _ := g.Payload()
	g.Cancel()
	return p, nil
}

// Len returns the number of live entries.
func (r *Registry[P]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.entries)
}

func (r *Registry[P]) take(owner, id string) (*Gate[P], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrUnknownConfirmation
	}
	if e.owner != owner {
		return nil, ErrNotOwner
	}
	delete(r.entries, id)
	return e.gate, nil
}

func (r *Registry[P]) sweepLocked() {
	now := r.now()
	for id, e := range r.entries {
		if now.After(e.expires) {
			delete(r.entries, id)
		}
	}
}
