// Package confirm holds destructive actions until the user explicitly
// confirms them.
package confirm

import (
	"context"
	"errors"
	"sync"
)

// ErrNothingPending is returned when confirming a gate that holds no action.
var ErrNothingPending = errors.New("no action awaiting confirmation")

// Action is the deferred operation, invoked with the stored payload.
type Action[P any] func(ctx context.Context, payload P) error

// Gate stores at most one deferred action. Confirm invokes it exactly once;
// Cancel discards it without invoking it.
type Gate[P any] struct {
	mu      sync.Mutex
	open    bool
	message string
	payload P
	action  Action[P]
}

// Ask arms the gate, replacing any action still pending. A nil action
// makes the confirmation a no-op.
func (g *Gate[P]) Ask(message string, payload P, action Action[P]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = true
	g.message = message
	g.payload = payload
	g.action = action
}

// Pending returns the prompt of the armed action.
func (g *Gate[P]) Pending() (message string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message, g.open
}

// Payload returns the stored payload of the armed action.
func (g *Gate[P]) Payload() (P, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payload, g.open
}

// Confirm closes the gate and runs the stored action.
func (g *Gate[P]) Confirm(ctx context.Context) error {
	action, payload, ok := g.take()
	if !ok {
		return ErrNothingPending
	}
	if action == nil {
		return nil
	}
	return action(ctx, payload)
}

// Cancel closes the gate without running the action. It reports whether
// something was pending.
func (g *Gate[P]) Cancel() bool {
	_, _, ok := g.take()
	return ok
}

func (g *Gate[P]) take() (Action[P], P, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var zero P
	if !g.open {
		return nil, zero, false
	}
	action, payload := g.action, g.payload
	g.open = false
	g.message = ""
	g.payload = zero
	g.action = nil
	return action, payload, true
}
