package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/confirm"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
)

// ErrReadOnly is returned when saving or deleting on a page backed by a
// read-only log.
var ErrReadOnly = errors.New("collection is read-only")

// Lister is the read side of a collection.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Page mirrors one collection of the store behind a list-view controller
// and gates its deletes. A Page is owned by a single view and is not safe
// for concurrent use.
type Page[T domain.Entity] struct {
	name   string
	list   Lister[T]
	coll   ports.Collection[T]
	ctrl   *listview.Controller[T]
	gate   confirm.Gate[int64]
	errMsg string
	log    zerolog.Logger
}

// NewPage builds a page over a full CRUD collection.
func NewPage[T domain.Entity](name string, coll ports.Collection[T], cfg listview.Config[T], log zerolog.Logger) *Page[T] {
	return &Page[T]{
		name: name,
		list: coll,
		coll: coll,
		ctrl: listview.New(cfg),
		log:  log.With().Str("page", name).Logger(),
	}
}

// NewReadOnlyPage builds a page over a list that cannot be modified.
func NewReadOnlyPage[T domain.Entity](name string, list Lister[T], cfg listview.Config[T], log zerolog.Logger) *Page[T] {
	return &Page[T]{
		name: name,
		list: list,
		ctrl: listview.New(cfg),
		log:  log.With().Str("page", name).Logger(),
	}
}

func (p *Page[T]) Name() string { return p.name }

// Controller exposes search, filters and pagination.
func (p *Page[T]) Controller() *listview.Controller[T] { return p.ctrl }

// Err is the message of the last failed load, empty after a success.
func (p *Page[T]) Err() string { return p.errMsg }

// ReadOnly reports whether Save and deletes are refused.
func (p *Page[T]) ReadOnly() bool { return p.coll == nil }

// Load fetches the whole collection into the mirror. On failure the
// mirror is emptied and Err describes the cause.
func (p *Page[T]) Load(ctx context.Context) error {
	items, err := p.list.List(ctx)
	if err != nil {
		p.ctrl.Clear()
		p.errMsg = Describe(err)
		p.log.Warn().Err(err).Msg("load failed")
		return err
	}
	p.ctrl.Load(items)
	p.errMsg = ""
	p.log.Debug().Int("count", len(items)).Msg("loaded")
	return nil
}

// Get fetches a single record.
func (p *Page[T]) Get(ctx context.Context, id int64) (T, error) {
	if p.coll == nil {
		for _, item := range p.ctrl.Items() {
			if item.EntityID() == id {
				return item, nil
			}
		}
		var zero T
		return zero, domain.ErrNotFound
	}
	return p.coll.Get(ctx, id)
}

// Save creates the record when it has no id, updates it otherwise, then
// reloads the mirror. A failed reload does not fail the save.
func (p *Page[T]) Save(ctx context.Context, item T) (T, error) {
	var zero T
	if p.coll == nil {
		return zero, ErrReadOnly
	}
	var (
		saved T
		err   error
	)
	if id := item.EntityID(); id == 0 {
		saved, err = p.coll.Create(ctx, item)
	} else {
		saved, err = p.coll.Update(ctx, id, item)
	}
	if err != nil {
		p.log.Warn().Err(err).Int64("id", item.EntityID()).Msg("save failed")
		return zero, err
	}
	p.log.Info().Int64("id", saved.EntityID()).Msg("saved")
	_ = p.Load(ctx)
	return saved, nil
}

// RequestDelete arms the confirmation gate for id and returns its prompt.
func (p *Page[T]) RequestDelete(id int64, label string) (string, error) {
	if p.coll == nil {
		return "", ErrReadOnly
	}
	msg := DeletePrompt(p.name, label)
	p.gate.Ask(msg, id, p.delete)
	return msg, nil
}

// PendingDelete returns the prompt of the armed delete.
func (p *Page[T]) PendingDelete() (string, bool) { return p.gate.Pending() }

// ConfirmDelete issues the armed DELETE and reloads the mirror.
func (p *Page[T]) ConfirmDelete(ctx context.Context) error {
	return p.gate.Confirm(ctx)
}

// CancelDelete drops the armed delete without any request.
func (p *Page[T]) CancelDelete() bool { return p.gate.Cancel() }

func (p *Page[T]) delete(ctx context.Context, id int64) error {
	if err := p.coll.Delete(ctx, id); err != nil {
		p.errMsg = Describe(err)
		p.log.Warn().Err(err).Int64("id", id).Msg("delete failed")
		return err
	}
	p.log.Info().Int64("id", id).Msg("deleted")
	_ = p.Load(ctx)
	return nil
}

// DeletePrompt is the confirmation message of a delete.
func DeletePrompt(resource, label string) string {
	if label == "" {
		return fmt.Sprintf("Are you sure you want to delete this %s?", resource)
	}
	return fmt.Sprintf("Are you sure you want to delete %s %q?", resource, label)
}
