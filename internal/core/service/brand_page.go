package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/confirm"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
)

// BrandPage is the brand management page. Brands are searched and
// paginated by the store.
type BrandPage struct {
	store ports.PagedCollection[domain.Brand]
	view  *listview.Paged[domain.Brand]
	gate  confirm.Gate[int64]
	log   zerolog.Logger
}

// NewBrandPage builds the page; ctx bounds the debounced search fetches.
func NewBrandPage(ctx context.Context, store ports.PagedCollection[domain.Brand], cfg listview.PagedConfig, log zerolog.Logger) *BrandPage {
	if cfg.Describe == nil {
		cfg.Describe = Describe
	}
	return &BrandPage{
		store: store,
		view:  listview.NewPaged(ctx, cfg, store.ListPage),
		log:   log.With().Str("page", "brand").Logger(),
	}
}

// View exposes search, page and page size.
func (b *BrandPage) View() *listview.Paged[domain.Brand] { return b.view }

// Load fetches the current page.
func (b *BrandPage) Load(ctx context.Context) error {
	err := b.view.Refresh(ctx)
	if err != nil && err != listview.ErrSuperseded {
		b.log.Warn().Err(err).Msg("load failed")
	}
	return err
}

// Query applies a whole cursor and fetches it once.
func (b *BrandPage) Query(ctx context.Context, q domain.PageQuery) (listview.PagedState[domain.Brand], error) {
	if err := b.view.Apply(ctx, q); err != nil {
		return b.view.State(), err
	}
	return b.view.State(), nil
}

func (b *BrandPage) Get(ctx context.Context, id int64) (domain.Brand, error) {
	return b.store.Get(ctx, id)
}

// Save creates or updates a brand and refreshes the current page.
func (b *BrandPage) Save(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	saved, err := b.Write(ctx, brand)
	if err != nil {
		return domain.Brand{}, err
	}
	_ = b.Load(ctx)
	return saved, nil
}

// Write creates or updates a brand without refreshing the page.
func (b *BrandPage) Write(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	var (
		saved domain.Brand
		err   error
	)
	if brand.ID == 0 {
		saved, err = b.store.Create(ctx, brand)
	} else {
		saved, err = b.store.Update(ctx, brand.ID, brand)
	}
	if err != nil {
		b.log.Warn().Err(err).Int64("id", brand.ID).Msg("save failed")
		return domain.Brand{}, err
	}
	b.log.Info().Int64("id", saved.ID).Msg("saved")
	return saved, nil
}

// RequestDelete arms the confirmation gate.
func (b *BrandPage) RequestDelete(id int64, label string) string {
	msg := DeletePrompt("brand", label)
	b.gate.Ask(msg, id, b.delete)
	return msg
}

func (b *BrandPage) PendingDelete() (string, bool) { return b.gate.Pending() }

func (b *BrandPage) ConfirmDelete(ctx context.Context) error { return b.gate.Confirm(ctx) }

func (b *BrandPage) CancelDelete() bool { return b.gate.Cancel() }

func (b *BrandPage) delete(ctx context.Context, id int64) error {
	if err := b.store.Delete(ctx, id); err != nil {
		b.log.Warn().Err(err).Int64("id", id).Msg("delete failed")
		return err
	}
	b.log.Info().Int64("id", id).Msg("deleted")
	_ = b.Load(ctx)
	return nil
}

// Close drops any pending debounced search.
func (b *BrandPage) Close() { b.view.Close() }
