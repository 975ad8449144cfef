package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
)

func TestBrandPage_SaveAndDelete(t *testing.T) {
	store := &stubBrands{}
	store.items = []domain.Brand{{ID: 1, Name: "HP"}, {ID: 2, Name: "Canon"}}
	store.setID = func(b *domain.Brand, id int64) { b.ID = id }

	ctx := context.Background()
	p := NewBrandPage(ctx, store, listview.PagedConfig{}, zerolog.Nop())
	defer p.Close()

	if err := p.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := p.View().State().Result.Total; got != 2 {
		t.Fatalf("expected 2 brands, got %d", got)
	}

	if _, err := p.Save(ctx, domain.Brand{Name: "Ricoh"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := p.View().State().Result.Total; got != 3 {
		t.Fatalf("page not refreshed after save, total=%d", got)
	}

	p.RequestDelete(2, "Canon")
	p.CancelDelete()
	if len(store.deleted) != 0 {
		t.Fatalf("cancel must not delete")
	}
	p.RequestDelete(2, "Canon")
	if err := p.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if len(store.deleted) != 1 || p.View().State().Result.Total != 2 {
		t.Fatalf("delete not applied: %v", store.deleted)
	}
}

func TestBrandPage_FailureUsesDescribe(t *testing.T) {
	store := &stubBrands{}
	store.listErr = domain.ErrUnauthorized
	ctx := context.Background()
	p := NewBrandPage(ctx, store, listview.PagedConfig{}, zerolog.Nop())
	defer p.Close()

	_ = p.Load(ctx)
	if st := p.View().State(); st.Err != MsgSessionExpired || len(st.Result.Data) != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestBrandPage_Query(t *testing.T) {
	store := &stubBrands{}
	store.items = []domain.Brand{{ID: 1, Name: "HP"}}
	ctx := context.Background()
	p := NewBrandPage(ctx, store, listview.PagedConfig{}, zerolog.Nop())
	defer p.Close()

	st, err := p.Query(ctx, domain.PageQuery{Page: 2, PerPage: 5, SearchTerm: "hp"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if st.Query.Page != 2 || st.Query.PerPage != 5 || st.Query.SearchTerm != "hp" {
		t.Fatalf("unexpected query %+v", st.Query)
	}
	if len(store.queries) != 1 {
		t.Fatalf("expected one fetch, got %d", len(store.queries))
	}
	if _, err := p.Query(ctx, domain.PageQuery{PerPage: 3}); err != listview.ErrInvalidPerPage {
		t.Fatalf("expected ErrInvalidPerPage, got %v", err)
	}
}
