package listview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/printmanage/console/internal/core/domain"
)

type brand struct {
	ID   int64
	Name string
}

type recordingFetcher struct {
	mu      sync.Mutex
	queries []domain.PageQuery
	err     error
}

func (f *recordingFetcher) fetch(_ context.Context, q domain.PageQuery) (domain.PageResult[brand], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return domain.PageResult[brand]{}, f.err
	}
	return domain.PageResult[brand]{
		Data:        []brand{{ID: 1, Name: q.SearchTerm}},
		Total:       42,
		LastPage:    5,
		CurrentPage: q.Page,
	}, nil
}

func (f *recordingFetcher) calls() []domain.PageQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PageQuery(nil), f.queries...)
}

func TestPaged_SearchIsDebounced(t *testing.T) {
	f := &recordingFetcher{}
	p := NewPaged(context.Background(), PagedConfig{Debounce: 20 * time.Millisecond}, f.fetch)
	changed := make(chan PagedState[brand], 1)
	p.OnChange(func(s PagedState[brand]) { changed <- s })

	p.SetSearch("h")
	p.SetSearch("hp")
	p.SetSearch("hp l")

	select {
	case s := <-changed:
		if s.Query.SearchTerm != "hp l" || s.Result.Data[0].Name != "hp l" {
			t.Fatalf("unexpected state: %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatalf("search never applied")
	}
	time.Sleep(50 * time.Millisecond)

	calls := f.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one fetch, got %d", len(calls))
	}
	if calls[0].Page != 1 || calls[0].PerPage != 10 {
		t.Fatalf("unexpected query: %+v", calls[0])
	}
}

func TestPaged_FlushSearch(t *testing.T) {
	f := &recordingFetcher{}
	p := NewPaged(context.Background(), PagedConfig{Debounce: time.Hour}, f.fetch)
	p.SetSearch("canon")
	if !p.FlushSearch() {
		t.Fatalf("expected pending search")
	}
	if got := p.State().Query.SearchTerm; got != "canon" {
		t.Fatalf("unexpected search term %q", got)
	}
	if len(f.calls()) != 1 {
		t.Fatalf("flush should fetch once")
	}
}

func TestPaged_PageAndSizeChanges(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{}
	p := NewPaged(ctx, PagedConfig{}, f.fetch)

	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := p.SetPage(ctx, 99); err != nil {
		t.Fatalf("set page: %v", err)
	}
	if got := p.State().Query.Page; got != 5 {
		t.Fatalf("expected clamp to last page 5, got %d", got)
	}
	if err := p.SetPerPage(ctx, 25); err != nil {
		t.Fatalf("set per page: %v", err)
	}
	s := p.State()
	if s.Query.Page != 1 || s.Query.PerPage != 25 {
		t.Fatalf("page size change must reset page: %+v", s.Query)
	}
	if err := p.SetPerPage(ctx, 3); !errors.Is(err, ErrInvalidPerPage) {
		t.Fatalf("expected ErrInvalidPerPage, got %v", err)
	}
}

func TestPaged_FailureEmptiesMirror(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{}
	p := NewPaged(ctx, PagedConfig{Describe: func(error) string { return "boom" }}, f.fetch)
	_ = p.Refresh(ctx)

	f.err = errors.New("down")
	if err := p.Refresh(ctx); err == nil {
		t.Fatalf("expected error")
	}
	s := p.State()
	if s.Err != "boom" || len(s.Result.Data) != 0 {
		t.Fatalf("expected empty mirror and message, got %+v", s)
	}
}

func TestPaged_StaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	var first sync.Once

	fetch := func(_ context.Context, q domain.PageQuery) (domain.PageResult[brand], error) {
		if q.SearchTerm == "slow" {
			first.Do(func() { close(started) })
			<-release
		}
		return domain.PageResult[brand]{Data: []brand{{Name: q.SearchTerm}}, LastPage: 1}, nil
	}
	p := NewPaged(ctx, PagedConfig{Filters: []string{"kind"}}, fetch)

	p.SetSearch("slow")
	errc := make(chan error, 1)
	go func() {
		p.FlushSearch()
		errc <- nil
	}()
	<-started

	p.mu.Lock()
	p.query.SearchTerm = "fast"
	p.mu.Unlock()
	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	close(release)
	<-errc

	s := p.State()
	if s.Result.Data[0].Name != "fast" {
		t.Fatalf("stale response overwrote the newer one: %+v", s.Result)
	}
	if s.Loading {
		t.Fatalf("no request should be in flight")
	}
}

func TestPaged_SetFilter(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{}
	p := NewPaged(ctx, PagedConfig{Filters: []string{"kind"}}, f.fetch)
	if err := p.SetFilter(ctx, "kind", "laser"); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	calls := f.calls()
	if calls[0].Filters["kind"] != "laser" {
		t.Fatalf("filter not sent: %+v", calls[0])
	}
	if err := p.SetFilter(ctx, "nope", "x"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestPaged_Apply(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{}
	p := NewPaged(ctx, PagedConfig{Filters: []string{"kind"}, Debounce: time.Hour}, f.fetch)

	p.SetSearch("pending")
	err := p.Apply(ctx, domain.PageQuery{Page: 3, PerPage: 25, SearchTerm: "hp"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	calls := f.calls()
	if len(calls) != 1 {
		t.Fatalf("expected a single fetch, got %d", len(calls))
	}
	q := calls[0]
	if q.Page != 3 || q.PerPage != 25 || q.SearchTerm != "hp" || q.Filters["kind"] != All {
		t.Fatalf("unexpected query: %+v", q)
	}
	if p.FlushSearch() {
		t.Fatalf("pending search should have been dropped")
	}

	if err := p.Apply(ctx, domain.PageQuery{PerPage: 7}); !errors.Is(err, ErrInvalidPerPage) {
		t.Fatalf("expected ErrInvalidPerPage, got %v", err)
	}
	if err := p.Apply(ctx, domain.PageQuery{Filters: map[string]string{"nope": "x"}}); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}
