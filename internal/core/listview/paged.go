package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/printmanage/console/internal/core/domain"
)

// ErrSuperseded is returned by Refresh when a newer request was issued
// while this one was in flight; its response is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Fetcher loads one page from the store.
type Fetcher[T any] func(ctx context.Context, q domain.PageQuery) (domain.PageResult[T], error)

// PagedConfig parametrises a server-paginated controller.
type PagedConfig struct {
	Filters        []string
	PerPageOptions []int
	DefaultPerPage int
	Debounce       time.Duration
	// Describe turns a fetch error into the message exposed by Err.
	Describe func(error) string
}

// PagedState is a snapshot of a server-paginated view.
type PagedState[T any] struct {
	Query   domain.PageQuery
	Result  domain.PageResult[T]
	Err     string
	Loading bool
}

// Paged keeps only the current page and asks the store for every change.
// Search changes are debounced; responses are sequence-numbered so a stale
// response never overwrites a newer one.
type Paged[T any] struct {
	mu       sync.Mutex
	cfg      PagedConfig
	fetch    Fetcher[T]
	debounce *Debouncer
	query    domain.PageQuery
	result   domain.PageResult[T]
	errMsg   string
	seq      uint64
	inFlight int
	onChange func(PagedState[T])
	baseCtx  context.Context
}

// NewPaged builds a server-paginated controller. ctx bounds the fetches
// issued by debounced search changes.
func NewPaged[T any](ctx context.Context, cfg PagedConfig, fetch Fetcher[T]) *Paged[T] {
	if len(cfg.PerPageOptions) == 0 {
		cfg.PerPageOptions = DefaultPerPageOptions
	}
	if cfg.DefaultPerPage <= 0 {
		cfg.DefaultPerPage = defaultPerPage
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Describe == nil {
		cfg.Describe = func(err error) string { return err.Error() }
	}
	filters := make(map[string]string, len(cfg.Filters))
	for _, k := range cfg.Filters {
		filters[k] = All
	}
	return &Paged[T]{
		cfg:      cfg,
		fetch:    fetch,
		debounce: NewDebouncer(cfg.Debounce),
		query:    domain.PageQuery{Page: 1, PerPage: cfg.DefaultPerPage, Filters: filters},
		result:   domain.PageResult[T]{Data: []T{}},
		baseCtx:  ctx,
	}
}

// OnChange registers a callback invoked after every applied response.
func (p *Paged[T]) OnChange(fn func(PagedState[T])) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// State returns the current snapshot.
func (p *Paged[T]) State() PagedState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Paged[T]) stateLocked() PagedState[T] {
	q := p.query
	q.Filters = make(map[string]string, len(p.query.Filters))
	for k, v := range p.query.Filters {
		q.Filters[k] = v
	}
	return PagedState[T]{Query: q, Result: p.result, Err: p.errMsg, Loading: p.inFlight > 0}
}

// SetSearch records the term and schedules a fetch of page 1 once the
// input settles.
func (p *Paged[T]) SetSearch(term string) {
	p.mu.Lock()
	p.query.SearchTerm = term
	p.query.Page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { _ = p.Refresh(p.baseCtx) })
}

// FlushSearch applies a pending search change immediately.
func (p *Paged[T]) FlushSearch() bool {
	return p.debounce.Flush()
}

// SetFilter changes a filter and fetches page 1 right away.
func (p *Paged[T]) SetFilter(ctx context.Context, key, value string) error {
	p.mu.Lock()
	if _, ok := p.query.Filters[key]; !ok {
		p.mu.Unlock()
		return ErrUnknownFilter
	}
	if value == "" {
		value = All
	}
	p.query.Filters[key] = value
	p.query.Page = 1
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// SetPerPage changes the page size and fetches page 1 right away.
func (p *Paged[T]) SetPerPage(ctx context.Context, n int) error {
	valid := false
	for _, opt := range p.cfg.PerPageOptions {
		if opt == n {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidPerPage
	}
	p.mu.Lock()
	p.query.PerPage = n
	p.query.Page = 1
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// SetPage moves the cursor, clamped to the last page known from the store,
// and fetches it.
func (p *Paged[T]) SetPage(ctx context.Context, page int) error {
	p.mu.Lock()
	last := p.result.LastPage
	if last > 0 && page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	p.query.Page = page
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Apply replaces the whole query, as when a view is restored from a URL,
// and fetches it once. A pending debounced search is dropped. Filters
// missing from q are reset to All.
func (p *Paged[T]) Apply(ctx context.Context, q domain.PageQuery) error {
	if q.PerPage == 0 {
		q.PerPage = p.cfg.DefaultPerPage
	}
	valid := false
	for _, opt := range p.cfg.PerPageOptions {
		if opt == q.PerPage {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidPerPage
	}

	p.mu.Lock()
	for k := range q.Filters {
		if _, ok := p.query.Filters[k]; !ok {
			p.mu.Unlock()
			return ErrUnknownFilter
		}
	}
	for k := range p.query.Filters {
		v := q.Filters[k]
		if v == "" {
			v = All
		}
		p.query.Filters[k] = v
	}
	p.query.SearchTerm = q.SearchTerm
	p.query.PerPage = q.PerPage
	p.query.Page = max(q.Page, 1)
	p.mu.Unlock()

	p.debounce.Cancel()
	return p.Refresh(ctx)
}

// Refresh fetches the current query. If a newer Refresh starts before this
// one returns, this response is dropped and ErrSuperseded is returned.
func (p *Paged[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	q := p.stateLocked().Query
	p.inFlight++
	p.mu.Unlock()

	res, err := p.fetch(ctx, q)

	p.mu.Lock()
	p.inFlight--
	if seq != p.seq {
		p.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		p.result = domain.PageResult[T]{Data: []T{}}
		p.errMsg = p.cfg.Describe(err)
	} else {
		if res.Data == nil {
			res.Data = []T{}
		}
		p.result = res
		p.errMsg = ""
	}
	state := p.stateLocked()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(state)
	}
	return err
}

// Close drops any pending debounced search.
func (p *Paged[T]) Close() {
	p.debounce.Cancel()
}
