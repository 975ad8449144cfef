// Package listview implements the search + cascading filters + pagination
// controller shared by every management page.
//
// Controller mirrors a whole collection and paginates in memory. Paged
// delegates search and pagination to the store and only keeps the current
// page.
package listview

import (
	"errors"
	"fmt"
	"strings"
)

// All is the filter value meaning "no constraint".
const All = "all"

var (
	ErrUnknownFilter  = errors.New("unknown filter")
	ErrInvalidPerPage = errors.New("page size not offered")
)

// DefaultPerPageOptions are the page sizes offered when a Config sets none.
var DefaultPerPageOptions = []int{5, 10, 25, 50}

const defaultPerPage = 10

// Field reads a string value from an item. ok is false when the value is
// absent; absent values never match a search or a filter.
type Field[T any] func(T) (value string, ok bool)

// Filter is a categorical selector. Parent names the filter this one
// depends on; changing the parent resets this filter to All.
type Filter[T any] struct {
	Key    string
	Parent string
	Value  Field[T]
}

// Config parametrises a controller for one entity type.
type Config[T any] struct {
	SearchFields   []Field[T]
	Filters        []Filter[T]
	PerPageOptions []int
	DefaultPerPage int
}

// View is the derived, visible state of a controller.
type View[T any] struct {
	Items      []T `json:"data"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total"`
}

// Controller is not safe for concurrent use; each view owns its own.
type Controller[T any] struct {
	cfg     Config[T]
	items   []T
	search  string
	filters map[string]string
	page    int
	perPage int
}

// New returns a controller on page 1 with every filter set to All.
func New[T any](cfg Config[T]) *Controller[T] {
	if len(cfg.PerPageOptions) == 0 {
		cfg.PerPageOptions = DefaultPerPageOptions
	}
	if cfg.DefaultPerPage <= 0 {
		cfg.DefaultPerPage = defaultPerPage
	}
	c := &Controller[T]{
		cfg:     cfg,
		filters: make(map[string]string, len(cfg.Filters)),
		page:    1,
		perPage: cfg.DefaultPerPage,
	}
	for _, f := range cfg.Filters {
		c.filters[f.Key] = All
	}
	return c
}

// Load replaces the mirrored collection. The page cursor is kept and
// clamped on the next View.
func (c *Controller[T]) Load(items []T) {
	c.items = items
}

// Clear empties the mirror, as after a failed fetch.
func (c *Controller[T]) Clear() {
	c.items = nil
}

// Items returns the full mirror.
func (c *Controller[T]) Items() []T { return c.items }

func (c *Controller[T]) Search() string { return c.search }

// SetSearch changes the search term and goes back to page 1.
func (c *Controller[T]) SetSearch(term string) {
	c.search = term
	c.page = 1
}

// Filter returns the current value of a filter, All when unknown.
func (c *Controller[T]) Filter(key string) string {
	if v, ok := c.filters[key]; ok {
		return v
	}
	return All
}

// Filters returns a copy of every filter value.
func (c *Controller[T]) Filters() map[string]string {
	out := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// SetFilter sets a filter, resets every filter depending on it (directly
// or transitively) to All and goes back to page 1. An empty value is
// treated as All.
func (c *Controller[T]) SetFilter(key, value string) error {
	if _, ok := c.filters[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	if value == "" {
		value = All
	}
	c.filters[key] = value
	for _, child := range c.descendants(key) {
		c.filters[child] = All
	}
	c.page = 1
	return nil
}

// ResetFilters puts every filter back to All.
func (c *Controller[T]) ResetFilters() {
	for k := range c.filters {
		c.filters[k] = All
	}
	c.page = 1
}

func (c *Controller[T]) descendants(key string) []string {
	var out []string
	queue := []string{key}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, f := range c.cfg.Filters {
			if f.Parent == parent {
				out = append(out, f.Key)
				queue = append(queue, f.Key)
			}
		}
	}
	return out
}

func (c *Controller[T]) PerPageOptions() []int { return c.cfg.PerPageOptions }

// SetPerPage changes the page size (one of the offered options) and goes
// back to page 1.
func (c *Controller[T]) SetPerPage(n int) error {
	for _, opt := range c.cfg.PerPageOptions {
		if opt == n {
			c.perPage = n
			c.page = 1
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrInvalidPerPage, n)
}

// SetPage moves the cursor, clamped to [1, totalPages].
func (c *Controller[T]) SetPage(p int) {
	c.page = clamp(p, totalPages(len(c.Filtered()), c.perPage))
}

func (c *Controller[T]) NextPage() { c.SetPage(c.page + 1) }

func (c *Controller[T]) PrevPage() { c.SetPage(c.page - 1) }

// Filtered returns the items matching the search term and every active
// filter, in mirror order.
func (c *Controller[T]) Filtered() []T {
	term := strings.ToLower(c.search)
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if term != "" && !c.matchesSearch(item, term) {
			continue
		}
		if !c.matchesFilters(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *Controller[T]) matchesSearch(item T, term string) bool {
	for _, field := range c.cfg.SearchFields {
		v, ok := field(item)
		if ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func (c *Controller[T]) matchesFilters(item T) bool {
	for _, f := range c.cfg.Filters {
		want := c.filters[f.Key]
		if want == All {
			continue
		}
		got, ok := f.Value(item)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// View computes the visible page.
func (c *Controller[T]) View() View[T] {
	filtered := c.Filtered()
	total := len(filtered)
	pages := totalPages(total, c.perPage)
	c.page = clamp(c.page, pages)

	v := View[T]{
		Items:      []T{},
		Page:       c.page,
		PerPage:    c.perPage,
		TotalPages: pages,
		TotalCount: total,
	}
	if pages == 0 {
		return v
	}
	start := (c.page - 1) * c.perPage
	end := start + c.perPage
	if end > total {
		end = total
	}
	v.Items = filtered[start:end]
	return v
}

func totalPages(total, perPage int) int {
	if total == 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func clamp(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}
