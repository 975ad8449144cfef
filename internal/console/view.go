package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/form"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/service"
)

// view is one open management page.
type view interface {
	title() string
	load(ctx context.Context) error
	render(w io.Writer)
	search(ctx context.Context, term string) error
	filter(ctx context.Context, key, value string) error
	filterKeys() []string
	perPageOptions() []int
	setPage(ctx context.Context, n int) error
	next(ctx context.Context) error
	prev(ctx context.Context) error
	perPage(ctx context.Context, n int) error
	create(ctx context.Context, p *prompter) error
	edit(ctx context.Context, id int64, p *prompter) error
	remove(ctx context.Context, id int64, p *prompter) error
}

type column[T any] struct {
	title string
	value func(T) string
}

// listView shows a collection mirrored in memory.
type listView[T domain.Entity] struct {
	page    *service.Page[T]
	columns []column[T]
	label   func(T) string
	// schema is nil on read-only pages.
	schema func(creating bool) form.Schema[T]
	opts   []form.Option[T]
}

func (v *listView[T]) title() string { return v.page.Name() }

func (v *listView[T]) load(ctx context.Context) error { return v.page.Load(ctx) }

func (v *listView[T]) search(_ context.Context, term string) error {
	v.page.Controller().SetSearch(term)
	return nil
}

func (v *listView[T]) filter(_ context.Context, key, value string) error {
	return v.page.Controller().SetFilter(key, value)
}

func (v *listView[T]) filterKeys() []string {
	keys := make([]string, 0)
	for k := range v.page.Controller().Filters() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *listView[T]) perPageOptions() []int { return v.page.Controller().PerPageOptions() }

func (v *listView[T]) setPage(_ context.Context, n int) error {
	v.page.Controller().SetPage(n)
	return nil
}

func (v *listView[T]) next(context.Context) error {
	v.page.Controller().NextPage()
	return nil
}

func (v *listView[T]) prev(context.Context) error {
	v.page.Controller().PrevPage()
	return nil
}

func (v *listView[T]) perPage(_ context.Context, n int) error {
	return v.page.Controller().SetPerPage(n)
}

func (v *listView[T]) render(w io.Writer) {
	ctrl := v.page.Controller()
	if msg := v.page.Err(); msg != "" {
		fmt.Fprintln(w, "! "+msg)
	}
	view := ctrl.View()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"ID"}
	for _, c := range v.columns {
		header = append(header, c.title)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, item := range view.Items {
		row := []string{strconv.FormatInt(item.EntityID(), 10)}
		for _, c := range v.columns {
			row = append(row, c.value(item))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "(no records)")
	}
	fmt.Fprintf(w, "page %d/%d, %d per page, %d records", view.Page, max(view.TotalPages, 1), view.PerPage, view.TotalCount)
	if s := ctrl.Search(); s != "" {
		fmt.Fprintf(w, ", search %q", s)
	}
	for _, k := range v.filterKeys() {
		if f := ctrl.Filter(k); f != listview.All {
			fmt.Fprintf(w, ", %s=%s", k, f)
		}
	}
	fmt.Fprintln(w)
}

func (v *listView[T]) create(ctx context.Context, p *prompter) error {
	if v.schema == nil {
		return service.ErrReadOnly
	}
	var zero T
	f := form.NewCreate(v.schema(true), zero, v.page.Save, v.formOptions()...)
	return fill(ctx, f, p)
}

func (v *listView[T]) edit(ctx context.Context, id int64, p *prompter) error {
	if v.schema == nil {
		return service.ErrReadOnly
	}
	item, err := v.page.Get(ctx, id)
	if err != nil {
		return err
	}
	f := form.NewEdit(v.schema(false), item, v.page.Save, v.formOptions()...)
	return fill(ctx, f, p)
}

func (v *listView[T]) formOptions() []form.Option[T] {
	return append([]form.Option[T]{form.WithDescribe[T](service.Describe)}, v.opts...)
}

func (v *listView[T]) remove(ctx context.Context, id int64, p *prompter) error {
	if v.schema == nil {
		return service.ErrReadOnly
	}
	item, err := v.page.Get(ctx, id)
	if err != nil {
		return err
	}
	msg, err := v.page.RequestDelete(id, v.label(item))
	if err != nil {
		return err
	}
	ok, err := p.confirm(msg)
	if err != nil || !ok {
		v.page.CancelDelete()
		return err
	}
	return v.page.ConfirmDelete(ctx)
}

// brandView shows brands, searched and paginated by the store.
type brandView struct {
	page *service.BrandPage
}

func (v *brandView) title() string { return "brand" }

func (v *brandView) load(ctx context.Context) error { return v.page.Load(ctx) }

// search goes through the debouncer like typed input, then flushes it so
// the REPL prints the settled page.
func (v *brandView) search(_ context.Context, term string) error {
	v.page.View().SetSearch(term)
	v.page.View().FlushSearch()
	return nil
}

func (v *brandView) filter(context.Context, string, string) error { return listview.ErrUnknownFilter }

func (v *brandView) filterKeys() []string { return nil }

func (v *brandView) perPageOptions() []int { return listview.DefaultPerPageOptions }

func (v *brandView) setPage(ctx context.Context, n int) error { return v.page.View().SetPage(ctx, n) }

func (v *brandView) next(ctx context.Context) error {
	st := v.page.View().State()
	return v.page.View().SetPage(ctx, st.Query.Page+1)
}

func (v *brandView) prev(ctx context.Context) error {
	st := v.page.View().State()
	return v.page.View().SetPage(ctx, st.Query.Page-1)
}

func (v *brandView) perPage(ctx context.Context, n int) error { return v.page.View().SetPerPage(ctx, n) }

func (v *brandView) render(w io.Writer) {
	st := v.page.View().State()
	if st.Err != "" {
		fmt.Fprintln(w, "! "+st.Err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName")
	for _, b := range st.Result.Data {
		fmt.Fprintf(tw, "%d\t%s\n", b.ID, b.Name)
	}
	_ = tw.Flush()
	if len(st.Result.Data) == 0 {
		fmt.Fprintln(w, "(no records)")
	}
	fmt.Fprintf(w, "page %d/%d, %d per page, %d records", st.Query.Page, max(st.Result.LastPage, 1), st.Query.PerPage, st.Result.Total)
	if st.Query.SearchTerm != "" {
		fmt.Fprintf(w, ", search %q", st.Query.SearchTerm)
	}
	fmt.Fprintln(w)
}

func (v *brandView) create(ctx context.Context, p *prompter) error {
	f := form.NewCreate(form.BrandSchema, domain.Brand{}, v.page.Save, form.WithDescribe[domain.Brand](service.Describe))
	return fill(ctx, f, p)
}

func (v *brandView) edit(ctx context.Context, id int64, p *prompter) error {
	b, err := v.page.Get(ctx, id)
	if err != nil {
		return err
	}
	f := form.NewEdit(form.BrandSchema, b, v.page.Save, form.WithDescribe[domain.Brand](service.Describe))
	return fill(ctx, f, p)
}

func (v *brandView) remove(ctx context.Context, id int64, p *prompter) error {
	b, err := v.page.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := p.confirm(v.page.RequestDelete(id, b.Name))
	if err != nil || !ok {
		v.page.CancelDelete()
		return err
	}
	return v.page.ConfirmDelete(ctx)
}

func (v *brandView) close() { v.page.Close() }

// errFormRejected means the form was shown its errors and nothing was
// saved.
var errFormRejected = errors.New("form not saved")

// fill prompts for every field of f, then submits it. Field errors are
// printed and the user may correct them.
func fill[T any](ctx context.Context, f *form.Form[T], p *prompter) error {
	fields := f.Schema().Fields
	for {
		for _, fs := range fields {
			label := fs.Label
			if fs.Required {
				label += "*"
			}
			v, err := p.field(label, f.Value(fs.Name))
			if err != nil {
				return err
			}
			if err := f.Set(fs.Name, v); err != nil {
				return err
			}
		}
		_, saved, err := f.Submit(ctx)
		if saved {
			fmt.Fprintln(p.out, "Saved.")
			return nil
		}
		if err == nil {
			fmt.Fprintln(p.out, "Nothing changed.")
			return nil
		}
		fmt.Fprintln(p.out, f.Err())
		again, perr := p.confirm("Correct and retry?")
		if perr != nil {
			return perr
		}
		if !again {
			return errFormRejected
		}
	}
}
