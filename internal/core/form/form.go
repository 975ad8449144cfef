// Package form collects and locally validates a single record before
// handing it to a save callback owned by the page.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/printmanage/console/internal/core/domain"
)

// GenericSaveError is shown when a save fails for a reason other than a
// field validation error.
const GenericSaveError = "An error occurred while saving. Please try again."

// FieldSpec describes one input of a form.
type FieldSpec[T any] struct {
	Name     string
	Label    string
	Required bool
	// Numeric fields are parsed as base-10 integers, 0 on empty or invalid
	// input.
	Numeric bool
	Get     func(T) string
	Set     func(*T, string)
}

// Schema is the ordered list of inputs for an entity.
type Schema[T any] struct {
	Fields []FieldSpec[T]
}

// Field returns the fs named name.
func (s Schema[T]) Field(name string) (FieldSpec[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec[T]{}, false
}

// SaveFunc persists a candidate record and returns the stored one.
type SaveFunc[T any] func(ctx context.Context, item T) (T, error)

// Option tweaks a form.
type Option[T any] func(*Form[T])

// SkipUnchanged suppresses the save in edit mode when no field differs
// from the pre-fill.
func SkipUnchanged[T any]() Option[T] {
	return func(f *Form[T]) { f.skipUnchanged = true }
}

// WithDescribe overrides how non-validation save errors are shown.
func WithDescribe[T any](fn func(error) string) Option[T] {
	return func(f *Form[T]) { f.describe = fn }
}

// Form holds the raw input values of one record.
type Form[T any] struct {
	schema        Schema[T]
	base          T
	edit          bool
	values        map[string]string
	initial       map[string]string
	save          SaveFunc[T]
	skipUnchanged bool
	describe      func(error) string
	errMsg        string
	fieldErrs     map[string][]string
}

// NewCreate starts an empty form from defaults.
func NewCreate[T any](schema Schema[T], defaults T, save SaveFunc[T], opts ...Option[T]) *Form[T] {
	return newForm(schema, defaults, false, save, opts)
}

// NewEdit pre-fills every field from entity.
func NewEdit[T any](schema Schema[T], entity T, save SaveFunc[T], opts ...Option[T]) *Form[T] {
	return newForm(schema, entity, true, save, opts)
}

func newForm[T any](schema Schema[T], base T, edit bool, save SaveFunc[T], opts []Option[T]) *Form[T] {
	f := &Form[T]{
		schema:   schema,
		base:     base,
		edit:     edit,
		values:   make(map[string]string, len(schema.Fields)),
		initial:  make(map[string]string, len(schema.Fields)),
		save:     save,
		describe: func(error) string { return GenericSaveError },
	}
	for _, o := range opts {
		o(f)
	}
	for _, fs := range schema.Fields {
		v := fs.Get(base)
		if fs.Numeric {
			v = strconv.Itoa(ParseQuantity(v))
		}
		f.values[fs.Name] = v
		f.initial[fs.Name] = v
	}
	return f
}

func (f *Form[T]) Editing() bool { return f.edit }

func (f *Form[T]) Schema() Schema[T] { return f.schema }

// Value returns the raw value of a field.
func (f *Form[T]) Value(name string) string { return f.values[name] }

// Values returns a copy of every raw value.
func (f *Form[T]) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Set records raw input for a field.
func (f *Form[T]) Set(name, raw string) error {
	if _, ok := f.schema.Field(name); !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	f.values[name] = raw
	return nil
}

// Changed reports whether any value differs from the pre-fill.
func (f *Form[T]) Changed() bool {
	for k, v := range f.values {
		if strings.TrimSpace(v) != strings.TrimSpace(f.initial[k]) {
			return true
		}
	}
	return false
}

// Err is the message to display above the form, empty when none.
func (f *Form[T]) Err() string { return f.errMsg }

// FieldErrors returns the messages attached to each field by the last
// submit.
func (f *Form[T]) FieldErrors() map[string][]string { return f.fieldErrs }

// Record builds the candidate record from the current values.
func (f *Form[T]) Record() T {
	rec := f.base
	for _, fs := range f.schema.Fields {
		raw := strings.TrimSpace(f.values[fs.Name])
		if fs.Numeric {
			raw = strconv.Itoa(ParseQuantity(raw))
		}
		fs.Set(&rec, raw)
	}
	return rec
}

// Submit validates the form and calls the save callback. saved is false
// when nothing was sent, either because validation failed or because an
// unchanged edit was suppressed.
func (f *Form[T]) Submit(ctx context.Context) (result T, saved bool, err error) {
	f.errMsg = ""
	f.fieldErrs = nil

	if f.edit && f.skipUnchanged && !f.Changed() {
		return f.base, false, nil
	}

	if err := f.validate(); err != nil {
		return f.base, false, err
	}
	rec := f.Record()
	if err := Validate(rec); err != nil {
		f.fail(err)
		return f.base, false, err
	}

	out, err := f.save(ctx, rec)
	if err != nil {
		f.fail(err)
		return f.base, false, err
	}
	return out, true, nil
}

func (f *Form[T]) validate() error {
	ve := &domain.ValidationError{}
	for _, fs := range f.schema.Fields {
		if fs.Required && strings.TrimSpace(f.values[fs.Name]) == "" {
			ve.Add(fs.Name, fs.Label+" is required")
		}
	}
	if ve.Empty() {
		return nil
	}
	f.fail(ve)
	return ve
}

func (f *Form[T]) fail(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && !ve.Empty() {
		f.fieldErrs = ve.Fields
		f.errMsg = ve.Bullets()
		return
	}
	f.errMsg = f.describe(err)
}

// ParseQuantity parses a base-10 integer, returning 0 on empty or invalid
// input.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
