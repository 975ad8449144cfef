package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/printmanage/console/internal/core/domain"
)

type saveRecorder[T any] struct {
	calls []T
	err   error
}

func (r *saveRecorder[T]) save(_ context.Context, item T) (T, error) {
	r.calls = append(r.calls, item)
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return item, nil
}

func TestEditPrefill(t *testing.T) {
	m := domain.Materiel{ID: 3, Name: "Toner", Reference: "TN-1", Type: "toner", Quantite: 12}
	f := NewEdit(MaterielSchema, m, (&saveRecorder[domain.Materiel]{}).save)

	want := map[string]string{
		"name":      "Toner",
		"reference": "TN-1",
		"type":      "toner",
		"quantite":  "12",
		"sortie":    "0",
	}
	for k, v := range want {
		if got := f.Value(k); got != v {
			t.Fatalf("field %s: got %q, want %q", k, got, v)
		}
	}
	if !f.Editing() {
		t.Fatalf("expected edit mode")
	}
}

func TestCreateStartsFromDefaults(t *testing.T) {
	f := NewCreate(CompanySchema, domain.Company{Status: domain.StatusActive}, (&saveRecorder[domain.Company]{}).save)
	if f.Value("name") != "" || f.Value("status") != "active" || f.Value("quota_monthly_bw") != "0" {
		t.Fatalf("unexpected defaults: %+v", f.Values())
	}
}

func TestSubmit_RequiredFields(t *testing.T) {
	rec := &saveRecorder[domain.Materiel]{}
	f := NewCreate(MaterielSchema, domain.Materiel{}, rec.save)
	_ = f.Set("name", "  ")

	_, saved, err := f.Submit(context.Background())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if saved || len(rec.calls) != 0 {
		t.Fatalf("save must not be called on invalid input")
	}
	if _, ok := f.FieldErrors()["reference"]; !ok {
		t.Fatalf("missing reference error: %+v", f.FieldErrors())
	}
	if !strings.Contains(f.Err(), "Reference is required") {
		t.Fatalf("unexpected message %q", f.Err())
	}
}

func TestSubmit_NumericCoercion(t *testing.T) {
	rec := &saveRecorder[domain.Materiel]{}
	f := NewCreate(MaterielSchema, domain.Materiel{}, rec.save)
	_ = f.Set("name", "Drum")
	_ = f.Set("reference", "DR-9")
	_ = f.Set("quantite", "abc")
	_ = f.Set("sortie", " 4 ")

	out, saved, err := f.Submit(context.Background())
	if err != nil || !saved {
		t.Fatalf("submit: saved=%v err=%v", saved, err)
	}
	if out.Quantite != 0 || out.Sortie != 4 {
		t.Fatalf("unexpected quantities: %+v", out)
	}
}

func TestSubmit_StructValidation(t *testing.T) {
	rec := &saveRecorder[domain.Company]{}
	f := NewCreate(CompanySchema, domain.Company{}, rec.save)
	_ = f.Set("name", "Acme")
	_ = f.Set("email", "not-an-email")

	_, _, err := f.Submit(context.Background())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msgs := ve.Fields["email"]; len(msgs) != 1 || msgs[0] != "email must be a valid email" {
		t.Fatalf("unexpected email error: %+v", ve.Fields)
	}
}

func TestSubmit_ServerFieldError(t *testing.T) {
	rec := &saveRecorder[domain.Materiel]{err: domain.NewValidationError("reference", "The reference has already been taken.")}
	f := NewCreate(MaterielSchema, domain.Materiel{}, rec.save)
	_ = f.Set("name", "Drum")
	_ = f.Set("reference", "DR-9")

	_, saved, err := f.Submit(context.Background())
	if err == nil || saved {
		t.Fatalf("expected failure")
	}
	if f.Err() != "- The reference has already been taken." {
		t.Fatalf("unexpected message %q", f.Err())
	}
	if len(f.FieldErrors()["reference"]) != 1 {
		t.Fatalf("expected a reference field error")
	}

	// A new submit clears the previous error before trying again.
	rec.err = nil
	if _, saved, err := f.Submit(context.Background()); err != nil || !saved {
		t.Fatalf("retry failed: %v", err)
	}
	if f.Err() != "" || f.FieldErrors() != nil {
		t.Fatalf("previous error not cleared")
	}
}

func TestSubmit_GenericError(t *testing.T) {
	rec := &saveRecorder[domain.Brand]{err: errors.New("socket hang up")}
	f := NewCreate(BrandSchema, domain.Brand{}, rec.save)
	_ = f.Set("name", "HP")
	if _, _, err := f.Submit(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if f.Err() != GenericSaveError {
		t.Fatalf("unexpected message %q", f.Err())
	}

	f = NewCreate(BrandSchema, domain.Brand{}, rec.save, WithDescribe[domain.Brand](func(err error) string { return "custom: " + err.Error() }))
	_ = f.Set("name", "HP")
	_, _, _ = f.Submit(context.Background())
	if f.Err() != "custom: socket hang up" {
		t.Fatalf("describe option ignored: %q", f.Err())
	}
}

func TestSubmit_SkipUnchanged(t *testing.T) {
	rec := &saveRecorder[domain.Materiel]{}
	m := domain.Materiel{ID: 1, Name: "Toner", Reference: "TN-1", Quantite: 3}
	f := NewEdit(MaterielSchema, m, rec.save, SkipUnchanged[domain.Materiel]())

	_ = f.Set("quantite", "03")
	_ = f.Set("quantite", "3")
	out, saved, err := f.Submit(context.Background())
	if err != nil || saved {
		t.Fatalf("unchanged edit should be suppressed: saved=%v err=%v", saved, err)
	}
	if out.ID != 1 || len(rec.calls) != 0 {
		t.Fatalf("expected the original record back without a save")
	}

	_ = f.Set("quantite", "5")
	out, saved, err = f.Submit(context.Background())
	if err != nil || !saved || out.Quantite != 5 || out.ID != 1 {
		t.Fatalf("changed edit should save: %+v saved=%v err=%v", out, saved, err)
	}
}

func TestUserSchema_PasswordRequiredOnCreate(t *testing.T) {
	rec := &saveRecorder[domain.User]{}
	f := NewCreate(UserSchema(true), domain.User{Role: domain.RoleAdmin}, rec.save)
	_ = f.Set("name", "Awa")
	_ = f.Set("email", "awa@example.com")
	if _, _, err := f.Submit(context.Background()); err == nil {
		t.Fatalf("expected missing password error")
	}

	u := domain.User{ID: 2, Name: "Awa", Email: "awa@example.com", Role: domain.RoleClient, CompanyID: domain.Int64Ptr(4)}
	f = NewEdit(UserSchema(false), u, rec.save)
	if f.Value("company_id") != "4" || f.Value("department_id") != "" || f.Value("password") != "" {
		t.Fatalf("unexpected prefill: %+v", f.Values())
	}
	out, saved, err := f.Submit(context.Background())
	if err != nil || !saved {
		t.Fatalf("edit without password should save: %v", err)
	}
	if out.CompanyID == nil || *out.CompanyID != 4 || out.DepartmentID != nil {
		t.Fatalf("references not kept: %+v", out)
	}
}

func TestSetUnknownField(t *testing.T) {
	f := NewCreate(BrandSchema, domain.Brand{}, (&saveRecorder[domain.Brand]{}).save)
	if err := f.Set("colour", "red"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{"": 0, "12": 12, " 7 ": 7, "x": 0, "3.5": 0, "-2": -2, "010": 10}
	for in, want := range cases {
		if got := ParseQuantity(in); got != want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestValidatePresence(t *testing.T) {
	odd := domain.Company{Name: "Globex", Email: "n/a", Status: "suspended", QuotaMonthlyBW: -1}
	if err := ValidatePresence(odd); err != nil {
		t.Fatalf("format and enum rules must not apply, got %v", err)
	}
	if err := Validate(odd); err == nil {
		t.Fatalf("Validate should still reject the record")
	}

	err := ValidatePresence(domain.Materiel{Name: "Toner"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["reference"]; !ok || len(ve.Fields) != 1 {
		t.Fatalf("unexpected fields %+v", ve.Fields)
	}
}
