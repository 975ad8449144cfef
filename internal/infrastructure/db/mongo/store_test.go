package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/printmanage/console/internal/core/domain"
)

func TestBrandFilter(t *testing.T) {
	if f := brandFilter("  "); len(f) != 0 {
		t.Fatalf("empty term must match everything, got %v", f)
	}
	f := brandFilter(" h.p ")
	cond, ok := f["name"].(bson.M)
	if !ok {
		t.Fatalf("expected a name condition, got %v", f)
	}
	if cond["$regex"] != `h\.p` || cond["$options"] != "i" {
		t.Fatalf("unexpected regex %v", cond)
	}
}

func TestLastPage(t *testing.T) {
	cases := []struct{ total, per, want int }{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
	}
	for _, tc := range cases {
		if got := lastPage(tc.total, tc.per); got != tc.want {
			t.Fatalf("lastPage(%d, %d) = %d, want %d", tc.total, tc.per, got, tc.want)
		}
	}
}

func TestWriteError_DuplicateKey(t *testing.T) {
	r := &repository[domain.Materiel]{name: "materiel", unique: &uniqueField{Field: "reference", Message: "taken"}}
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	var ve *domain.ValidationError
	if err := r.writeError("insert", dup); !errors.As(err, &ve) || ve.Fields["reference"][0] != "taken" {
		t.Fatalf("expected a reference validation error, got %v", err)
	}

	other := errors.New("connection reset")
	if err := r.writeError("insert", other); !errors.Is(err, other) {
		t.Fatalf("expected the original error wrapped, got %v", err)
	}
}

type fakeJournal struct {
	entries     []int64
	appendErr   error
	withdrawErr error
}

func (j *fakeJournal) append(_ context.Context, mv domain.PrinterMovement) error {
	if j.appendErr != nil {
		return j.appendErr
	}
	j.entries = append(j.entries, mv.ID)
	return nil
}

func (j *fakeJournal) withdraw(_ context.Context, id int64) error {
	if j.withdrawErr != nil {
		return j.withdrawErr
	}
	for i, e := range j.entries {
		if e == id {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
		}
	}
	return nil
}

func TestRelocate(t *testing.T) {
	ctx := context.Background()
	mv := domain.PrinterMovement{ID: 5, PrinterID: 2, NewDepartmentID: 9}
	updateErr := errors.New("write conflict")

	t.Run("records then moves", func(t *testing.T) {
		j := &fakeJournal{}
		var recordedFirst bool
		apply := func(context.Context) error {
			recordedFirst = len(j.entries) == 1
			return nil
		}
		if err := relocate(ctx, j, mv, apply, zerolog.Nop()); err != nil {
			t.Fatalf("relocate: %v", err)
		}
		if !recordedFirst || len(j.entries) != 1 {
			t.Fatalf("movement must be recorded before the update, entries %v", j.entries)
		}
	})

	t.Run("failed log leaves printer in place", func(t *testing.T) {
		j := &fakeJournal{appendErr: errors.New("insert failed")}
		applied := false
		apply := func(context.Context) error {
			applied = true
			return nil
		}
		if err := relocate(ctx, j, mv, apply, zerolog.Nop()); err == nil {
			t.Fatalf("expected an error")
		}
		if applied {
			t.Fatalf("printer must not move without a movement entry")
		}
	})

	t.Run("failed update withdraws the entry", func(t *testing.T) {
		j := &fakeJournal{}
		apply := func(context.Context) error { return updateErr }
		if err := relocate(ctx, j, mv, apply, zerolog.Nop()); !errors.Is(err, updateErr) {
			t.Fatalf("expected the update error, got %v", err)
		}
		if len(j.entries) != 0 {
			t.Fatalf("entry must be withdrawn, got %v", j.entries)
		}
	})
}
