package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/session"
)

func newTestStore(t *testing.T, h http.HandlerFunc) (*Store, *session.Bound, *session.Memory) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cl, err := NewClient(Options{BaseURL: srv.URL + "/api"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	mem := session.NewMemory()
	s := &domain.Session{ID: "s1", Token: "tok", Role: domain.RoleAdmin}
	if err := mem.Save(context.Background(), s); err != nil {
		t.Fatalf("save session: %v", err)
	}
	bound := session.Bind(s, mem)
	return NewFactory(cl).For(bound).(*Store), bound, mem
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestList_BareArrayAndEnvelope(t *testing.T) {
	var auth string
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/companies":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Acme", "status": "active"}})
		case "/api/departments":
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"id": 3, "name": "IT", "company_id": 1}}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	companies, err := store.Companies().List(ctx)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(companies) != 1 || companies[0].Name != "Acme" {
		t.Fatalf("unexpected companies %+v", companies)
	}
	if auth != "Bearer tok" {
		t.Fatalf("bearer token not sent, got %q", auth)
	}

	deps, err := store.Departments().List(ctx)
	if err != nil {
		t.Fatalf("departments: %v", err)
	}
	if len(deps) != 1 || deps[0].CompanyID != 1 {
		t.Fatalf("unexpected departments %+v", deps)
	}
}

func TestList_MalformedRecordsRejected(t *testing.T) {
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/materiel":
			// reference is required
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Toner"}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
		}
	})
	ctx := context.Background()

	if _, err := store.Materiel().List(ctx); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := store.Users().List(ctx); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for a non-list, got %v", err)
	}
}

func TestList_StoredRecordsKeepUnexpectedValues(t *testing.T) {
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/companies":
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "name": "Acme", "email": "info@acme.test", "status": "active"},
				{"id": 2, "name": "Globex", "email": "n/a", "status": "suspended"},
			})
		case "/api/users/4":
			writeJSON(w, http.StatusOK, map[string]any{"id": 4, "name": "Kofi", "email": "kofi", "role": "auditor"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	companies, err := store.Companies().List(ctx)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(companies) != 2 || companies[1].Status != "suspended" || companies[1].Email != "n/a" {
		t.Fatalf("unexpected companies %+v", companies)
	}
	user, err := store.Users().Get(ctx, 4)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.Role != "auditor" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{"forbidden", http.StatusForbidden, map[string]string{"message": "nope"}, func(t *testing.T, err error) {
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		}},
		{"not found", http.StatusNotFound, nil, func(t *testing.T, err error) {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		}},
		{"validation list", http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string]any{"reference": []string{"The reference has already been taken."}},
		}, func(t *testing.T, err error) {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Fields["reference"][0] != "The reference has already been taken." {
				t.Fatalf("unexpected fields %+v", ve.Fields)
			}
		}},
		{"validation single", http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]any{"email": "already used"},
		}, func(t *testing.T, err error) {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Fields["email"][0] != "already used" {
				t.Fatalf("unexpected %v", err)
			}
		}},
		{"server error message", http.StatusInternalServerError, map[string]string{"message": "Server Error"}, func(t *testing.T, err error) {
			var re *domain.RemoteError
			if !errors.As(err, &re) || re.Status != 500 || re.Message != "Server Error" {
				t.Fatalf("unexpected %v", err)
			}
		}},
		{"server error field", http.StatusConflict, map[string]string{"error": "locked"}, func(t *testing.T, err error) {
			var re *domain.RemoteError
			if !errors.As(err, &re) || re.Message != "locked" {
				t.Fatalf("unexpected %v", err)
			}
		}},
		{"status text fallback", http.StatusBadGateway, nil, func(t *testing.T, err error) {
			var re *domain.RemoteError
			if !errors.As(err, &re) || re.Message != "Bad Gateway" {
				t.Fatalf("unexpected %v", err)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})
			_, err := store.Materiel().Create(context.Background(), domain.Materiel{Name: "Toner", Reference: "TN-1"})
			tc.check(t, err)
		})
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	store, bound, mem := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
	})
	ctx := context.Background()

	if _, err := store.Printers().List(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if bound.Token() != "" {
		t.Fatalf("session token not cleared")
	}
	stored, _ := mem.Get(ctx, "s1")
	if stored.Token != "" {
		t.Fatalf("stored token not cleared")
	}
}

func TestNetworkError(t *testing.T) {
	cl, err := NewClient(Options{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	store := NewFactory(cl).For(session.Bind(&domain.Session{Token: "tok"}, nil))
	if _, err := store.Companies().List(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestBrandsListPage(t *testing.T) {
	var query string
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{
			"data":         []map[string]any{{"id": 1, "name": "HP"}},
			"total":        11,
			"last_page":    3,
			"current_page": 2,
		})
	})

	page, err := store.Brands().ListPage(context.Background(), domain.PageQuery{
		Page: 2, PerPage: 5, SearchTerm: " hp ", Filters: map[string]string{"country": "all"},
	})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if query != "page=2&per_page=5&search_term=hp" {
		t.Fatalf("unexpected query %q", query)
	}
	if page.Total != 11 || page.LastPage != 3 || page.CurrentPage != 2 || len(page.Data) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestPrinterMove(t *testing.T) {
	var (
		method, path string
		in           ports.MovePrinterInput
	)
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusOK, map[string]any{"id": 9, "printer_id": 7, "new_department_id": in.DepartmentID})
	})

	mv, err := store.Printers().Move(context.Background(), 7, ports.MovePrinterInput{DepartmentID: 4, Notes: "moved"})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if method != http.MethodPut || path != "/api/printers/7/move" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
	if in.DepartmentID != 4 || in.Notes != "moved" {
		t.Fatalf("unexpected body %+v", in)
	}
	if mv.ID != 9 || mv.NewDepartmentID != 4 {
		t.Fatalf("unexpected movement %+v", mv)
	}
}

func TestUpdateWithoutBody(t *testing.T) {
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	out, err := store.Brands().Update(context.Background(), 3, domain.Brand{ID: 3, Name: "Epson"})
	if err != nil || out.Name != "Epson" {
		t.Fatalf("Update: %+v %v", out, err)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/login" || r.Header.Get("Authorization") != "" {
			http.NotFound(w, r)
			return
		}
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "abc",
			"user":         map[string]any{"id": 1, "name": "Awa", "email": body["email"], "role": "admin"},
		})
	}))
	defer srv.Close()

	cl, _ := NewClient(Options{BaseURL: srv.URL}, zerolog.Nop())
	f := NewFactory(cl)
	ctx := context.Background()

	res, err := f.Login(ctx, "awa@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "abc" || res.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := f.Login(ctx, "awa@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAnalyticsSearch(t *testing.T) {
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics/printers/search" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("request_number") != "REQ-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No printer"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"printer": map[string]any{"id": 7, "name": "LaserJet"}})
	})
	a := store.Analytics()
	ctx := context.Background()

	res, err := a.SearchByRequestNumber(ctx, "REQ-1")
	if err != nil || res.Printer.ID != 7 {
		t.Fatalf("search: %+v %v", res, err)
	}
	if _, err := a.SearchByRequestNumber(ctx, "REQ-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := a.PrinterInterventions(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown path, got %v", err)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	if _, err := NewClient(Options{BaseURL: "not a url"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	cl, err := NewClient(Options{BaseURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := cl.Ping(context.Background()); err != nil {
		t.Fatalf("any answer should count as reachable, got %v", err)
	}
	srv.Close()
	if err := cl.Ping(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestRequestsAreCountedByOutcome(t *testing.T) {
	store, _, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/companies/9" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No company"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Acme"}})
	})
	ctx := context.Background()
	ok := requestsTotal.WithLabelValues("companies", http.MethodGet, "ok")
	missing := requestsTotal.WithLabelValues("companies", http.MethodGet, "not_found")
	okBefore, missingBefore := counterValue(t, ok), counterValue(t, missing)

	if _, err := store.Companies().List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := store.Companies().Get(ctx, 9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := counterValue(t, ok) - okBefore; got != 1 {
		t.Fatalf("expected one ok request, got %v", got)
	}
	if got := counterValue(t, missing) - missingBefore; got != 1 {
		t.Fatalf("expected one not_found request, got %v", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
