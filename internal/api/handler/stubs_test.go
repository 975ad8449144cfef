package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/printmanage/console/internal/api/middleware"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/session"
)

type memCollection[T domain.Entity] struct {
	mu      sync.Mutex
	items   []T
	err     error
	setID   func(*T, int64)
	created []T
	updated []T
	deleted []int64
}

func (m *memCollection[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]T(nil), m.items...), nil
}

func (m *memCollection[T]) Get(_ context.Context, id int64) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (m *memCollection[T]) Create(_ context.Context, item T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		var zero T
		return zero, m.err
	}
	m.created = append(m.created, item)
	if m.setID != nil {
		m.setID(&item, int64(100+len(m.created)))
	}
	m.items = append(m.items, item)
	return item, nil
}

func (m *memCollection[T]) Update(_ context.Context, id int64, item T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, item)
	for i := range m.items {
		if m.items[i].EntityID() == id {
			m.items[i] = item
			return item, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (m *memCollection[T]) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type memBrands struct {
	memCollection[domain.Brand]
	queries []domain.PageQuery
}

func (m *memBrands) ListPage(_ context.Context, q domain.PageQuery) (domain.PageResult[domain.Brand], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	return domain.PageResult[domain.Brand]{Data: m.items, Total: len(m.items), LastPage: 1, CurrentPage: q.Page}, nil
}

type memPrinters struct {
	memCollection[domain.Printer]
	moves []ports.MovePrinterInput
}

func (m *memPrinters) Move(_ context.Context, id int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, in)
	return domain.PrinterMovement{ID: 1, PrinterID: id, NewDepartmentID: in.DepartmentID, Notes: in.Notes}, nil
}

type memAnalytics struct {
	searchErr error
	result    domain.RequestSearchResult
}

func (a *memAnalytics) Overview(context.Context) (domain.Overview, error) {
	return domain.Overview{Companies: 1}, nil
}

func (a *memAnalytics) Companies(context.Context) ([]domain.CompanyStats, error) {
	return nil, domain.ErrUnsupported
}

func (a *memAnalytics) FrequentErrors(context.Context) ([]domain.FrequentError, error) {
	return nil, nil
}

func (a *memAnalytics) PrintersAttention(context.Context) ([]domain.PrinterAttention, error) {
	return nil, nil
}

func (a *memAnalytics) InterventionsByTypeOverTime(context.Context) ([]domain.InterventionPoint, error) {
	return nil, nil
}

func (a *memAnalytics) DepartmentsWithInterventions(context.Context) ([]domain.DepartmentInterventions, error) {
	return nil, nil
}

func (a *memAnalytics) AllInterventions(context.Context) ([]domain.Intervention, error) {
	return []domain.Intervention{{ID: 1}, {ID: 2}}, nil
}

func (a *memAnalytics) PrinterInterventions(_ context.Context, id int64) ([]domain.Intervention, error) {
	return []domain.Intervention{{ID: 3, PrinterID: id}}, nil
}

func (a *memAnalytics) CompanyInterventions(context.Context, int64) ([]domain.Intervention, error) {
	return nil, nil
}

func (a *memAnalytics) DepartmentInterventions(context.Context, int64) ([]domain.Intervention, error) {
	return nil, nil
}

func (a *memAnalytics) SearchByRequestNumber(context.Context, string) (domain.RequestSearchResult, error) {
	if a.searchErr != nil {
		return domain.RequestSearchResult{}, a.searchErr
	}
	return a.result, nil
}

type memMovements struct {
	items []domain.PrinterMovement
}

func (m *memMovements) List(context.Context) ([]domain.PrinterMovement, error) {
	return m.items, nil
}

type memStore struct {
	companies   memCollection[domain.Company]
	departments memCollection[domain.Department]
	brands      memBrands
	models      memCollection[domain.PrinterModel]
	printers    memPrinters
	materiel    memCollection[domain.Materiel]
	users       memCollection[domain.User]
	movements   memMovements
	analytics   memAnalytics
}

func (s *memStore) For(ports.Session) ports.RemoteStore { return s }

func (s *memStore) Companies() ports.Collection[domain.Company] { return &s.companies }
func (s *memStore) Departments() ports.Collection[domain.Department] { return &s.departments }
func (s *memStore) Brands() ports.PagedCollection[domain.Brand] { return &s.brands }
func (s *memStore) PrinterModels() ports.Collection[domain.PrinterModel] { return &s.models }
func (s *memStore) Printers() ports.PrinterStore { return &s.printers }
func (s *memStore) Materiel() ports.Collection[domain.Materiel] { return &s.materiel }
func (s *memStore) Users() ports.Collection[domain.User] { return &s.users }
func (s *memStore) PrinterMovements() ports.MovementLog { return &s.movements }
func (s *memStore) Analytics() ports.Analytics { return &s.analytics }

// newContext builds a request context signed in as sid with role.
func newContext(method, target string, body io.Reader, sid, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sid != "" {
		sess := session.Bind(&domain.Session{ID: sid, Token: "tok", Role: role, Roles: []string{role}}, nil)
		c.Set(middleware.SessionKey, sess)
		c.Set(middleware.SessionIDKey, sid)
		c.Set(middleware.RoleKey, role)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}
