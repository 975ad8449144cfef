package console

import (
	"context"
	"strings"
	"sync"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

type memCollection[T domain.Entity] struct {
	mu      sync.Mutex
	items   []T
	setID   func(*T, int64)
	deleted []int64
}

func (m *memCollection[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.setID(&item, int64(100+len(m.items)))
	m.items = append(m.items, item)
	return item, nil
}

func (m *memCollection[T]) Update(_ context.Context, id int64, item T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	kept := m.items[:0]
	for _, item := range m.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
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
	var out []domain.Brand
	for _, b := range m.items {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(q.SearchTerm)) {
			out = append(out, b)
		}
	}
	return domain.PageResult[domain.Brand]{Data: out, Total: len(out), LastPage: 1, CurrentPage: q.Page}, nil
}

type memPrinters struct {
	memCollection[domain.Printer]
	moves []ports.MovePrinterInput
}

func (m *memPrinters) Move(_ context.Context, id int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, in)
	return domain.PrinterMovement{ID: 1, PrinterID: id, NewDepartmentID: in.DepartmentID}, nil
}

type memMovements struct{}

func (memMovements) List(context.Context) ([]domain.PrinterMovement, error) { return nil, nil }

// memAnalytics implements the dashboard calls; the embedded interface
// panics on anything else.
type memAnalytics struct {
	ports.Analytics
}

func (memAnalytics) Overview(context.Context) (domain.Overview, error) {
	return domain.Overview{Companies: 3, Printers: 2, ActivePrinters: 1}, nil
}

func (memAnalytics) Companies(context.Context) ([]domain.CompanyStats, error) {
	return nil, domain.ErrUnsupported
}

func (memAnalytics) FrequentErrors(context.Context) ([]domain.FrequentError, error) {
	return []domain.FrequentError{{Code: "E-42", Description: "Paper jam", Count: 7}}, nil
}

func (memAnalytics) PrintersAttention(context.Context) ([]domain.PrinterAttention, error) {
	return nil, nil
}

func (memAnalytics) SearchByRequestNumber(_ context.Context, number string) (domain.RequestSearchResult, error) {
	if number != "R-1" {
		return domain.RequestSearchResult{}, domain.ErrNotFound
	}
	return domain.RequestSearchResult{Printer: domain.Printer{ID: 1, Name: "Front desk", SerialNumber: "SN1"}}, nil
}

type memStore struct {
	role        string
	companies   memCollection[domain.Company]
	departments memCollection[domain.Department]
	brands      memBrands
	models      memCollection[domain.PrinterModel]
	printers    memPrinters
	materiel    memCollection[domain.Materiel]
	users       memCollection[domain.User]
}

func ptr(v int64) *int64 { return &v }

func newMemStore(role string) *memStore {
	s := &memStore{role: role}
	s.companies = memCollection[domain.Company]{
		items: []domain.Company{
			{ID: 1, Name: "Acme", Status: "active"},
			{ID: 2, Name: "Globex", Status: "inactive"},
			{ID: 3, Name: "Initech", Status: "active"},
		},
		setID: func(c *domain.Company, id int64) { c.ID = id },
	}
	s.departments = memCollection[domain.Department]{
		items: []domain.Department{
			{ID: 10, Name: "Sales", CompanyID: 1},
			{ID: 20, Name: "Support", CompanyID: 2},
		},
		setID: func(d *domain.Department, id int64) { d.ID = id },
	}
	s.brands.setID = func(b *domain.Brand, id int64) { b.ID = id }
	s.brands.items = []domain.Brand{{ID: 1, Name: "Canon"}, {ID: 2, Name: "Epson"}}
	s.printers.setID = func(p *domain.Printer, id int64) { p.ID = id }
	s.printers.items = []domain.Printer{
		{ID: 1, Name: "Front desk", CompanyID: ptr(1), DepartmentID: ptr(10)},
		{ID: 2, Name: "Back office", CompanyID: ptr(2), DepartmentID: ptr(20)},
	}
	s.models.setID = func(m *domain.PrinterModel, id int64) { m.ID = id }
	s.materiel.setID = func(m *domain.Materiel, id int64) { m.ID = id }
	s.users.setID = func(u *domain.User, id int64) { u.ID = id }
	return s
}

func (s *memStore) Login(_ context.Context, email, password string) (ports.LoginResult, error) {
	if password != "secret" {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}
	return ports.LoginResult{Token: "tok", User: domain.User{ID: 1, Name: "Alice", Email: email, Role: s.role}}, nil
}

func (s *memStore) For(ports.Session) ports.RemoteStore { return s }

func (s *memStore) Companies() ports.Collection[domain.Company] { return &s.companies }
func (s *memStore) Departments() ports.Collection[domain.Department] { return &s.departments }
func (s *memStore) Brands() ports.PagedCollection[domain.Brand] { return &s.brands }
func (s *memStore) PrinterModels() ports.Collection[domain.PrinterModel] { return &s.models }
func (s *memStore) Printers() ports.PrinterStore { return &s.printers }
func (s *memStore) Materiel() ports.Collection[domain.Materiel] { return &s.materiel }
func (s *memStore) Users() ports.Collection[domain.User] { return &s.users }
func (s *memStore) PrinterMovements() ports.MovementLog { return memMovements{} }
func (s *memStore) Analytics() ports.Analytics { return memAnalytics{} }
