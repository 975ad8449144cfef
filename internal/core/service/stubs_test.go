package service

import (
	"context"
	"sync"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubCollection[T domain.Entity] struct {
	mu      sync.Mutex
	items   []T
	listErr error
	saveErr error
	nextID  int64
	setID   func(*T, int64)
	deleted []int64
	lists   int
}

func (s *stubCollection[T]) List(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]T(nil), s.items...), nil
}

func (s *stubCollection[T]) Get(_ context.Context, id int64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (s *stubCollection[T]) Create(_ context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		var zero T
		return zero, s.saveErr
	}
	s.nextID++
	if s.setID != nil {
		s.setID(&item, 100+s.nextID)
	}
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubCollection[T]) Update(_ context.Context, id int64, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		var zero T
		return zero, s.saveErr
	}
	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items[i] = item
			return item, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (s *stubCollection[T]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type stubBrands struct {
	stubCollection[domain.Brand]
	queries []domain.PageQuery
}

func (s *stubBrands) ListPage(_ context.Context, q domain.PageQuery) (domain.PageResult[domain.Brand], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.listErr != nil {
		return domain.PageResult[domain.Brand]{}, s.listErr
	}
	return domain.PageResult[domain.Brand]{Data: s.items, Total: len(s.items), LastPage: 1, CurrentPage: q.Page}, nil
}

type stubPrinters struct {
	stubCollection[domain.Printer]
	moves   []ports.MovePrinterInput
	moveErr error
}

func (s *stubPrinters) Move(_ context.Context, id int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.moveErr != nil {
		return domain.PrinterMovement{}, s.moveErr
	}
	s.moves = append(s.moves, in)
	return domain.PrinterMovement{ID: int64(len(s.moves)), PrinterID: id, NewDepartmentID: in.DepartmentID, Notes: in.Notes}, nil
}

type stubAnalytics struct {
	overviewErr error
	trendsErr   error
	searchErr   error
	result      domain.RequestSearchResult
	scopes      []string
}

func (a *stubAnalytics) Overview(context.Context) (domain.Overview, error) {
	if a.overviewErr != nil {
		return domain.Overview{}, a.overviewErr
	}
	return domain.Overview{Companies: 2, Printers: 5}, nil
}

func (a *stubAnalytics) Companies(context.Context) ([]domain.CompanyStats, error) {
	return []domain.CompanyStats{{ID: 1, Name: "Acme"}}, nil
}

func (a *stubAnalytics) FrequentErrors(context.Context) ([]domain.FrequentError, error) {
	return []domain.FrequentError{{Code: "E01", Count: 3}}, nil
}

func (a *stubAnalytics) PrintersAttention(context.Context) ([]domain.PrinterAttention, error) {
	return nil, nil
}

func (a *stubAnalytics) InterventionsByTypeOverTime(context.Context) ([]domain.InterventionPoint, error) {
	return []domain.InterventionPoint{{Period: "2026-01", Type: "repair", Count: 1}}, nil
}

func (a *stubAnalytics) DepartmentsWithInterventions(context.Context) ([]domain.DepartmentInterventions, error) {
	if a.trendsErr != nil {
		return nil, a.trendsErr
	}
	return []domain.DepartmentInterventions{{DepartmentID: 3, Name: "IT", Interventions: 4}}, nil
}

func (a *stubAnalytics) AllInterventions(context.Context) ([]domain.Intervention, error) {
	a.scopes = append(a.scopes, ScopeAll)
	return nil, nil
}

func (a *stubAnalytics) PrinterInterventions(context.Context, int64) ([]domain.Intervention, error) {
	a.scopes = append(a.scopes, ScopePrinter)
	return nil, nil
}

func (a *stubAnalytics) CompanyInterventions(context.Context, int64) ([]domain.Intervention, error) {
	a.scopes = append(a.scopes, ScopeCompany)
	return nil, nil
}

func (a *stubAnalytics) DepartmentInterventions(context.Context, int64) ([]domain.Intervention, error) {
	a.scopes = append(a.scopes, ScopeDepartment)
	return nil, nil
}

func (a *stubAnalytics) SearchByRequestNumber(context.Context, string) (domain.RequestSearchResult, error) {
	if a.searchErr != nil {
		return domain.RequestSearchResult{}, a.searchErr
	}
	return a.result, nil
}

type stubStore struct {
	companies   stubCollection[domain.Company]
	departments stubCollection[domain.Department]
	brands      stubBrands
	models      stubCollection[domain.PrinterModel]
	printers    stubPrinters
	materiel    stubCollection[domain.Materiel]
	users       stubCollection[domain.User]
	movements   stubCollection[domain.PrinterMovement]
	analytics   stubAnalytics
}

func (s *stubStore) Companies() ports.Collection[domain.Company] { return &s.companies }
func (s *stubStore) Departments() ports.Collection[domain.Department] { return &s.departments }
func (s *stubStore) Brands() ports.PagedCollection[domain.Brand] { return &s.brands }
func (s *stubStore) PrinterModels() ports.Collection[domain.PrinterModel] { return &s.models }
func (s *stubStore) Printers() ports.PrinterStore { return &s.printers }
func (s *stubStore) Materiel() ports.Collection[domain.Materiel] { return &s.materiel }
func (s *stubStore) Users() ports.Collection[domain.User] { return &s.users }
func (s *stubStore) PrinterMovements() ports.MovementLog { return &s.movements }
func (s *stubStore) Analytics() ports.Analytics { return &s.analytics }
