package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
)

// Fleet loads the reference data behind the cascading company ->
// department -> printer selectors.
type Fleet struct {
	store ports.RemoteStore
	log   zerolog.Logger
}

func NewFleet(store ports.RemoteStore, log zerolog.Logger) *Fleet {
	return &Fleet{store: store, log: log}
}

// FleetData is a snapshot of companies, departments and printers. Errors
// holds one message per resource that failed to load; the others are
// still usable.
type FleetData struct {
	Companies   []domain.Company
	Departments []domain.Department
	Printers    []domain.Printer
	Errors      map[string]string
}

// Load fetches the three collections concurrently.
func (f *Fleet) Load(ctx context.Context) FleetData {
	var (
		data FleetData
		mu   sync.Mutex
		g    errgroup.Group
	)
	data.Errors = map[string]string{}
	fail := func(resource string, err error) {
		mu.Lock()
		defer mu.Unlock()
		data.Errors[resource] = Describe(err)
		f.log.Warn().Err(err).Str("resource", resource).Msg("fleet load failed")
	}

	g.Go(func() error {
		items, err := f.store.Companies().List(ctx)
		if err != nil {
			fail("companies", err)
			return nil
		}
		data.Companies = items
		return nil
	})
	g.Go(func() error {
		items, err := f.store.Departments().List(ctx)
		if err != nil {
			fail("departments", err)
			return nil
		}
		data.Departments = items
		return nil
	})
	g.Go(func() error {
		items, err := f.store.Printers().List(ctx)
		if err != nil {
			fail("printers", err)
			return nil
		}
		data.Printers = items
		return nil
	})
	_ = g.Wait()
	return data
}

// DepartmentOptions lists the departments selectable under a company
// filter value.
func (d FleetData) DepartmentOptions(companyID string) []domain.Department {
	return listview.ChildOptions(d.Departments, companyID, departmentCompany)
}

// PrinterOptions lists the printers selectable under a department filter
// value.
func (d FleetData) PrinterOptions(departmentID string) []domain.Printer {
	return listview.ChildOptions(d.Printers, departmentID, printerDepartment)
}

// Directory indexes the snapshot by id.
func (d FleetData) Directory() Directory {
	dir := Directory{
		printers:    make(map[int64]domain.Printer, len(d.Printers)),
		departments: make(map[int64]domain.Department, len(d.Departments)),
		companies:   make(map[int64]domain.Company, len(d.Companies)),
	}
	for _, p := range d.Printers {
		dir.printers[p.ID] = p
	}
	for _, dep := range d.Departments {
		dir.departments[dep.ID] = dep
	}
	for _, c := range d.Companies {
		dir.companies[c.ID] = c
	}
	return dir
}

// Directory resolves ids to names. The zero value resolves nothing.
type Directory struct {
	printers    map[int64]domain.Printer
	departments map[int64]domain.Department
	companies   map[int64]domain.Company
}

func (d Directory) PrinterName(id int64) string { return d.printers[id].Name }

func (d Directory) DepartmentName(id int64) string { return d.departments[id].Name }

func (d Directory) CompanyName(id int64) string { return d.companies[id].Name }

// DepartmentCompany returns the company owning a department.
func (d Directory) DepartmentCompany(id int64) (int64, bool) {
	dep, ok := d.departments[id]
	if !ok || dep.CompanyID == 0 {
		return 0, false
	}
	return dep.CompanyID, true
}
