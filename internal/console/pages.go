package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/form"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
)

// pageEntry describes a page that can be opened and who may open it.
type pageEntry struct {
	name  string
	roles []string
	build func(ctx context.Context, a *App, store ports.RemoteStore) view
}

var (
	adminOnly = []string{domain.RoleAdmin}
	fieldTeam = []string{domain.RoleAdmin, domain.RoleTechnician}
)

var pages = []pageEntry{
	{"companies", adminOnly, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.Company]{
			page: service.NewPage("company", s.Companies(), withPerPage(service.CompanyConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.Company]{
				{"Name", func(c domain.Company) string { return c.Name }},
				{"Country", func(c domain.Company) string { return c.Country }},
				{"Contact", func(c domain.Company) string { return c.ContactPerson }},
				{"Status", func(c domain.Company) string { return c.Status }},
			},
			label:  func(c domain.Company) string { return c.Name },
			schema: static(form.CompanySchema),
		}
	}},
	{"departments", adminOnly, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.Department]{
			page: service.NewPage("department", s.Departments(), withPerPage(service.DepartmentConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.Department]{
				{"Name", func(d domain.Department) string { return d.Name }},
				{"Company", func(d domain.Department) string { return listview.ID(d.CompanyID) }},
				{"Quota", func(d domain.Department) string { return strconv.Itoa(d.QuotaMonthly) }},
			},
			label:  func(d domain.Department) string { return d.Name },
			schema: static(form.DepartmentSchema),
		}
	}},
	{"brands", adminOnly, func(ctx context.Context, a *App, s ports.RemoteStore) view {
		cfg := listview.PagedConfig{DefaultPerPage: a.cfg.PerPage, Debounce: a.cfg.Debounce}
		return &brandView{page: service.NewBrandPage(ctx, s.Brands(), cfg, a.log)}
	}},
	{"printer-models", adminOnly, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.PrinterModel]{
			page: service.NewPage("printer model", s.PrinterModels(), withPerPage(service.PrinterModelConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.PrinterModel]{
				{"Name", func(m domain.PrinterModel) string { return m.Name }},
				{"Brand", func(m domain.PrinterModel) string { return listview.ID(m.BrandID) }},
				{"Type", func(m domain.PrinterModel) string { return m.Type }},
			},
			label:  func(m domain.PrinterModel) string { return m.Name },
			schema: static(form.PrinterModelSchema),
		}
	}},
	{"printers", fieldTeam, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.Printer]{
			page: service.NewPage("printer", s.Printers(), withPerPage(service.PrinterConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.Printer]{
				{"Name", func(p domain.Printer) string { return p.Name }},
				{"Serial", func(p domain.Printer) string { return p.SerialNumber }},
				{"Company", func(p domain.Printer) string { return ref(p.CompanyID) }},
				{"Department", func(p domain.Printer) string { return ref(p.DepartmentID) }},
				{"Status", func(p domain.Printer) string { return p.Status }},
			},
			label:  func(p domain.Printer) string { return p.Name },
			schema: static(form.PrinterSchema),
		}
	}},
	{"materiel", adminOnly, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.Materiel]{
			page: service.NewPage("materiel", s.Materiel(), withPerPage(service.MaterielConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.Materiel]{
				{"Name", func(m domain.Materiel) string { return m.Name }},
				{"Reference", func(m domain.Materiel) string { return m.Reference }},
				{"Type", func(m domain.Materiel) string { return m.Type }},
				{"Available", func(m domain.Materiel) string { return strconv.Itoa(m.Available()) }},
			},
			label:  func(m domain.Materiel) string { return m.Name },
			schema: static(form.MaterielSchema),
			opts:   []form.Option[domain.Materiel]{form.SkipUnchanged[domain.Materiel]()},
		}
	}},
	{"users", adminOnly, func(_ context.Context, a *App, s ports.RemoteStore) view {
		return &listView[domain.User]{
			page: service.NewPage("user", s.Users(), withPerPage(service.UserConfig(), a.cfg.PerPage), a.log),
			columns: []column[domain.User]{
				{"Name", func(u domain.User) string { return u.Name }},
				{"Email", func(u domain.User) string { return u.Email }},
				{"Role", func(u domain.User) string { return u.Role }},
				{"Status", func(u domain.User) string { return u.Status }},
			},
			label:  func(u domain.User) string { return u.Name },
			schema: form.UserSchema,
		}
	}},
	{"movements", fieldTeam, func(ctx context.Context, a *App, s ports.RemoteStore) view {
		dir := service.NewFleet(s, a.log).Load(ctx).Directory()
		return &listView[domain.PrinterMovement]{
			page: service.NewReadOnlyPage("printer movement", s.PrinterMovements(), withPerPage(service.MovementConfig(dir), a.cfg.PerPage), a.log),
			columns: []column[domain.PrinterMovement]{
				{"Date", func(m domain.PrinterMovement) string { return m.Date.Format("2006-01-02 15:04") }},
				{"Printer", func(m domain.PrinterMovement) string { return dir.PrinterName(m.PrinterID) }},
				{"From", func(m domain.PrinterMovement) string { return departmentName(dir, m.OldDepartmentID) }},
				{"To", func(m domain.PrinterMovement) string { return dir.DepartmentName(m.NewDepartmentID) }},
				{"Notes", func(m domain.PrinterMovement) string { return m.Notes }},
			},
			label: func(m domain.PrinterMovement) string { return dir.PrinterName(m.PrinterID) },
		}
	}},
}

func findPage(name string) (pageEntry, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range pages {
		if p.name == name {
			return p, true
		}
	}
	return pageEntry{}, false
}

func pageNames() []string {
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.name
	}
	return names
}

func withPerPage[T any](cfg listview.Config[T], n int) listview.Config[T] {
	if n > 0 {
		cfg.DefaultPerPage = n
	}
	return cfg
}

func static[T any](s form.Schema[T]) func(bool) form.Schema[T] {
	return func(bool) form.Schema[T] { return s }
}

func ref(id *int64) string {
	v, _ := listview.Ref(id)
	return v
}

func departmentName(dir service.Directory, id *int64) string {
	if id == nil {
		return ""
	}
	return dir.DepartmentName(*id)
}
