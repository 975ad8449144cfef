package api

import (
	"github.com/printmanage/console/internal/api/handler"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
)

var companies = handler.Resource[domain.Company]{
	Name:       "company",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.Company] { return s.Companies() },
	Config:     service.CompanyConfig,
	SetID:      func(c *domain.Company, id int64) { c.ID = id },
	Label:      func(c domain.Company) string { return c.Name },
}

var departments = handler.Resource[domain.Department]{
	Name:       "department",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.Department] { return s.Departments() },
	Config:     service.DepartmentConfig,
	SetID:      func(d *domain.Department, id int64) { d.ID = id },
	Label:      func(d domain.Department) string { return d.Name },
}

var printerModels = handler.Resource[domain.PrinterModel]{
	Name:       "printer model",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.PrinterModel] { return s.PrinterModels() },
	Config:     service.PrinterModelConfig,
	SetID:      func(m *domain.PrinterModel, id int64) { m.ID = id },
	Label:      func(m domain.PrinterModel) string { return m.Name },
}

var printers = handler.Resource[domain.Printer]{
	Name:       "printer",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.Printer] { return s.Printers() },
	Config:     service.PrinterConfig,
	SetID:      func(p *domain.Printer, id int64) { p.ID = id },
	Label:      func(p domain.Printer) string { return p.Name },
}

var materiel = handler.Resource[domain.Materiel]{
	Name:       "materiel",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.Materiel] { return s.Materiel() },
	Config:     service.MaterielConfig,
	SetID:      func(m *domain.Materiel, id int64) { m.ID = id },
	Label:      func(m domain.Materiel) string { return m.Name },
}

var users = handler.Resource[domain.User]{
	Name:       "user",
	Collection: func(s ports.RemoteStore) ports.Collection[domain.User] { return s.Users() },
	Config:     service.UserConfig,
	SetID:      func(u *domain.User, id int64) { u.ID = id },
	Label:      func(u domain.User) string { return u.Name },
	Prepare:    prepareUser,
}

// prepareUser requires a password on creation and drops the company and
// department of non-client accounts.
func prepareUser(u *domain.User, creating bool) error {
	if creating && u.Password == "" {
		return domain.NewValidationError("password", "password is required")
	}
	if u.Role != domain.RoleClient {
		u.CompanyID = nil
		u.DepartmentID = nil
	}
	return nil
}
