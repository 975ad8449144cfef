package service

import (
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
)

// Filter keys shared by the pages, the HTTP query string and the console.
const (
	FilterStatus     = "status"
	FilterCompany    = "company"
	FilterDepartment = "department"
	FilterPrinter    = "printer"
	FilterBrand      = "brand"
	FilterType       = "type"
	FilterRole       = "role"
)

func CompanyConfig() listview.Config[domain.Company] {
	return listview.Config[domain.Company]{
		SearchFields: []listview.Field[domain.Company]{
			func(c domain.Company) (string, bool) { return listview.Text(c.Name) },
			func(c domain.Company) (string, bool) { return listview.Text(c.Email) },
			func(c domain.Company) (string, bool) { return listview.Text(c.Country) },
			func(c domain.Company) (string, bool) { return listview.Text(c.ContactPerson) },
		},
		Filters: []listview.Filter[domain.Company]{
			{Key: FilterStatus, Value: func(c domain.Company) (string, bool) { return listview.Text(c.Status) }},
		},
	}
}

func DepartmentConfig() listview.Config[domain.Department] {
	return listview.Config[domain.Department]{
		SearchFields: []listview.Field[domain.Department]{
			func(d domain.Department) (string, bool) { return listview.Text(d.Name) },
		},
		Filters: []listview.Filter[domain.Department]{
			{Key: FilterCompany, Value: departmentCompany},
		},
	}
}

func PrinterModelConfig() listview.Config[domain.PrinterModel] {
	return listview.Config[domain.PrinterModel]{
		SearchFields: []listview.Field[domain.PrinterModel]{
			func(m domain.PrinterModel) (string, bool) { return listview.Text(m.Name) },
			func(m domain.PrinterModel) (string, bool) { return listview.Text(m.Type) },
		},
		Filters: []listview.Filter[domain.PrinterModel]{
			{Key: FilterBrand, Value: func(m domain.PrinterModel) (string, bool) { return listview.ID(m.BrandID), m.BrandID > 0 }},
		},
	}
}

func PrinterConfig() listview.Config[domain.Printer] {
	return listview.Config[domain.Printer]{
		SearchFields: []listview.Field[domain.Printer]{
			func(p domain.Printer) (string, bool) { return listview.Text(p.Name) },
			func(p domain.Printer) (string, bool) { return listview.Text(p.SerialNumber) },
		},
		Filters: []listview.Filter[domain.Printer]{
			{Key: FilterCompany, Value: func(p domain.Printer) (string, bool) { return listview.Ref(p.CompanyID) }},
			{Key: FilterDepartment, Parent: FilterCompany, Value: printerDepartment},
			{Key: FilterStatus, Value: func(p domain.Printer) (string, bool) { return listview.Text(p.Status) }},
		},
	}
}

func MaterielConfig() listview.Config[domain.Materiel] {
	return listview.Config[domain.Materiel]{
		SearchFields: []listview.Field[domain.Materiel]{
			func(m domain.Materiel) (string, bool) { return listview.Text(m.Name) },
			func(m domain.Materiel) (string, bool) { return listview.Text(m.Reference) },
			func(m domain.Materiel) (string, bool) { return listview.Text(m.Type) },
		},
		Filters: []listview.Filter[domain.Materiel]{
			{Key: FilterType, Value: func(m domain.Materiel) (string, bool) { return listview.Text(m.Type) }},
		},
	}
}

func UserConfig() listview.Config[domain.User] {
	return listview.Config[domain.User]{
		SearchFields: []listview.Field[domain.User]{
			func(u domain.User) (string, bool) { return listview.Text(u.Name) },
			func(u domain.User) (string, bool) { return listview.Text(u.Email) },
		},
		Filters: []listview.Filter[domain.User]{
			{Key: FilterRole, Value: func(u domain.User) (string, bool) { return listview.Text(u.Role) }},
			{Key: FilterStatus, Value: func(u domain.User) (string, bool) { return listview.Text(u.Status) }},
			{Key: FilterCompany, Value: func(u domain.User) (string, bool) { return listview.Ref(u.CompanyID) }},
			{Key: FilterDepartment, Parent: FilterCompany, Value: func(u domain.User) (string, bool) { return listview.Ref(u.DepartmentID) }},
		},
	}
}

// MovementConfig resolves the company and printer name of each movement
// through dir, since the log only stores ids.
func MovementConfig(dir Directory) listview.Config[domain.PrinterMovement] {
	return listview.Config[domain.PrinterMovement]{
		SearchFields: []listview.Field[domain.PrinterMovement]{
			func(m domain.PrinterMovement) (string, bool) { return listview.Text(m.Notes) },
			func(m domain.PrinterMovement) (string, bool) { return listview.Text(dir.PrinterName(m.PrinterID)) },
		},
		Filters: []listview.Filter[domain.PrinterMovement]{
			{Key: FilterCompany, Value: func(m domain.PrinterMovement) (string, bool) {
				id, ok := dir.DepartmentCompany(m.NewDepartmentID)
				if !ok {
					return "", false
				}
				return listview.ID(id), true
			}},
			{Key: FilterDepartment, Parent: FilterCompany, Value: func(m domain.PrinterMovement) (string, bool) {
				return listview.ID(m.NewDepartmentID), m.NewDepartmentID > 0
			}},
			{Key: FilterPrinter, Parent: FilterDepartment, Value: func(m domain.PrinterMovement) (string, bool) {
				return listview.ID(m.PrinterID), m.PrinterID > 0
			}},
		},
	}
}

func departmentCompany(d domain.Department) (string, bool) {
	return listview.ID(d.CompanyID), d.CompanyID > 0
}

func printerDepartment(p domain.Printer) (string, bool) {
	return listview.Ref(p.DepartmentID)
}
