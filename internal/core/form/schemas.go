package form

import (
	"strconv"

	"github.com/printmanage/console/internal/core/domain"
)

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func refString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func parseRef(raw string) *int64 {
	if id := parseID(raw); id > 0 {
		return &id
	}
	return nil
}

// CompanySchema lists the company inputs.
var CompanySchema = Schema[domain.Company]{Fields: []FieldSpec[domain.Company]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(c domain.Company) string { return c.Name },
		Set: func(c *domain.Company, v string) { c.Name = v }},
	{Name: "address", Label: "Address",
		Get: func(c domain.Company) string { return c.Address },
		Set: func(c *domain.Company, v string) { c.Address = v }},
	{Name: "country", Label: "Country",
		Get: func(c domain.Company) string { return c.Country },
		Set: func(c *domain.Company, v string) { c.Country = v }},
	{Name: "phone", Label: "Phone",
		Get: func(c domain.Company) string { return c.Phone },
		Set: func(c *domain.Company, v string) { c.Phone = v }},
	{Name: "email", Label: "Email",
		Get: func(c domain.Company) string { return c.Email },
		Set: func(c *domain.Company, v string) { c.Email = v }},
	{Name: "contact_person", Label: "Contact person",
		Get: func(c domain.Company) string { return c.ContactPerson },
		Set: func(c *domain.Company, v string) { c.ContactPerson = v }},
	{Name: "status", Label: "Status",
		Get: func(c domain.Company) string { return c.Status },
		Set: func(c *domain.Company, v string) { c.Status = v }},
	{Name: "quota_monthly_bw", Label: "Monthly B/W quota", Numeric: true,
		Get: func(c domain.Company) string { return strconv.Itoa(c.QuotaMonthlyBW) },
		Set: func(c *domain.Company, v string) { c.QuotaMonthlyBW = ParseQuantity(v) }},
	{Name: "quota_monthly_color", Label: "Monthly colour quota", Numeric: true,
		Get: func(c domain.Company) string { return strconv.Itoa(c.QuotaMonthlyColor) },
		Set: func(c *domain.Company, v string) { c.QuotaMonthlyColor = ParseQuantity(v) }},
}}

// DepartmentSchema lists the department inputs.
var DepartmentSchema = Schema[domain.Department]{Fields: []FieldSpec[domain.Department]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(d domain.Department) string { return d.Name },
		Set: func(d *domain.Department, v string) { d.Name = v }},
	{Name: "company_id", Label: "Company", Required: true,
		Get: func(d domain.Department) string { return idString(d.CompanyID) },
		Set: func(d *domain.Department, v string) { d.CompanyID = parseID(v) }},
	{Name: "quota_monthly", Label: "Monthly quota", Numeric: true,
		Get: func(d domain.Department) string { return strconv.Itoa(d.QuotaMonthly) },
		Set: func(d *domain.Department, v string) { d.QuotaMonthly = ParseQuantity(v) }},
}}

// BrandSchema lists the brand inputs.
var BrandSchema = Schema[domain.Brand]{Fields: []FieldSpec[domain.Brand]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(b domain.Brand) string { return b.Name },
		Set: func(b *domain.Brand, v string) { b.Name = v }},
}}

// PrinterModelSchema lists the printer model inputs.
var PrinterModelSchema = Schema[domain.PrinterModel]{Fields: []FieldSpec[domain.PrinterModel]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(m domain.PrinterModel) string { return m.Name },
		Set: func(m *domain.PrinterModel, v string) { m.Name = v }},
	{Name: "brand_id", Label: "Brand", Required: true,
		Get: func(m domain.PrinterModel) string { return idString(m.BrandID) },
		Set: func(m *domain.PrinterModel, v string) { m.BrandID = parseID(v) }},
	{Name: "type", Label: "Type",
		Get: func(m domain.PrinterModel) string { return m.Type },
		Set: func(m *domain.PrinterModel, v string) { m.Type = v }},
}}

// PrinterSchema lists the printer inputs. Relocation goes through the move
// endpoint, so the department is only set at creation.
var PrinterSchema = Schema[domain.Printer]{Fields: []FieldSpec[domain.Printer]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(p domain.Printer) string { return p.Name },
		Set: func(p *domain.Printer, v string) { p.Name = v }},
	{Name: "serial_number", Label: "Serial number",
		Get: func(p domain.Printer) string { return p.SerialNumber },
		Set: func(p *domain.Printer, v string) { p.SerialNumber = v }},
	{Name: "printer_model_id", Label: "Model",
		Get: func(p domain.Printer) string { return idString(p.PrinterModelID) },
		Set: func(p *domain.Printer, v string) { p.PrinterModelID = parseID(v) }},
	{Name: "company_id", Label: "Company",
		Get: func(p domain.Printer) string { return refString(p.CompanyID) },
		Set: func(p *domain.Printer, v string) { p.CompanyID = parseRef(v) }},
	{Name: "department_id", Label: "Department",
		Get: func(p domain.Printer) string { return refString(p.DepartmentID) },
		Set: func(p *domain.Printer, v string) { p.DepartmentID = parseRef(v) }},
	{Name: "status", Label: "Status",
		Get: func(p domain.Printer) string { return p.Status },
		Set: func(p *domain.Printer, v string) { p.Status = v }},
}}

// MaterielSchema lists the materiel inputs.
var MaterielSchema = Schema[domain.Materiel]{Fields: []FieldSpec[domain.Materiel]{
	{Name: "name", Label: "Name", Required: true,
		Get: func(m domain.Materiel) string { return m.Name },
		Set: func(m *domain.Materiel, v string) { m.Name = v }},
	{Name: "reference", Label: "Reference", Required: true,
		Get: func(m domain.Materiel) string { return m.Reference },
		Set: func(m *domain.Materiel, v string) { m.Reference = v }},
	{Name: "type", Label: "Type",
		Get: func(m domain.Materiel) string { return m.Type },
		Set: func(m *domain.Materiel, v string) { m.Type = v }},
	{Name: "quantite", Label: "Quantity", Numeric: true,
		Get: func(m domain.Materiel) string { return strconv.Itoa(m.Quantite) },
		Set: func(m *domain.Materiel, v string) { m.Quantite = ParseQuantity(v) }},
	{Name: "sortie", Label: "Issued", Numeric: true,
		Get: func(m domain.Materiel) string { return strconv.Itoa(m.Sortie) },
		Set: func(m *domain.Materiel, v string) { m.Sortie = ParseQuantity(v) }},
}}

// UserSchema lists the user inputs; the password is only required when
// creating.
func UserSchema(creating bool) Schema[domain.User] {
	return Schema[domain.User]{Fields: []FieldSpec[domain.User]{
		{Name: "name", Label: "Name", Required: true,
			Get: func(u domain.User) string { return u.Name },
			Set: func(u *domain.User, v string) { u.Name = v }},
		{Name: "email", Label: "Email", Required: true,
			Get: func(u domain.User) string { return u.Email },
			Set: func(u *domain.User, v string) { u.Email = v }},
		{Name: "role", Label: "Role", Required: true,
			Get: func(u domain.User) string { return u.Role },
			Set: func(u *domain.User, v string) { u.Role = v }},
		{Name: "status", Label: "Status",
			Get: func(u domain.User) string { return u.Status },
			Set: func(u *domain.User, v string) { u.Status = v }},
		{Name: "company_id", Label: "Company",
			Get: func(u domain.User) string { return refString(u.CompanyID) },
			Set: func(u *domain.User, v string) { u.CompanyID = parseRef(v) }},
		{Name: "department_id", Label: "Department",
			Get: func(u domain.User) string { return refString(u.DepartmentID) },
			Set: func(u *domain.User, v string) { u.DepartmentID = parseRef(v) }},
		{Name: "password", Label: "Password", Required: creating,
			Get: func(u domain.User) string { return "" },
			Set: func(u *domain.User, v string) { u.Password = v }},
	}}
}
