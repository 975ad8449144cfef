package domain

import "time"

// Overview holds the headline counters of the dashboard.
type Overview struct {
	Companies          int `json:"companies"           bson:"companies"`
	Departments        int `json:"departments"         bson:"departments"`
	Printers           int `json:"printers"            bson:"printers"`
	ActivePrinters     int `json:"active_printers"     bson:"active_printers"`
	Users              int `json:"users"               bson:"users"`
	OpenInterventions  int `json:"open_interventions"  bson:"open_interventions"`
	TotalInterventions int `json:"total_interventions" bson:"total_interventions"`
}

// CompanyStats summarises one company on the dashboard.
type CompanyStats struct {
	ID            int64  `json:"id"             validate:"required"`
	Name          string `json:"name"           validate:"required"`
	Printers      int    `json:"printers"`
	Departments   int    `json:"departments"`
	Interventions int    `json:"interventions"`
}

// FrequentError is an error code ranked by occurrences.
type FrequentError struct {
	Code        string `json:"code"        validate:"required"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// PrinterAttention flags a printer that needs a technician.
type PrinterAttention struct {
	PrinterID  int64  `json:"printer_id" validate:"required"`
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Reason     string `json:"reason"`
}

// InterventionPoint is one bucket of the interventions-by-type series.
type InterventionPoint struct {
	Period string `json:"period" validate:"required"`
	Type   string `json:"type"   validate:"required"`
	Count  int    `json:"count"`
}

// DepartmentInterventions counts interventions per department.
type DepartmentInterventions struct {
	DepartmentID  int64  `json:"department_id" validate:"required"`
	Name          string `json:"name"`
	CompanyID     int64  `json:"company_id"`
	Interventions int    `json:"interventions"`
}

// Intervention is a technician visit on a printer.
type Intervention struct {
	ID            int64      `json:"id"             validate:"required"`
	RequestNumber string     `json:"request_number"`
	PrinterID     int64      `json:"printer_id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Description   string     `json:"description,omitempty"`
	TechnicianID  *int64     `json:"technician_id"`
	CreatedAt     time.Time  `json:"created_at"`
	ClosedAt      *time.Time `json:"closed_at"`
}

func (i Intervention) EntityID() int64 { return i.ID }

// RequestSearchResult is the printer found for an intervention request number.
type RequestSearchResult struct {
	Printer      Printer       `json:"printer"`
	Intervention *Intervention `json:"intervention,omitempty"`
}
