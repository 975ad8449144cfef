package domain

import "time"

// Printer is a device placed in a company department.
type Printer struct {
	ID             int64  `json:"id"                      bson:"_id"`
	Name           string `json:"name"                    bson:"name"                    validate:"required"`
	SerialNumber   string `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
	PrinterModelID int64  `json:"printer_model_id"        bson:"printer_model_id"`
	CompanyID      *int64 `json:"company_id"              bson:"company_id,omitempty"`
	DepartmentID   *int64 `json:"department_id"           bson:"department_id,omitempty"`
	Status         string `json:"status,omitempty"        bson:"status,omitempty"`
}

func (p Printer) EntityID() int64 { return p.ID }

// PrinterMovement is an append-only audit entry written on every relocation.
type PrinterMovement struct {
	ID              int64     `json:"id"                bson:"_id"`
	PrinterID       int64     `json:"printer_id"        bson:"printer_id"        validate:"required,gt=0"`
	OldDepartmentID *int64    `json:"old_department_id" bson:"old_department_id,omitempty"`
	NewDepartmentID int64     `json:"new_department_id" bson:"new_department_id" validate:"required,gt=0"`
	MovedBy         int64     `json:"moved_by"          bson:"moved_by"`
	Date            time.Time `json:"date"              bson:"date"`
	Notes           string    `json:"notes,omitempty"   bson:"notes,omitempty"`
}

func (m PrinterMovement) EntityID() int64 { return m.ID }
