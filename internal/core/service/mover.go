package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/form"
	"github.com/printmanage/console/internal/core/ports"
)

// Mover relocates printers between departments.
type Mover struct {
	printers  ports.PrinterStore
	movements *Page[domain.PrinterMovement]
	log       zerolog.Logger
}

// NewMover returns a Mover. When movements is set it is reloaded after
// every successful move.
func NewMover(printers ports.PrinterStore, movements *Page[domain.PrinterMovement], log zerolog.Logger) *Mover {
	return &Mover{printers: printers, movements: movements, log: log}
}

// Move sends printer to in.DepartmentID. Moving a printer to the
// department it already sits in is refused before any request.
func (m *Mover) Move(ctx context.Context, printer domain.Printer, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	if err := form.Validate(in); err != nil {
		return domain.PrinterMovement{}, err
	}
	if printer.DepartmentID != nil && *printer.DepartmentID == in.DepartmentID {
		return domain.PrinterMovement{}, domain.ErrSameDepartment
	}

	mv, err := m.printers.Move(ctx, printer.ID, in)
	if err != nil {
		m.log.Warn().Err(err).Int64("printer_id", printer.ID).Msg("move failed")
		return domain.PrinterMovement{}, fmt.Errorf("move printer %d: %w", printer.ID, err)
	}
	m.log.Info().
		Int64("printer_id", printer.ID).
		Int64("department_id", in.DepartmentID).
		Msg("printer moved")

	if m.movements != nil {
		_ = m.movements.Load(ctx)
	}
	return mv, nil
}

// MoveByID looks the printer up before moving it.
func (m *Mover) MoveByID(ctx context.Context, printerID int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	printer, err := m.printers.Get(ctx, printerID)
	if err != nil {
		return domain.PrinterMovement{}, err
	}
	return m.Move(ctx, printer, in)
}
