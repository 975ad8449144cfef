package ports

import (
	"context"

	"github.com/printmanage/console/internal/core/domain"
)

// Collection is the CRUD surface every remote resource offers.
type Collection[T domain.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// PagedCollection is a collection the store paginates and searches itself.
type PagedCollection[T domain.Entity] interface {
	Collection[T]
	ListPage(ctx context.Context, q domain.PageQuery) (domain.PageResult[T], error)
}

// MovePrinterInput carries a relocation request.
type MovePrinterInput struct {
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	Notes        string `json:"notes,omitempty"`
}

// PrinterStore adds the dedicated relocation endpoint to printers.
type PrinterStore interface {
	Collection[domain.Printer]
	// Move relocates a printer; the store appends the movement entry.
	Move(ctx context.Context, printerID int64, in MovePrinterInput) (domain.PrinterMovement, error)
}

// MovementLog is the read-only view of printer relocations.
type MovementLog interface {
	List(ctx context.Context) ([]domain.PrinterMovement, error)
}

// Analytics exposes the dashboard namespace of the store.
type Analytics interface {
	Overview(ctx context.Context) (domain.Overview, error)
	Companies(ctx context.Context) ([]domain.CompanyStats, error)
	FrequentErrors(ctx context.Context) ([]domain.FrequentError, error)
	PrintersAttention(ctx context.Context) ([]domain.PrinterAttention, error)
	InterventionsByTypeOverTime(ctx context.Context) ([]domain.InterventionPoint, error)
	DepartmentsWithInterventions(ctx context.Context) ([]domain.DepartmentInterventions, error)
	AllInterventions(ctx context.Context) ([]domain.Intervention, error)
	PrinterInterventions(ctx context.Context, printerID int64) ([]domain.Intervention, error)
	CompanyInterventions(ctx context.Context, companyID int64) ([]domain.Intervention, error)
	DepartmentInterventions(ctx context.Context, departmentID int64) ([]domain.Intervention, error)
	SearchByRequestNumber(ctx context.Context, requestNumber string) (domain.RequestSearchResult, error)
}

// LoginResult is what a successful sign-in returns.
type LoginResult struct {
	Token string
	User  domain.User
}

// Authenticator signs users in against the store.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// RemoteStore groups every resource the console consumes.
type RemoteStore interface {
	Companies() Collection[domain.Company]
	Departments() Collection[domain.Department]
	Brands() PagedCollection[domain.Brand]
	PrinterModels() Collection[domain.PrinterModel]
	Printers() PrinterStore
	Materiel() Collection[domain.Materiel]
	Users() Collection[domain.User]
	PrinterMovements() MovementLog
	Analytics() Analytics
}

// StoreFactory binds a store to the session whose token authenticates it.
type StoreFactory interface {
	Authenticator
	For(sess Session) RemoteStore
}
