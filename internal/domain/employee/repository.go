package employee

import (
	"context"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// GetByUserID resolves the employee behind an authenticated user.
	GetByUserID(ctx context.Context, userID string, companyID string) (Employee, error)

	// GetActiveByCompanyID returns employees counted toward attendance
	// expectations (active and on-probation).
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ListDepartments returns distinct non-empty department names.
	ListDepartments(ctx context.Context, companyID string) ([]string, error)
}
