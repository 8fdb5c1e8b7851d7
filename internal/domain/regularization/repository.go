package regularization

import (
	"context"
	"time"
)

type RegularizationRepository interface {
	Create(ctx context.Context, req Regularization) (Regularization, error)
	GetByID(ctx context.Context, id string, companyID string) (Regularization, error)
	Update(ctx context.Context, req Regularization) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, filter Filter, companyID string) ([]Regularization, int64, error)

	// ExistsOpenForDate reports whether the employee already has a pending or
	// approved request covering the date.
	ExistsOpenForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error)
}
