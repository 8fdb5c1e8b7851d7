package compoff

import (
	"context"
	"time"
)

type CompOffRepository interface {
	Create(ctx context.Context, compOff CompensatoryOff) (CompensatoryOff, error)
	GetByID(ctx context.Context, id string, companyID string) (CompensatoryOff, error)
	Update(ctx context.Context, compOff CompensatoryOff) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, filter Filter, companyID string) ([]CompensatoryOff, int64, error)

	// ExistsOpenForDate reports whether a pending or approved request already
	// covers the worked date.
	ExistsOpenForDate(ctx context.Context, employeeID string, workedDate time.Time, companyID string) (bool, error)

	// ListConsumable returns approved, unused, unexpired credits ordered by
	// worked_date ascending (FIFO consumption order).
	ListConsumable(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]CompensatoryOff, error)

	// GetBalance aggregates the employee's credit buckets.
	GetBalance(ctx context.Context, employeeID string, companyID string, asOf time.Time) (Balance, error)

	// ListExpirable returns approved, unused credits whose expiry date has
	// passed as of the given instant.
	ListExpirable(ctx context.Context, companyID string, asOf time.Time) ([]CompensatoryOff, error)
}
