package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string, companyID string) (Holiday, error)
	Update(ctx context.Context, holiday Holiday) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, companyID string, year int) ([]Holiday, error)

	// ListInRange returns holidays whose dates fall inside [start, end],
	// including recurring holidays anchored in other years.
	ListInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
}
