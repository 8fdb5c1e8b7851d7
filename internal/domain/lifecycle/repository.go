package lifecycle

import (
	"context"
	"time"
)

// EventRepository is append-and-query only; there is no update or delete.
type EventRepository interface {
	Append(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, id string, companyID string) (Event, error)
	List(ctx context.Context, filter Filter, companyID string) ([]Event, int64, error)
	CountByType(ctx context.Context, companyID string, start, end time.Time) ([]TypeCount, error)

	// CountExitsByMonth returns exit-event counts keyed by "YYYY-MM",
	// consumed by the turnover report.
	CountExitsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error)
}
