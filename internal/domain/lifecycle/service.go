package lifecycle

import (
	"context"
	"time"
)

// LifecycleService records and queries the append-only employee event trail.
type LifecycleService interface {
	Record(ctx context.Context, req RecordRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter Filter) ([]Response, int64, error)
	Statistics(ctx context.Context, start, end time.Time) ([]TypeCount, error)
}
