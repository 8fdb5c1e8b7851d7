package regularization

import (
	"context"
)

// RegularizationService manages the pending -> approved/rejected state
// machine. Approval reconciles the day's attendance record with the
// requested punch pair.
type RegularizationService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter Filter) ([]Response, int64, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string, comments *string) (Response, error)
	Reject(ctx context.Context, req RejectRequest) (Response, error)
}
