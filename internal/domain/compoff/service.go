package compoff

import (
	"context"
	"time"
)

// CompOffService manages earned day-off credits: the pending ->
// approved/rejected state machine, FIFO consumption, and expiry.
type CompOffService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter Filter) ([]Response, int64, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (Response, error)
	Reject(ctx context.Context, req RejectRequest) (Response, error)

	// Consume uses up the caller's oldest available credits first.
	Consume(ctx context.Context, days float64) ([]Response, error)

	// GetBalance returns the employee's credit buckets as of now.
	GetBalance(ctx context.Context, employeeID string) (Balance, error)

	// ExpireOutstanding flags lapsed credits company-wide and returns how
	// many were expired. Run from the nightly sweep.
	ExpireOutstanding(ctx context.Context, companyID string, asOf time.Time) (int, error)
}
