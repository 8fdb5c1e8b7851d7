package leavetype

import (
	"context"
)

// LeaveTypeService maintains leave-type configuration.
type LeaveTypeService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]Response, error)
}
