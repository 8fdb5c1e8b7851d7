package leavetype

import (
	"context"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	GetByCode(ctx context.Context, code string, companyID string) (*LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, companyID string, activeOnly bool) ([]LeaveType, error)
}
