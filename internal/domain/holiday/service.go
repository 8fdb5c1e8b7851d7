package holiday

import (
	"context"
)

// HolidayService maintains the company calendar and answers applicability
// questions for individual employees.
type HolidayService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, year int) ([]Response, error)

	// ForEmployee returns the year's holidays that apply to one employee.
	ForEmployee(ctx context.Context, employeeID string, year int) ([]Response, error)
}
