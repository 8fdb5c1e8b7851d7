package attendance

import (
	"context"
	"time"
)

// AttendanceService is the write-side surface of the attendance core.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (Response, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter Filter) ([]Response, int64, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	ApproveOvertime(ctx context.Context, id string) (Response, error)
}

// RecalculationStats summarizes one batch run. Per-row failures are collected
// in RowErrors; they never abort the batch.
type RecalculationStats struct {
	Processed      int            `json:"processed"`
	AbsentsCreated int            `json:"absents_created"`
	Errors         int            `json:"errors"`
	Dates          []string       `json:"dates"`
	RowErrors      []RowError     `json:"row_errors,omitempty"`
	PerDate        map[string]int `json:"per_date,omitempty"`
}

type RowError struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Message    string `json:"message"`
}

// RecalculationService reapplies the hours calculator over a date range and
// backfills absent records.
type RecalculationService interface {
	Recalculate(ctx context.Context, companyID string, start, end time.Time) (RecalculationStats, error)
}
