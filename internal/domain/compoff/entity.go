package compoff

import (
	"time"
)

// Status of a comp-off request. pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether the request can no longer change state, apart
// from the is_used flag flipping on consumption.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CompensatoryOff is a day-off credit earned for working a non-working day.
// ExpiryDate is stamped from the worked date plus the configured validity
// window; credits are consumed FIFO by worked date.
type CompensatoryOff struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	WorkedDate  time.Time
	HoursWorked float64
	CompOffDays float64
	Reason      string
	ExpiryDate  *time.Time
	IsUsed      bool
	UsedAt      *time.Time

	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display
	EmployeeName *string
}

// IsExpired reports whether an approved, unused credit has lapsed.
func (c CompensatoryOff) IsExpired(now time.Time) bool {
	return c.Status == StatusApproved && !c.IsUsed &&
		c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// Balance summarizes an employee's credits.
type Balance struct {
	Available     float64 `json:"available"`
	TotalApproved float64 `json:"total_approved"`
	TotalUsed     float64 `json:"total_used"`
	TotalExpired  float64 `json:"total_expired"`
	TotalPending  float64 `json:"total_pending"`
}
