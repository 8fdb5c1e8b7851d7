package regularization

import (
	"time"
)

// Status of a regularization request. pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether the request can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Attachment is an opaque stored file; only path existence matters.
type Attachment struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Regularization is an employee-submitted correction of a day's attendance.
// AttendanceID may be nil when no record exists for the date yet; approval
// creates one.
type Regularization struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	AttendanceID *string
	Date         time.Time

	RequestedCheckIn  time.Time
	RequestedCheckOut time.Time
	ActualCheckIn     *time.Time
	ActualCheckOut    *time.Time

	Reason          string
	ManagerComments *string
	Attachments     []Attachment

	Status     Status
	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display
	EmployeeName *string
}
