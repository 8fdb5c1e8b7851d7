package attendance

import (
	"time"
)

// Status is the lifecycle state of a daily attendance record.
type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusAbsent     Status = "absent"
	StatusLeave      Status = "leave"
	StatusHoliday    Status = "holiday"
	StatusWeekend    Status = "weekend"
	StatusHalfDay    Status = "half_day"
)

// IsTerminalDayType reports whether the status was assigned by calendar
// classification (leave, holiday, weekend) and must never be overridden by
// punch-driven recalculation.
func (s Status) IsTerminalDayType() bool {
	return s == StatusLeave || s == StatusHoliday || s == StatusWeekend
}

// LogType distinguishes the two punch directions.
type LogType string

const (
	LogCheckIn  LogType = "check_in"
	LogCheckOut LogType = "check_out"
)

// Attendance is one employee-day. CheckIn/CheckOut mirror the first and last
// punches of the day; the hour buckets are derived by the calculator and
// overwritten wholesale on every recalculation.
type Attendance struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	ShiftID       *string
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkingHours  float64
	BreakHours    float64
	LateHours     float64
	EarlyHours    float64
	OvertimeHours float64
	Status        Status
	IsWeekend     bool
	IsHoliday     bool
	IsHalfDay     bool
	Notes         *string

	// Overtime approval
	ApprovedBy *string
	ApprovedAt *time.Time

	// Version backs the compare-and-swap update path; same-day concurrent
	// punches surface ErrVersionConflict instead of silently racing.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display
	EmployeeName       *string
	EmployeeDepartment *string
}

// AttendanceLog is one physical punch. Append-only; administrative
// corrections update the row in place rather than appending a new one.
type AttendanceLog struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	CompanyID    string
	Type         LogType
	LoggedAt     time.Time
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
}
