package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for daily attendance records.
// Every method takes companyID to enforce tenant isolation at the query level.
type AttendanceRepository interface {
	// Create inserts a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate retrieves attendance for a specific employee on a
	// specific working day. Returns nil (not an error) when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// GetByDate retrieves every attendance record for a working day.
	GetByDate(ctx context.Context, date time.Time, companyID string) ([]Attendance, error)

	// UpdateWithVersion persists the record only if the stored version still
	// matches attendance.Version. Returns ErrVersionConflict otherwise and
	// increments the version on success.
	UpdateWithVersion(ctx context.Context, attendance Attendance) (Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter Filter, companyID string) ([]Attendance, int64, error)

	// BulkCreateAbsences inserts synthesized absent records in one statement.
	BulkCreateAbsences(ctx context.Context, absences []Attendance) error

	// ApproveOvertime stamps the approver on a checked-out record.
	ApproveOvertime(ctx context.Context, id, approverID, companyID string, approvedAt time.Time) error
}

// AttendanceLogRepository defines data access for raw punch events.
type AttendanceLogRepository interface {
	// Append records a punch. Logs are never updated through this interface.
	Append(ctx context.Context, log AttendanceLog) (AttendanceLog, error)

	// ListByAttendance returns a day's punches ordered by logged_at ascending.
	ListByAttendance(ctx context.Context, attendanceID string, companyID string) ([]AttendanceLog, error)

	// CountByAttendanceAndType counts punches of one direction for a day.
	CountByAttendanceAndType(ctx context.Context, attendanceID string, logType LogType, companyID string) (int, error)

	// ReplaceForAttendance swaps a day's punches for an administratively
	// corrected set. The stored logs must stay the source of truth for
	// recalculation, so corrections rewrite them instead of bypassing them.
	ReplaceForAttendance(ctx context.Context, attendanceID string, companyID string, logs []AttendanceLog) error
}
