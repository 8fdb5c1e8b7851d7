package report

import (
	"context"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
)

// ReportRepository covers the aggregate queries reports need beyond the
// per-entity repositories.
type ReportRepository interface {
	// AttendanceInRange returns every record in [start, end] with employee
	// name and department joined in.
	AttendanceInRange(ctx context.Context, companyID string, start, end time.Time) ([]attendance.Attendance, error)

	// CountJoinsByMonth returns join counts keyed by "YYYY-MM".
	CountJoinsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error)

	// HeadcountOn counts employees on the payroll at end of the given day.
	HeadcountOn(ctx context.Context, companyID string, date time.Time) (int64, error)
}
