package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/report"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// AttendanceInRange implements report.ReportRepository.
func (r *reportRepository) AttendanceInRange(ctx context.Context, companyID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.company_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date ASC, e.full_name ASC
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance in range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}

// CountJoinsByMonth implements report.ReportRepository.
func (r *reportRepository) CountJoinsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT TO_CHAR(join_date, 'YYYY-MM'), COUNT(*)
		FROM employees
		WHERE company_id = $1 AND join_date >= $2 AND join_date <= $3
		GROUP BY 1
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count joins by month: %w", err)
	}
	defer rows.Close()

	joins := make(map[string]int64)
	for rows.Next() {
		var month string
		var count int64
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("failed to scan join count: %w", err)
		}
		joins[month] = count
	}

	return joins, rows.Err()
}

// HeadcountOn implements report.ReportRepository. An employee counts while
// their join date has passed and they have not exited.
func (r *reportRepository) HeadcountOn(ctx context.Context, companyID string, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM employees
		WHERE company_id = $1
		  AND join_date IS NOT NULL AND join_date <= $2
		  AND (exit_date IS NULL OR exit_date > $2)
	`

	var count int64
	if err := q.QueryRow(ctx, query, companyID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count headcount: %w", err)
	}

	return count, nil
}
