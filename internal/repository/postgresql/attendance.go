package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date, a.shift_id,
	a.check_in, a.check_out,
	a.working_hours, a.break_hours, a.late_hours, a.early_hours, a.overtime_hours,
	a.status, a.is_weekend, a.is_holiday, a.is_half_day, a.notes,
	a.approved_by, a.approved_at, a.version, a.created_at, a.updated_at,
	e.full_name, e.department
`

func scanAttendance(row database.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.ShiftID,
		&a.CheckIn, &a.CheckOut,
		&a.WorkingHours, &a.BreakHours, &a.LateHours, &a.EarlyHours, &a.OvertimeHours,
		&a.Status, &a.IsWeekend, &a.IsHoliday, &a.IsHalfDay, &a.Notes,
		&a.ApprovedBy, &a.ApprovedAt, &a.Version, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeDepartment,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, shift_id,
			check_in, check_out,
			working_hours, break_hours, late_hours, early_hours, overtime_hours,
			status, is_weekend, is_holiday, is_half_day, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.CompanyID,
		newAttendance.Date,
		newAttendance.ShiftID,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.WorkingHours,
		newAttendance.BreakHours,
		newAttendance.LateHours,
		newAttendance.EarlyHours,
		newAttendance.OvertimeHours,
		newAttendance.Status,
		newAttendance.IsWeekend,
		newAttendance.IsHoliday,
		newAttendance.IsHalfDay,
		newAttendance.Notes,
	).Scan(&newAttendance.ID, &newAttendance.Version, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	return scanAttendance(q.QueryRow(ctx, query, id, companyID))
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository. A missing
// record is not an error; callers branch on nil.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2 AND a.company_id = $3
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &a, nil
}

// GetByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByDate(ctx context.Context, date time.Time, companyID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1 AND a.company_id = $2
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
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

// UpdateWithVersion implements attendance.AttendanceRepository. The WHERE
// clause carries the version the caller read; zero rows updated means someone
// else got there first.
func (r *attendanceRepository) UpdateWithVersion(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			check_in = $1, check_out = $2,
			working_hours = $3, break_hours = $4, late_hours = $5,
			early_hours = $6, overtime_hours = $7,
			status = $8, notes = $9,
			version = version + 1, updated_at = NOW()
		WHERE id = $10 AND company_id = $11 AND version = $12
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.CheckIn, a.CheckOut,
		a.WorkingHours, a.BreakHours, a.LateHours,
		a.EarlyHours, a.OvertimeHours,
		a.Status, a.Notes,
		a.ID, a.CompanyID, a.Version,
	).Scan(&a.Version, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, attendance.ErrVersionConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return a, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.company_id = $1"}
	args := []interface{}{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("e.department = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("e.full_name ILIKE $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.full_name
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	return records, total, rows.Err()
}

// BulkCreateAbsences implements attendance.AttendanceRepository. One
// multi-row insert; conflicts with a concurrently created record are skipped
// rather than failed.
func (r *attendanceRepository) BulkCreateAbsences(ctx context.Context, absences []attendance.Attendance) error {
	if len(absences) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO attendances (id, employee_id, company_id, date, shift_id, status, is_weekend)
		VALUES `)

	args := make([]interface{}, 0, len(absences)*7)
	for i, a := range absences {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, a.ID, a.EmployeeID, a.CompanyID, a.Date, a.ShiftID, a.Status, a.IsWeekend)
	}
	sb.WriteString(" ON CONFLICT (employee_id, date) DO NOTHING")

	if _, err := q.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return nil
}

// ApproveOvertime implements attendance.AttendanceRepository.
func (r *attendanceRepository) ApproveOvertime(ctx context.Context, id, approverID, companyID string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET approved_by = $1, approved_at = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND approved_by IS NULL
	`

	tag, err := q.Exec(ctx, query, approverID, approvedAt, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to approve overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyProcessed
	}

	return nil
}
