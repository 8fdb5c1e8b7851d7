package postgresql

import (
	"context"
	"fmt"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type attendanceLogRepository struct {
	db *database.DB
}

func NewAttendanceLogRepository(db *database.DB) attendance.AttendanceLogRepository {
	return &attendanceLogRepository{db: db}
}

// Append implements attendance.AttendanceLogRepository.
func (r *attendanceLogRepository) Append(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_logs (id, attendance_id, employee_id, company_id, type, logged_at, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		log.ID,
		log.AttendanceID,
		log.EmployeeID,
		log.CompanyID,
		log.Type,
		log.LoggedAt,
		log.Latitude,
		log.Longitude,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to append attendance log: %w", err)
	}

	return log, nil
}

// ListByAttendance implements attendance.AttendanceLogRepository.
func (r *attendanceLogRepository) ListByAttendance(ctx context.Context, attendanceID string, companyID string) ([]attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, employee_id, company_id, type, logged_at, latitude, longitude, created_at
		FROM attendance_logs
		WHERE attendance_id = $1 AND company_id = $2
		ORDER BY logged_at ASC
	`

	rows, err := q.Query(ctx, query, attendanceID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	var logs []attendance.AttendanceLog
	for rows.Next() {
		var log attendance.AttendanceLog
		if err := rows.Scan(
			&log.ID, &log.AttendanceID, &log.EmployeeID, &log.CompanyID,
			&log.Type, &log.LoggedAt, &log.Latitude, &log.Longitude, &log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// CountByAttendanceAndType implements attendance.AttendanceLogRepository.
func (r *attendanceLogRepository) CountByAttendanceAndType(ctx context.Context, attendanceID string, logType attendance.LogType, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_logs
		WHERE attendance_id = $1 AND type = $2 AND company_id = $3
	`

	var count int
	if err := q.QueryRow(ctx, query, attendanceID, logType, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance logs: %w", err)
	}

	return count, nil
}

// ReplaceForAttendance implements attendance.AttendanceLogRepository. Callers
// run it inside a transaction so a failed insert never leaves the day empty.
func (r *attendanceLogRepository) ReplaceForAttendance(ctx context.Context, attendanceID string, companyID string, logs []attendance.AttendanceLog) error {
	q := GetQuerier(ctx, r.db)

	deleteQuery := `
		DELETE FROM attendance_logs
		WHERE attendance_id = $1 AND company_id = $2
	`
	if _, err := q.Exec(ctx, deleteQuery, attendanceID, companyID); err != nil {
		return fmt.Errorf("failed to clear attendance logs: %w", err)
	}

	insertQuery := `
		INSERT INTO attendance_logs (id, attendance_id, employee_id, company_id, type, logged_at, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, log := range logs {
		if _, err := q.Exec(ctx, insertQuery,
			log.ID,
			log.AttendanceID,
			log.EmployeeID,
			log.CompanyID,
			log.Type,
			log.LoggedAt,
			log.Latitude,
			log.Longitude,
		); err != nil {
			return fmt.Errorf("failed to insert corrected attendance log: %w", err)
		}
	}

	return nil
}
