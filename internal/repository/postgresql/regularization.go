package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/regularization"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.RegularizationRepository {
	return &regularizationRepository{db: db}
}

const regularizationColumns = `
	r.id, r.employee_id, r.company_id, r.attendance_id, r.date,
	r.requested_check_in, r.requested_check_out, r.actual_check_in, r.actual_check_out,
	r.reason, r.manager_comments, r.attachments,
	r.status, r.approved_by, r.approved_at, r.created_at, r.updated_at,
	e.full_name
`

func scanRegularization(row database.Row) (regularization.Regularization, error) {
	var req regularization.Regularization
	var attachments []byte

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.CompanyID, &req.AttendanceID, &req.Date,
		&req.RequestedCheckIn, &req.RequestedCheckOut, &req.ActualCheckIn, &req.ActualCheckOut,
		&req.Reason, &req.ManagerComments, &attachments,
		&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		return regularization.Regularization{}, err
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &req.Attachments); err != nil {
			return regularization.Regularization{}, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}

	return req, nil
}

// Create implements regularization.RegularizationRepository.
func (r *regularizationRepository) Create(ctx context.Context, req regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	attachments, err := json.Marshal(req.Attachments)
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `
		INSERT INTO regularization_requests (
			id, employee_id, company_id, attendance_id, date,
			requested_check_in, requested_check_out, actual_check_in, actual_check_out,
			reason, attachments, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.CompanyID, req.AttendanceID, req.Date,
		req.RequestedCheckIn, req.RequestedCheckOut, req.ActualCheckIn, req.ActualCheckOut,
		req.Reason, attachments, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	return req, nil
}

// GetByID implements regularization.RegularizationRepository.
func (r *regularizationRepository) GetByID(ctx context.Context, id string, companyID string) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + regularizationColumns + `
		FROM regularization_requests r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1 AND r.company_id = $2
	`

	return scanRegularization(q.QueryRow(ctx, query, id, companyID))
}

// Update implements regularization.RegularizationRepository.
func (r *regularizationRepository) Update(ctx context.Context, req regularization.Regularization) error {
	q := GetQuerier(ctx, r.db)

	attachments, err := json.Marshal(req.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `
		UPDATE regularization_requests SET
			attendance_id = $1,
			requested_check_in = $2, requested_check_out = $3,
			actual_check_in = $4, actual_check_out = $5,
			reason = $6, manager_comments = $7, attachments = $8,
			status = $9, approved_by = $10, approved_at = $11,
			updated_at = NOW()
		WHERE id = $12 AND company_id = $13
	`

	tag, err := q.Exec(ctx, query,
		req.AttendanceID,
		req.RequestedCheckIn, req.RequestedCheckOut,
		req.ActualCheckIn, req.ActualCheckOut,
		req.Reason, req.ManagerComments, attachments,
		req.Status, req.ApprovedBy, req.ApprovedAt,
		req.ID, req.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update regularization request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return regularization.ErrNotFound
	}

	return nil
}

// Delete implements regularization.RegularizationRepository.
func (r *regularizationRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM regularization_requests WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete regularization request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return regularization.ErrNotFound
	}

	return nil
}

// List implements regularization.RegularizationRepository.
func (r *regularizationRepository) List(ctx context.Context, filter regularization.Filter, companyID string) ([]regularization.Regularization, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"r.company_id = $1"}
	args := []interface{}{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("r.date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("r.date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM regularization_requests r
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regularization requests: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM regularization_requests r
		JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, regularizationColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regularization requests: %w", err)
	}
	defer rows.Close()

	var requests []regularization.Regularization
	for rows.Next() {
		req, err := scanRegularization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan regularization request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// ExistsOpenForDate implements regularization.RegularizationRepository.
func (r *regularizationRepository) ExistsOpenForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM regularization_requests
			WHERE employee_id = $1 AND date = $2 AND company_id = $3
			  AND status IN ('pending', 'approved')
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open regularization requests: %w", err)
	}

	return exists, nil
}
