package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type compOffRepository struct {
	db *database.DB
}

func NewCompOffRepository(db *database.DB) compoff.CompOffRepository {
	return &compOffRepository{db: db}
}

const compOffColumns = `
	c.id, c.employee_id, c.company_id, c.worked_date, c.hours_worked, c.comp_off_days,
	c.reason, c.expiry_date, c.is_used, c.used_at,
	c.status, c.approved_by, c.approved_at, c.rejection_reason,
	c.created_at, c.updated_at,
	e.full_name
`

func scanCompOff(row database.Row) (compoff.CompensatoryOff, error) {
	var c compoff.CompensatoryOff
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.CompanyID, &c.WorkedDate, &c.HoursWorked, &c.CompOffDays,
		&c.Reason, &c.ExpiryDate, &c.IsUsed, &c.UsedAt,
		&c.Status, &c.ApprovedBy, &c.ApprovedAt, &c.RejectionReason,
		&c.CreatedAt, &c.UpdatedAt,
		&c.EmployeeName,
	)
	return c, err
}

// Create implements compoff.CompOffRepository.
func (r *compOffRepository) Create(ctx context.Context, c compoff.CompensatoryOff) (compoff.CompensatoryOff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO compensatory_offs (
			id, employee_id, company_id, worked_date, hours_worked, comp_off_days, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		c.ID, c.EmployeeID, c.CompanyID, c.WorkedDate, c.HoursWorked, c.CompOffDays, c.Reason, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return compoff.CompensatoryOff{}, fmt.Errorf("failed to create comp off: %w", err)
	}

	return c, nil
}

// GetByID implements compoff.CompOffRepository.
func (r *compOffRepository) GetByID(ctx context.Context, id string, companyID string) (compoff.CompensatoryOff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + compOffColumns + `
		FROM compensatory_offs c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1 AND c.company_id = $2
	`

	return scanCompOff(q.QueryRow(ctx, query, id, companyID))
}

// Update implements compoff.CompOffRepository.
func (r *compOffRepository) Update(ctx context.Context, c compoff.CompensatoryOff) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE compensatory_offs SET
			worked_date = $1, hours_worked = $2, comp_off_days = $3, reason = $4,
			expiry_date = $5, is_used = $6, used_at = $7,
			status = $8, approved_by = $9, approved_at = $10, rejection_reason = $11,
			updated_at = NOW()
		WHERE id = $12 AND company_id = $13
	`

	tag, err := q.Exec(ctx, query,
		c.WorkedDate, c.HoursWorked, c.CompOffDays, c.Reason,
		c.ExpiryDate, c.IsUsed, c.UsedAt,
		c.Status, c.ApprovedBy, c.ApprovedAt, c.RejectionReason,
		c.ID, c.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comp off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compoff.ErrNotFound
	}

	return nil
}

// Delete implements compoff.CompOffRepository.
func (r *compOffRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM compensatory_offs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete comp off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compoff.ErrNotFound
	}

	return nil
}

// List implements compoff.CompOffRepository.
func (r *compOffRepository) List(ctx context.Context, filter compoff.Filter, companyID string) ([]compoff.CompensatoryOff, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"c.company_id = $1"}
	args := []interface{}{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("c.employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM compensatory_offs c
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comp offs: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM compensatory_offs c
		JOIN employees e ON e.id = c.employee_id
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, compOffColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comp offs: %w", err)
	}
	defer rows.Close()

	var credits []compoff.CompensatoryOff
	for rows.Next() {
		c, err := scanCompOff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan comp off: %w", err)
		}
		credits = append(credits, c)
	}

	return credits, total, rows.Err()
}

// ExistsOpenForDate implements compoff.CompOffRepository.
func (r *compOffRepository) ExistsOpenForDate(ctx context.Context, employeeID string, workedDate time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM compensatory_offs
			WHERE employee_id = $1 AND worked_date = $2 AND company_id = $3
			  AND status IN ('pending', 'approved')
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, workedDate, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open comp offs: %w", err)
	}

	return exists, nil
}

// ListConsumable implements compoff.CompOffRepository. Oldest worked date
// first, so consumption is FIFO.
func (r *compOffRepository) ListConsumable(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]compoff.CompensatoryOff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + compOffColumns + `
		FROM compensatory_offs c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.employee_id = $1 AND c.company_id = $2
		  AND c.status = 'approved' AND c.is_used = FALSE
		  AND (c.expiry_date IS NULL OR c.expiry_date >= $3)
		ORDER BY c.worked_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumable comp offs: %w", err)
	}
	defer rows.Close()

	var credits []compoff.CompensatoryOff
	for rows.Next() {
		c, err := scanCompOff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comp off: %w", err)
		}
		credits = append(credits, c)
	}

	return credits, rows.Err()
}

// GetBalance implements compoff.CompOffRepository.
func (r *compOffRepository) GetBalance(ctx context.Context, employeeID string, companyID string, asOf time.Time) (compoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(comp_off_days) FILTER (WHERE status = 'approved' AND is_used = FALSE
				AND (expiry_date IS NULL OR expiry_date >= $3)), 0),
			COALESCE(SUM(comp_off_days) FILTER (WHERE status = 'approved'), 0),
			COALESCE(SUM(comp_off_days) FILTER (WHERE status = 'approved' AND is_used = TRUE), 0),
			COALESCE(SUM(comp_off_days) FILTER (WHERE status = 'approved' AND is_used = FALSE
				AND expiry_date < $3), 0),
			COALESCE(SUM(comp_off_days) FILTER (WHERE status = 'pending'), 0)
		FROM compensatory_offs
		WHERE employee_id = $1 AND company_id = $2
	`

	var balance compoff.Balance
	err := q.QueryRow(ctx, query, employeeID, companyID, asOf).Scan(
		&balance.Available,
		&balance.TotalApproved,
		&balance.TotalUsed,
		&balance.TotalExpired,
		&balance.TotalPending,
	)
	if err != nil {
		return compoff.Balance{}, fmt.Errorf("failed to get comp off balance: %w", err)
	}

	return balance, nil
}

// ListExpirable implements compoff.CompOffRepository.
func (r *compOffRepository) ListExpirable(ctx context.Context, companyID string, asOf time.Time) ([]compoff.CompensatoryOff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + compOffColumns + `
		FROM compensatory_offs c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.company_id = $1
		  AND c.status = 'approved' AND c.is_used = FALSE
		  AND c.expiry_date IS NOT NULL AND c.expiry_date < $2
		ORDER BY c.expiry_date ASC
	`

	rows, err := q.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable comp offs: %w", err)
	}
	defer rows.Close()

	var credits []compoff.CompensatoryOff
	for rows.Next() {
		c, err := scanCompOff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comp off: %w", err)
		}
		credits = append(credits, c)
	}

	return credits, rows.Err()
}
