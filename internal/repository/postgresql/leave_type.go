package postgresql

import (
	"context"
	"fmt"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/leavetype"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leavetype.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

const leaveTypeColumns = `
	id, company_id, name, code, accrual_rate, accrual_frequency,
	carry_forward_max, encashment_max, requires_proof, is_active,
	created_at, updated_at
`

func scanLeaveType(row database.Row) (leavetype.LeaveType, error) {
	var lt leavetype.LeaveType
	err := row.Scan(
		&lt.ID, &lt.CompanyID, &lt.Name, &lt.Code, &lt.AccrualRate, &lt.AccrualFrequency,
		&lt.CarryForwardMax, &lt.EncashmentMax, &lt.RequiresProof, &lt.IsActive,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

// Create implements leavetype.LeaveTypeRepository.
func (r *leaveTypeRepository) Create(ctx context.Context, lt leavetype.LeaveType) (leavetype.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (
			id, company_id, name, code, accrual_rate, accrual_frequency,
			carry_forward_max, encashment_max, requires_proof, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lt.ID, lt.CompanyID, lt.Name, lt.Code, lt.AccrualRate, lt.AccrualFrequency,
		lt.CarryForwardMax, lt.EncashmentMax, lt.RequiresProof, lt.IsActive,
	).Scan(&lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		return leavetype.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return lt, nil
}

// GetByID implements leavetype.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string, companyID string) (leavetype.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE id = $1 AND company_id = $2`

	return scanLeaveType(q.QueryRow(ctx, query, id, companyID))
}

// GetByCode implements leavetype.LeaveTypeRepository. A missing code is not
// an error; callers branch on nil.
func (r *leaveTypeRepository) GetByCode(ctx context.Context, code string, companyID string) (*leavetype.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE code = $1 AND company_id = $2`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, code, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave type by code: %w", err)
	}

	return &lt, nil
}

// Update implements leavetype.LeaveTypeRepository.
func (r *leaveTypeRepository) Update(ctx context.Context, lt leavetype.LeaveType) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_types SET
			name = $1, code = $2, accrual_rate = $3, accrual_frequency = $4,
			carry_forward_max = $5, encashment_max = $6, requires_proof = $7, is_active = $8,
			updated_at = NOW()
		WHERE id = $9 AND company_id = $10
	`

	tag, err := q.Exec(ctx, query,
		lt.Name, lt.Code, lt.AccrualRate, lt.AccrualFrequency,
		lt.CarryForwardMax, lt.EncashmentMax, lt.RequiresProof, lt.IsActive,
		lt.ID, lt.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leavetype.ErrLeaveTypeNotFound
	}

	return nil
}

// Delete implements leavetype.LeaveTypeRepository.
func (r *leaveTypeRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_types WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leavetype.ErrLeaveTypeNotFound
	}

	return nil
}

// List implements leavetype.LeaveTypeRepository.
func (r *leaveTypeRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]leavetype.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE company_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var leaveTypes []leavetype.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		leaveTypes = append(leaveTypes, lt)
	}

	return leaveTypes, rows.Err()
}
