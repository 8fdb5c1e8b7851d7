package postgresql

import (
	"context"
	"fmt"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, company_id, name, start_time, end_time, grace_period_minutes, is_active,
	created_at, updated_at
`

func scanShift(row database.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.StartTime, &s.EndTime,
		&s.GracePeriodMinutes, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND company_id = $2`

	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, companyID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
