package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

const holidayColumns = `
	id, company_id, name, date, applicability,
	departments, locations, employment_types, employee_ids,
	is_optional, is_half_day, is_recurring, is_compensatory, is_restricted,
	created_at, updated_at
`

func scanHoliday(row database.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(
		&h.ID, &h.CompanyID, &h.Name, &h.Date, &h.Applicability,
		&h.Departments, &h.Locations, &h.EmploymentTypes, &h.EmployeeIDs,
		&h.IsOptional, &h.IsHalfDay, &h.IsRecurring, &h.IsCompensatory, &h.IsRestricted,
		&h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	// A company can't have two holidays on the same date.
	var exists bool
	dupQuery := `SELECT EXISTS (SELECT 1 FROM holidays WHERE company_id = $1 AND date = $2)`
	if err := q.QueryRow(ctx, dupQuery, h.CompanyID, h.Date).Scan(&exists); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to check duplicate holiday: %w", err)
	}
	if exists {
		return holiday.Holiday{}, holiday.ErrDuplicateDate
	}

	query := `
		INSERT INTO holidays (
			id, company_id, name, date, applicability,
			departments, locations, employment_types, employee_ids,
			is_optional, is_half_day, is_recurring, is_compensatory, is_restricted
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		h.ID, h.CompanyID, h.Name, h.Date, h.Applicability,
		h.Departments, h.Locations, h.EmploymentTypes, h.EmployeeIDs,
		h.IsOptional, h.IsHalfDay, h.IsRecurring, h.IsCompensatory, h.IsRestricted,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return h, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepository) GetByID(ctx context.Context, id string, companyID string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE id = $1 AND company_id = $2`

	return scanHoliday(q.QueryRow(ctx, query, id, companyID))
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepository) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holidays SET
			name = $1, date = $2, applicability = $3,
			departments = $4, locations = $5, employment_types = $6, employee_ids = $7,
			is_optional = $8, is_half_day = $9, is_recurring = $10,
			is_compensatory = $11, is_restricted = $12,
			updated_at = NOW()
		WHERE id = $13 AND company_id = $14
	`

	tag, err := q.Exec(ctx, query,
		h.Name, h.Date, h.Applicability,
		h.Departments, h.Locations, h.EmploymentTypes, h.EmployeeIDs,
		h.IsOptional, h.IsHalfDay, h.IsRecurring,
		h.IsCompensatory, h.IsRestricted,
		h.ID, h.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}

// List implements holiday.HolidayRepository. Recurring holidays are included
// regardless of their anchor year.
func (r *holidayRepository) List(ctx context.Context, companyID string, year int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1
		  AND (EXTRACT(YEAR FROM date) = $2 OR is_recurring = TRUE)
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// ListInRange implements holiday.HolidayRepository.
func (r *holidayRepository) ListInRange(ctx context.Context, companyID string, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1
		  AND ((date >= $2 AND date <= $3) OR is_recurring = TRUE)
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays in range: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
