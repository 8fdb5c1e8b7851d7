package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type lifecycleEventRepository struct {
	db *database.DB
}

func NewLifecycleEventRepository(db *database.DB) lifecycle.EventRepository {
	return &lifecycleEventRepository{db: db}
}

const eventColumns = `
	ev.id, ev.company_id, ev.employee_id, ev.type, ev.occurred_at,
	ev.triggered_by, ev.description, ev.metadata, ev.created_at,
	e.full_name, u.name
`

func scanEvent(row database.Row) (lifecycle.Event, error) {
	var event lifecycle.Event
	var metadata []byte

	err := row.Scan(
		&event.ID, &event.CompanyID, &event.EmployeeID, &event.Type, &event.OccurredAt,
		&event.TriggeredBy, &event.Description, &metadata, &event.CreatedAt,
		&event.EmployeeName, &event.TriggeredByName,
	)
	if err != nil {
		return lifecycle.Event{}, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return lifecycle.Event{}, fmt.Errorf("failed to decode event metadata: %w", err)
		}
	}

	return event, nil
}

// Append implements lifecycle.EventRepository.
func (r *lifecycleEventRepository) Append(ctx context.Context, event lifecycle.Event) (lifecycle.Event, error) {
	q := GetQuerier(ctx, r.db)

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("failed to encode event metadata: %w", err)
	}

	query := `
		INSERT INTO lifecycle_events (
			id, company_id, employee_id, type, occurred_at, triggered_by, description, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		event.ID, event.CompanyID, event.EmployeeID, event.Type,
		event.OccurredAt, event.TriggeredBy, event.Description, metadata,
	).Scan(&event.CreatedAt)
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("failed to append lifecycle event: %w", err)
	}

	return event, nil
}

// GetByID implements lifecycle.EventRepository.
func (r *lifecycleEventRepository) GetByID(ctx context.Context, id string, companyID string) (lifecycle.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM lifecycle_events ev
		JOIN employees e ON e.id = ev.employee_id
		LEFT JOIN users u ON u.id = ev.triggered_by
		WHERE ev.id = $1 AND ev.company_id = $2
	`

	return scanEvent(q.QueryRow(ctx, query, id, companyID))
}

// List implements lifecycle.EventRepository.
func (r *lifecycleEventRepository) List(ctx context.Context, filter lifecycle.Filter, companyID string) ([]lifecycle.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"ev.company_id = $1"}
	args := []interface{}{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("ev.employee_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("ev.type = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("ev.occurred_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("ev.occurred_at <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("e.full_name ILIKE $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM lifecycle_events ev
		JOIN employees e ON e.id = ev.employee_id
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count lifecycle events: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM lifecycle_events ev
		JOIN employees e ON e.id = ev.employee_id
		LEFT JOIN users u ON u.id = ev.triggered_by
		WHERE %s
		ORDER BY ev.occurred_at DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lifecycle events: %w", err)
	}
	defer rows.Close()

	var events []lifecycle.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan lifecycle event: %w", err)
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}

// CountByType implements lifecycle.EventRepository.
func (r *lifecycleEventRepository) CountByType(ctx context.Context, companyID string, start, end time.Time) ([]lifecycle.TypeCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT type, COUNT(*)
		FROM lifecycle_events
		WHERE company_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		GROUP BY type
		ORDER BY COUNT(*) DESC
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count lifecycle events by type: %w", err)
	}
	defer rows.Close()

	var counts []lifecycle.TypeCount
	for rows.Next() {
		var tc lifecycle.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

// CountExitsByMonth implements lifecycle.EventRepository.
func (r *lifecycleEventRepository) CountExitsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT TO_CHAR(occurred_at, 'YYYY-MM'), COUNT(*)
		FROM lifecycle_events
		WHERE company_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		  AND type IN ('resignation_accepted', 'terminated', 'retired')
		GROUP BY 1
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count exits by month: %w", err)
	}
	defer rows.Close()

	exits := make(map[string]int64)
	for rows.Next() {
		var month string
		var count int64
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("failed to scan exit count: %w", err)
		}
		exits[month] = count
	}

	return exits, rows.Err()
}
