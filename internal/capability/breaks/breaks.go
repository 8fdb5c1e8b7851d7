// Package breaks is the optional break-tracking capability. The attendance
// core never imports it; it is registered under attendance.BreakCapability
// and looked up through the registry at calculation time.
package breaks

import (
	"context"
	"fmt"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

type BreakSystem struct {
	db *database.DB
}

func New(db *database.DB) *BreakSystem {
	return &BreakSystem{db: db}
}

// Name implements registry.Capability.
func (b *BreakSystem) Name() string {
	return attendance.BreakCapability
}

// BreaksForAttendance implements attendance.BreakProvider. Only closed
// breaks count; an open break contributes nothing until it ends.
func (b *BreakSystem) BreaksForAttendance(ctx context.Context, attendanceID string, companyID string) ([]attendance.BreakInterval, error) {
	rows, err := b.db.Query(ctx, `
		SELECT start_time, end_time
		FROM attendance_breaks
		WHERE attendance_id = $1 AND company_id = $2 AND end_time IS NOT NULL
		ORDER BY start_time ASC
	`, attendanceID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var intervals []attendance.BreakInterval
	for rows.Next() {
		var interval attendance.BreakInterval
		if err := rows.Scan(&interval.Start, &interval.End); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		intervals = append(intervals, interval)
	}

	return intervals, rows.Err()
}
