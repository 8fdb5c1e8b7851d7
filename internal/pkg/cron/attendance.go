package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
)

// AttendanceJobs holds the nightly maintenance jobs of the attendance core:
// recalculating the previous day's records (which also backfills absents)
// and sweeping expired comp-off credits.
type AttendanceJobs struct {
	recalculationService attendance.RecalculationService
	compOffService       compoff.CompOffService
	db                   *database.DB
	location             *time.Location
}

func NewAttendanceJobs(
	recalculationService attendance.RecalculationService,
	compOffService compoff.CompOffService,
	db *database.DB,
	location *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		recalculationService: recalculationService,
		compOffService:       compOffService,
		db:                   db,
		location:             location,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recalculate_previous_day", 1*time.Hour, j.RecalculatePreviousDay)
	scheduler.AddJob("expire_comp_off_credits", 1*time.Hour, j.ExpireCompOffCredits)
}

// RecalculatePreviousDay reruns the hours calculator over yesterday for
// every company. Absent records are synthesized as part of the run.
func (j *AttendanceJobs) RecalculatePreviousDay(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 local)
	if time.Now().In(j.location).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting previous-day recalculation job")

	companyIDs, err := j.companyIDs(ctx)
	if err != nil {
		return err
	}

	yesterday := time.Now().In(j.location).AddDate(0, 0, -1)
	day := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, j.location)

	totalProcessed := 0
	totalAbsents := 0

	for _, companyID := range companyIDs {
		stats, err := j.recalculationService.Recalculate(ctx, companyID, day, day)
		if err != nil {
			slog.Error("Cron: Recalculation failed", "company_id", companyID, "error", err)
			continue
		}
		totalProcessed += stats.Processed
		totalAbsents += stats.AbsentsCreated
	}

	slog.Info("Cron: Previous-day recalculation complete",
		"date", day.Format("2006-01-02"),
		"processed", totalProcessed,
		"absents_created", totalAbsents)
	return nil
}

// ExpireCompOffCredits lapses approved comp-off credits past their validity
// window.
func (j *AttendanceJobs) ExpireCompOffCredits(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 local)
	if time.Now().In(j.location).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting comp-off expiry sweep")

	companyIDs, err := j.companyIDs(ctx)
	if err != nil {
		return err
	}

	asOf := time.Now().In(j.location)
	totalExpired := 0

	for _, companyID := range companyIDs {
		expired, err := j.compOffService.ExpireOutstanding(ctx, companyID, asOf)
		if err != nil {
			slog.Error("Cron: Comp-off expiry failed", "company_id", companyID, "error", err)
			continue
		}
		totalExpired += expired
	}

	slog.Info("Cron: Comp-off expiry sweep complete", "expired", totalExpired)
	return nil
}

func (j *AttendanceJobs) companyIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.Query(ctx, `
		SELECT DISTINCT company_id FROM employees
		WHERE status IN ('active', 'probation')
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}
	return companyIDs, nil
}
