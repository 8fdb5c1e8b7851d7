package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
)

// RecalculationServiceImpl reapplies the hours calculator over date ranges.
// Each employee-day is processed independently: a failing row is recorded and
// the batch moves on, so one corrupt record never blocks a nightly run.
type RecalculationServiceImpl struct {
	attendance.AttendanceRepository
	attendance.AttendanceLogRepository
	shift.ShiftRepository
	employee.EmployeeRepository
	holiday.HolidayRepository
	calculator *Calculator
	registry   *registry.Registry
	location   *time.Location
	now        func() time.Time
}

func NewRecalculationService(
	attendanceRepo attendance.AttendanceRepository,
	logRepo attendance.AttendanceLogRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	calculator *Calculator,
	reg *registry.Registry,
	location *time.Location,
) *RecalculationServiceImpl {
	return &RecalculationServiceImpl{
		AttendanceRepository:    attendanceRepo,
		AttendanceLogRepository: logRepo,
		ShiftRepository:         shiftRepo,
		EmployeeRepository:      employeeRepo,
		HolidayRepository:       holidayRepo,
		calculator:              calculator,
		registry:                reg,
		location:                location,
		now:                     time.Now,
	}
}

// Recalculate implements attendance.RecalculationService.
func (s *RecalculationServiceImpl) Recalculate(ctx context.Context, companyID string, start, end time.Time) (attendance.RecalculationStats, error) {
	stats := attendance.RecalculationStats{
		PerDate: make(map[string]int),
	}

	if end.Before(start) {
		return stats, fmt.Errorf("invalid range: end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return stats, fmt.Errorf("failed to get active employees: %w", err)
	}

	holidays, err := s.HolidayRepository.ListInRange(ctx, companyID, start, end)
	if err != nil {
		return stats, fmt.Errorf("failed to list holidays: %w", err)
	}

	for date := workingDay(start, s.location); !date.After(end); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format("2006-01-02")
		stats.Dates = append(stats.Dates, dateStr)

		records, err := s.AttendanceRepository.GetByDate(ctx, date, companyID)
		if err != nil {
			stats.Errors++
			stats.RowErrors = append(stats.RowErrors, attendance.RowError{
				Date:    dateStr,
				Message: fmt.Sprintf("failed to load day: %v", err),
			})
			continue
		}

		processed := s.recalculateDay(ctx, records, date, &stats)
		absents := s.synthesizeAbsences(ctx, companyID, date, records, employees, holidays, &stats)

		stats.PerDate[dateStr] = processed + absents
	}

	slog.Info("recalculation finished",
		slog.String("company_id", companyID),
		slog.String("start", start.Format("2006-01-02")),
		slog.String("end", end.Format("2006-01-02")),
		slog.Int("processed", stats.Processed),
		slog.Int("absents_created", stats.AbsentsCreated),
		slog.Int("errors", stats.Errors),
	)

	return stats, nil
}

// recalculateDay rebuilds hour buckets for every existing record on one day.
// Calendar-assigned statuses (leave, holiday, weekend) are left untouched.
func (s *RecalculationServiceImpl) recalculateDay(ctx context.Context, records []attendance.Attendance, date time.Time, stats *attendance.RecalculationStats) int {
	processed := 0
	for _, record := range records {
		if record.Status.IsTerminalDayType() {
			continue
		}

		if err := s.recalculateOne(ctx, record); err != nil {
			stats.Errors++
			stats.RowErrors = append(stats.RowErrors, attendance.RowError{
				EmployeeID: record.EmployeeID,
				Date:       date.Format("2006-01-02"),
				Message:    err.Error(),
			})
			continue
		}

		processed++
		stats.Processed++
	}

	return processed
}

func (s *RecalculationServiceImpl) recalculateOne(ctx context.Context, record attendance.Attendance) error {
	logs, err := s.AttendanceLogRepository.ListByAttendance(ctx, record.ID, record.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}

	result := s.calculator.Calculate(CalculationInput{
		Record:   record,
		Logs:     logs,
		Shift:    s.shiftFor(ctx, record),
		Breaks:   s.breaksFor(ctx, record.ID, record.CompanyID),
		Location: s.location,
		Now:      s.now().In(s.location),
	})

	if _, err := s.AttendanceRepository.UpdateWithVersion(ctx, s.calculator.Apply(record, result)); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	return nil
}

// synthesizeAbsences backfills absent records for employees who have no
// record on a working day. Weekends and applicable holidays are skipped.
func (s *RecalculationServiceImpl) synthesizeAbsences(ctx context.Context, companyID string, date time.Time, records []attendance.Attendance, employees []employee.Employee, holidays []holiday.Holiday, stats *attendance.RecalculationStats) int {
	if isWeekend(date) {
		return 0
	}

	hasRecord := make(map[string]bool, len(records))
	for _, record := range records {
		hasRecord[record.EmployeeID] = true
	}

	var absences []attendance.Attendance
	for _, emp := range employees {
		if hasRecord[emp.ID] {
			continue
		}
		if !employedOn(emp, date) {
			continue
		}
		if holidayApplies(holidays, emp, date) {
			continue
		}

		absences = append(absences, attendance.Attendance{
			ID:         uuid.NewString(),
			EmployeeID: emp.ID,
			CompanyID:  companyID,
			Date:       date,
			ShiftID:    emp.ShiftID,
			Status:     attendance.StatusAbsent,
		})
	}

	if len(absences) == 0 {
		return 0
	}

	if err := s.AttendanceRepository.BulkCreateAbsences(ctx, absences); err != nil {
		stats.Errors++
		stats.RowErrors = append(stats.RowErrors, attendance.RowError{
			Date:    date.Format("2006-01-02"),
			Message: fmt.Sprintf("failed to create absences: %v", err),
		})
		return 0
	}

	stats.AbsentsCreated += len(absences)
	return len(absences)
}

func (s *RecalculationServiceImpl) shiftFor(ctx context.Context, record attendance.Attendance) *shift.Shift {
	if record.ShiftID == nil {
		return nil
	}
	sh, err := s.ShiftRepository.GetByID(ctx, *record.ShiftID, record.CompanyID)
	if err != nil {
		return nil
	}
	return &sh
}

func (s *RecalculationServiceImpl) breaksFor(ctx context.Context, attendanceID, companyID string) []attendance.BreakInterval {
	return BreaksFromRegistry(ctx, s.registry, attendanceID, companyID)
}

// employedOn reports whether the employee was on the payroll on the given day.
func employedOn(emp employee.Employee, date time.Time) bool {
	if emp.JoinDate != nil && date.Before(workingDay(*emp.JoinDate, date.Location())) {
		return false
	}
	if emp.ExitDate != nil && date.After(workingDay(*emp.ExitDate, date.Location())) {
		return false
	}
	return true
}

func holidayApplies(holidays []holiday.Holiday, emp employee.Employee, date time.Time) bool {
	for _, h := range holidays {
		if h.OccursOn(date) && h.AppliesTo(emp) {
			return true
		}
	}
	return false
}
