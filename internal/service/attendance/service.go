package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opencore-hr/attendance-backend-go/internal/config"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
	"github.com/opencore-hr/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	attendance.AttendanceLogRepository
	shift.ShiftRepository
	employee.EmployeeRepository
	calculator *Calculator
	registry   *registry.Registry
	cfg        config.AttendanceConfig
	location   *time.Location
	now        func() time.Time
	runTx      func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	logRepo attendance.AttendanceLogRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	calculator *Calculator,
	reg *registry.Registry,
	cfg config.AttendanceConfig,
	location *time.Location,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		db:                      db,
		AttendanceRepository:    attendanceRepo,
		AttendanceLogRepository: logRepo,
		ShiftRepository:         shiftRepo,
		EmployeeRepository:      employeeRepo,
		calculator:              calculator,
		registry:                reg,
		cfg:                     cfg,
		location:                location,
		now:                     time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return attendance.Response{}, err
	}

	now := s.now().In(s.location)
	today := workingDay(now, s.location)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today, actor.CompanyID)
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing != nil {
		switch {
		case existing.Status == attendance.StatusCheckedIn:
			return attendance.Response{}, attendance.ErrAlreadyCheckedIn
		case existing.Status == attendance.StatusCheckedOut && !s.cfg.AllowMultipleCheckIn:
			return attendance.Response{}, attendance.ErrAlreadyCheckedIn
		}
	}

	var record attendance.Attendance

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if existing == nil {
			created, err := s.AttendanceRepository.Create(txCtx, attendance.Attendance{
				ID:         uuid.NewString(),
				EmployeeID: emp.ID,
				CompanyID:  actor.CompanyID,
				Date:       today,
				ShiftID:    emp.ShiftID,
				Status:     attendance.StatusCheckedIn,
				IsWeekend:  isWeekend(today),
			})
			if err != nil {
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			existing = &created
		}

		if _, err := s.AttendanceLogRepository.Append(txCtx, attendance.AttendanceLog{
			ID:           uuid.NewString(),
			AttendanceID: existing.ID,
			EmployeeID:   emp.ID,
			CompanyID:    actor.CompanyID,
			Type:         attendance.LogCheckIn,
			LoggedAt:     now,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
		}); err != nil {
			return fmt.Errorf("failed to append check-in log: %w", err)
		}

		record, err = s.recalculateRecord(txCtx, *existing)
		return err
	})
	if err != nil {
		return attendance.Response{}, err
	}

	slog.Info("employee checked in",
		slog.String("employee_id", emp.ID),
		slog.String("attendance_id", record.ID),
		slog.String("date", today.Format("2006-01-02")),
	)

	return attendance.NewResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return attendance.Response{}, err
	}

	now := s.now().In(s.location)
	today := workingDay(now, s.location)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today, actor.CompanyID)
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil {
		return attendance.Response{}, attendance.ErrNotCheckedIn
	}

	switch existing.Status {
	case attendance.StatusCheckedIn:
		// ok
	case attendance.StatusCheckedOut:
		return attendance.Response{}, attendance.ErrAlreadyCheckedOut
	default:
		return attendance.Response{}, attendance.ErrNotCheckedIn
	}

	var record attendance.Attendance

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if _, err := s.AttendanceLogRepository.Append(txCtx, attendance.AttendanceLog{
			ID:           uuid.NewString(),
			AttendanceID: existing.ID,
			EmployeeID:   emp.ID,
			CompanyID:    actor.CompanyID,
			Type:         attendance.LogCheckOut,
			LoggedAt:     now,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
		}); err != nil {
			return fmt.Errorf("failed to append check-out log: %w", err)
		}

		record, err = s.recalculateRecord(txCtx, *existing)
		return err
	})
	if err != nil {
		return attendance.Response{}, err
	}

	slog.Info("employee checked out",
		slog.String("employee_id", emp.ID),
		slog.String("attendance_id", record.ID),
		slog.Float64("working_hours", record.WorkingHours),
	)

	return attendance.NewResponse(record), nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Response{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Response{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if !actor.IsAdmin() {
		emp, err := s.resolveEmployee(ctx, actor)
		if err != nil {
			return attendance.Response{}, err
		}
		if record.EmployeeID != emp.ID {
			return attendance.Response{}, attendance.ErrUnauthorized
		}
	}

	return attendance.NewResponse(record), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Response, int64, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Non-admin callers only ever see their own records.
	if !actor.IsAdmin() {
		emp, err := s.resolveEmployee(ctx, actor)
		if err != nil {
			return nil, 0, err
		}
		filter.EmployeeID = emp.ID
	}

	filter.Normalize()

	records, total, err := s.AttendanceRepository.List(ctx, filter, actor.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.Response, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.NewResponse(record))
	}

	return responses, total, nil
}

// Update implements attendance.AttendanceService. Corrected punch times
// become the authoritative pair for the day and the hour buckets are
// rebuilt from them.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}
	if !actor.IsAdmin() {
		return attendance.Response{}, attendance.ErrUnauthorized
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Response{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Response{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	checkIn := record.CheckIn
	checkOut := record.CheckOut
	if req.CheckIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckIn)
		t = t.In(s.location)
		checkIn = &t
	}
	if req.CheckOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckOut)
		t = t.In(s.location)
		checkOut = &t
	}

	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.Response{}, attendance.ErrCheckOutBeforeIn
	}

	if req.Notes != nil {
		record.Notes = req.Notes
	}

	var updated attendance.Attendance
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		updated, err = s.applyCorrectedTimes(txCtx, record, checkIn, checkOut)
		return err
	})
	if err != nil {
		return attendance.Response{}, err
	}

	slog.Info("attendance corrected",
		slog.String("attendance_id", updated.ID),
		slog.String("corrected_by", actor.UserID),
	)

	return attendance.NewResponse(updated), nil
}

// ApproveOvertime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveOvertime(ctx context.Context, id string) (attendance.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}
	if !actor.IsAdmin() {
		return attendance.Response{}, attendance.ErrUnauthorized
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Response{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Response{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if record.ApprovedBy != nil {
		return attendance.Response{}, attendance.ErrAlreadyProcessed
	}
	if record.Status != attendance.StatusCheckedOut {
		return attendance.Response{}, attendance.ErrNotCheckedIn
	}

	approvedAt := s.now().In(s.location)
	if err := s.AttendanceRepository.ApproveOvertime(ctx, id, actor.UserID, actor.CompanyID, approvedAt); err != nil {
		return attendance.Response{}, fmt.Errorf("failed to approve overtime: %w", err)
	}

	record.ApprovedBy = &actor.UserID
	record.ApprovedAt = &approvedAt

	return attendance.NewResponse(record), nil
}

// recalculateRecord rebuilds the hour buckets from the day's punch logs and
// persists them with a compare-and-swap on the record version.
func (s *AttendanceServiceImpl) recalculateRecord(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	logs, err := s.AttendanceLogRepository.ListByAttendance(ctx, record.ID, record.CompanyID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to list attendance logs: %w", err)
	}

	result := s.calculator.Calculate(CalculationInput{
		Record:   record,
		Logs:     logs,
		Shift:    s.shiftFor(ctx, record),
		Breaks:   s.breaksFor(ctx, record.ID, record.CompanyID),
		Location: s.location,
		Now:      s.now().In(s.location),
	})

	updated, err := s.AttendanceRepository.UpdateWithVersion(ctx, s.calculator.Apply(record, result))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return updated, nil
}

// applyCorrectedTimes rewrites the day's punch logs with the corrected pair
// and recalculates the record from them. The logs must be rewritten, not just
// the record: any later recalculation re-derives hours from the stored logs
// and would otherwise revert the correction.
func (s *AttendanceServiceImpl) applyCorrectedTimes(ctx context.Context, record attendance.Attendance, checkIn, checkOut *time.Time) (attendance.Attendance, error) {
	var logs []attendance.AttendanceLog
	if checkIn != nil {
		logs = append(logs, correctedLog(record, attendance.LogCheckIn, *checkIn))
	}
	if checkOut != nil {
		logs = append(logs, correctedLog(record, attendance.LogCheckOut, *checkOut))
	}

	if err := s.AttendanceLogRepository.ReplaceForAttendance(ctx, record.ID, record.CompanyID, logs); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to rewrite attendance logs: %w", err)
	}

	result := s.calculator.Calculate(CalculationInput{
		Record:   record,
		Logs:     logs,
		Shift:    s.shiftFor(ctx, record),
		Breaks:   s.breaksFor(ctx, record.ID, record.CompanyID),
		Location: s.location,
		Now:      s.now().In(s.location),
	})

	updated, err := s.AttendanceRepository.UpdateWithVersion(ctx, s.calculator.Apply(record, result))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return updated, nil
}

func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, actor auth.Actor) (employee.Employee, error) {
	if actor.EmployeeID != "" {
		emp, err := s.EmployeeRepository.GetByID(ctx, actor.EmployeeID, actor.CompanyID)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
		}
		return emp, nil
	}

	emp, err := s.EmployeeRepository.GetByUserID(ctx, actor.UserID, actor.CompanyID)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) shiftFor(ctx context.Context, record attendance.Attendance) *shift.Shift {
	if record.ShiftID == nil {
		return nil
	}
	sh, err := s.ShiftRepository.GetByID(ctx, *record.ShiftID, record.CompanyID)
	if err != nil {
		slog.Warn("shift lookup failed, shift-relative hours left at zero",
			slog.String("shift_id", *record.ShiftID),
			slog.Any("error", err),
		)
		return nil
	}
	return &sh
}

// breaksFor resolves break intervals through the capability registry.
// Without the break capability every day has zero break hours.
func (s *AttendanceServiceImpl) breaksFor(ctx context.Context, attendanceID, companyID string) []attendance.BreakInterval {
	return BreaksFromRegistry(ctx, s.registry, attendanceID, companyID)
}

func correctedLog(record attendance.Attendance, logType attendance.LogType, at time.Time) attendance.AttendanceLog {
	return attendance.AttendanceLog{
		ID:           uuid.NewString(),
		AttendanceID: record.ID,
		EmployeeID:   record.EmployeeID,
		CompanyID:    record.CompanyID,
		Type:         logType,
		LoggedAt:     at,
	}
}

func workingDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func isWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}
