package regularization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/regularization"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
	"github.com/opencore-hr/attendance-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/opencore-hr/attendance-backend-go/internal/service/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/service/file"
)

type RegularizationServiceImpl struct {
	db *database.DB
	regularization.RegularizationRepository
	attendance.AttendanceRepository
	attendance.AttendanceLogRepository
	shift.ShiftRepository
	employee.EmployeeRepository
	fileService file.FileService
	calculator  *attendancesvc.Calculator
	registry    *registry.Registry
	location    *time.Location
	now         func() time.Time
	runTx       func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewRegularizationService(
	db *database.DB,
	regularizationRepo regularization.RegularizationRepository,
	attendanceRepo attendance.AttendanceRepository,
	logRepo attendance.AttendanceLogRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	calculator *attendancesvc.Calculator,
	reg *registry.Registry,
	location *time.Location,
) regularization.RegularizationService {
	s := &RegularizationServiceImpl{
		db:                       db,
		RegularizationRepository: regularizationRepo,
		AttendanceRepository:     attendanceRepo,
		AttendanceLogRepository:  logRepo,
		ShiftRepository:          shiftRepo,
		EmployeeRepository:       employeeRepo,
		fileService:              fileService,
		calculator:               calculator,
		registry:                 reg,
		location:                 location,
		now:                      time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

// Create implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Create(ctx context.Context, req regularization.CreateRequest) (regularization.Response, error) {
	if err := req.Validate(); err != nil {
		return regularization.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return regularization.Response{}, err
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.location)
	checkIn, _ := time.Parse(time.RFC3339, req.RequestedCheckIn)
	checkOut, _ := time.Parse(time.RFC3339, req.RequestedCheckOut)

	// One open request per employee-day.
	exists, err := s.RegularizationRepository.ExistsOpenForDate(ctx, emp.ID, date, actor.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if exists {
		return regularization.Response{}, regularization.ErrDuplicateDate
	}

	request := regularization.Regularization{
		ID:                uuid.NewString(),
		EmployeeID:        emp.ID,
		CompanyID:         actor.CompanyID,
		Date:              date,
		RequestedCheckIn:  checkIn.In(s.location),
		RequestedCheckOut: checkOut.In(s.location),
		Reason:            req.Reason,
		Status:            regularization.StatusPending,
	}

	// Link the existing attendance record and snapshot its punches so the
	// approver sees actual vs requested side by side.
	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, actor.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to get attendance for date: %w", err)
	}
	if record != nil {
		request.AttendanceID = &record.ID
		request.ActualCheckIn = record.CheckIn
		request.ActualCheckOut = record.CheckOut
	}

	for i, f := range req.Files {
		header := req.FileHeaders[i]
		path, err := s.fileService.UploadRequestAttachment(ctx, emp.ID, "regularization", f, header.Filename)
		if err != nil {
			return regularization.Response{}, fmt.Errorf("failed to upload attachment: %w", err)
		}
		request.Attachments = append(request.Attachments, regularization.Attachment{
			Path: path,
			Name: header.Filename,
		})
	}

	created, err := s.RegularizationRepository.Create(ctx, request)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	slog.Info("regularization requested",
		slog.String("request_id", created.ID),
		slog.String("employee_id", emp.ID),
		slog.String("date", req.Date),
	)

	return regularization.NewResponse(created), nil
}

// Get implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Get(ctx context.Context, id string) (regularization.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}

	request, err := s.getOwned(ctx, id, actor, false)
	if err != nil {
		return regularization.Response{}, err
	}

	return regularization.NewResponse(request), nil
}

// List implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) List(ctx context.Context, filter regularization.Filter) ([]regularization.Response, int64, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	if !actor.IsAdmin() {
		emp, err := s.resolveEmployee(ctx, actor)
		if err != nil {
			return nil, 0, err
		}
		filter.EmployeeID = emp.ID
	}

	filter.Normalize()

	requests, total, err := s.RegularizationRepository.List(ctx, filter, actor.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regularization requests: %w", err)
	}

	responses := make([]regularization.Response, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, regularization.NewResponse(request))
	}

	return responses, total, nil
}

// Update implements regularization.RegularizationService. Only the owner may
// edit, and only while the request is still pending.
func (s *RegularizationServiceImpl) Update(ctx context.Context, req regularization.UpdateRequest) (regularization.Response, error) {
	if err := req.Validate(); err != nil {
		return regularization.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}

	request, err := s.getOwned(ctx, req.ID, actor, true)
	if err != nil {
		return regularization.Response{}, err
	}
	if request.Status.IsTerminal() {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	if req.RequestedCheckIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckIn)
		request.RequestedCheckIn = t.In(s.location)
	}
	if req.RequestedCheckOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckOut)
		request.RequestedCheckOut = t.In(s.location)
	}
	if !request.RequestedCheckOut.After(request.RequestedCheckIn) {
		return regularization.Response{}, attendance.ErrCheckOutBeforeIn
	}
	if req.Reason != nil {
		request.Reason = *req.Reason
	}

	if err := s.RegularizationRepository.Update(ctx, request); err != nil {
		return regularization.Response{}, fmt.Errorf("failed to update regularization request: %w", err)
	}

	return regularization.NewResponse(request), nil
}

// Delete implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	request, err := s.getOwned(ctx, id, actor, true)
	if err != nil {
		return err
	}
	if request.Status.IsTerminal() {
		return regularization.ErrAlreadyProcessed
	}

	for _, attachment := range request.Attachments {
		if err := s.fileService.DeleteFile(ctx, attachment.Path); err != nil {
			slog.Warn("failed to delete attachment",
				slog.String("path", attachment.Path),
				slog.Any("error", err),
			)
		}
	}

	if err := s.RegularizationRepository.Delete(ctx, id, actor.CompanyID); err != nil {
		return fmt.Errorf("failed to delete regularization request: %w", err)
	}

	return nil
}

// Approve implements regularization.RegularizationService. The requested
// punch pair becomes the day's authoritative times: the attendance record is
// overwritten and its hour buckets rebuilt inside one transaction.
func (s *RegularizationServiceImpl) Approve(ctx context.Context, id string, comments *string) (regularization.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}
	if !actor.IsAdmin() {
		return regularization.Response{}, attendance.ErrUnauthorized
	}

	request, err := s.RegularizationRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Response{}, regularization.ErrNotFound
		}
		return regularization.Response{}, fmt.Errorf("failed to get regularization request: %w", err)
	}

	if request.Status.IsTerminal() {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	now := s.now().In(s.location)

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		record, err := s.reconcileAttendance(txCtx, request)
		if err != nil {
			return err
		}
		request.AttendanceID = &record.ID

		request.Status = regularization.StatusApproved
		request.ApprovedBy = &actor.UserID
		request.ApprovedAt = &now
		if comments != nil {
			request.ManagerComments = comments
		}

		if err := s.RegularizationRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update regularization request: %w", err)
		}

		return nil
	})
	if err != nil {
		return regularization.Response{}, err
	}

	slog.Info("regularization approved",
		slog.String("request_id", request.ID),
		slog.String("approved_by", actor.UserID),
	)

	return regularization.NewResponse(request), nil
}

// Reject implements regularization.RegularizationService. Rejection never
// touches the attendance record.
func (s *RegularizationServiceImpl) Reject(ctx context.Context, req regularization.RejectRequest) (regularization.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}
	if !actor.IsAdmin() {
		return regularization.Response{}, attendance.ErrUnauthorized
	}

	request, err := s.RegularizationRepository.GetByID(ctx, req.ID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Response{}, regularization.ErrNotFound
		}
		return regularization.Response{}, fmt.Errorf("failed to get regularization request: %w", err)
	}

	if request.Status.IsTerminal() {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	now := s.now().In(s.location)
	request.Status = regularization.StatusRejected
	request.ApprovedBy = &actor.UserID
	request.ApprovedAt = &now
	if req.Comments != "" {
		request.ManagerComments = &req.Comments
	}

	if err := s.RegularizationRepository.Update(ctx, request); err != nil {
		return regularization.Response{}, fmt.Errorf("failed to update regularization request: %w", err)
	}

	return regularization.NewResponse(request), nil
}

// reconcileAttendance makes the requested punch pair the day's authoritative
// times, creating the record first when the employee never punched that day.
// The stored punch logs are rewritten alongside the record so a later
// recalculation reproduces the approved times instead of reverting them.
func (s *RegularizationServiceImpl) reconcileAttendance(ctx context.Context, request regularization.Regularization) (attendance.Attendance, error) {
	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, request.EmployeeID, request.Date, request.CompanyID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for date: %w", err)
	}

	if record == nil {
		emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID, request.CompanyID)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to get employee: %w", err)
		}

		created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			ID:         uuid.NewString(),
			EmployeeID: request.EmployeeID,
			CompanyID:  request.CompanyID,
			Date:       request.Date,
			ShiftID:    emp.ShiftID,
			Status:     attendance.StatusCheckedIn,
			IsWeekend:  request.Date.Weekday() == time.Saturday || request.Date.Weekday() == time.Sunday,
		})
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
		}
		record = &created
	}

	logs := []attendance.AttendanceLog{
		{
			ID:           uuid.NewString(),
			AttendanceID: record.ID,
			EmployeeID:   record.EmployeeID,
			CompanyID:    record.CompanyID,
			Type:         attendance.LogCheckIn,
			LoggedAt:     request.RequestedCheckIn,
		},
		{
			ID:           uuid.NewString(),
			AttendanceID: record.ID,
			EmployeeID:   record.EmployeeID,
			CompanyID:    record.CompanyID,
			Type:         attendance.LogCheckOut,
			LoggedAt:     request.RequestedCheckOut,
		},
	}

	if err := s.AttendanceLogRepository.ReplaceForAttendance(ctx, record.ID, record.CompanyID, logs); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to rewrite attendance logs: %w", err)
	}

	result := s.calculator.Calculate(attendancesvc.CalculationInput{
		Record:   *record,
		Logs:     logs,
		Shift:    s.shiftFor(ctx, *record),
		Breaks:   attendancesvc.BreaksFromRegistry(ctx, s.registry, record.ID, record.CompanyID),
		Location: s.location,
		Now:      s.now().In(s.location),
	})

	updated, err := s.AttendanceRepository.UpdateWithVersion(ctx, s.calculator.Apply(*record, result))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return updated, nil
}

// getOwned fetches a request, enforcing ownership. Admins bypass the check
// unless ownerOnly is set (edits and deletes stay owner-only).
func (s *RegularizationServiceImpl) getOwned(ctx context.Context, id string, actor auth.Actor, ownerOnly bool) (regularization.Regularization, error) {
	request, err := s.RegularizationRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to get regularization request: %w", err)
	}

	if !ownerOnly && actor.IsAdmin() {
		return request, nil
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return regularization.Regularization{}, err
	}
	if request.EmployeeID != emp.ID {
		return regularization.Regularization{}, regularization.ErrNotOwner
	}

	return request, nil
}

func (s *RegularizationServiceImpl) resolveEmployee(ctx context.Context, actor auth.Actor) (employee.Employee, error) {
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

func (s *RegularizationServiceImpl) shiftFor(ctx context.Context, record attendance.Attendance) *shift.Shift {
	if record.ShiftID == nil {
		return nil
	}
	sh, err := s.ShiftRepository.GetByID(ctx, *record.ShiftID, record.CompanyID)
	if err != nil {
		return nil
	}
	return &sh
}
