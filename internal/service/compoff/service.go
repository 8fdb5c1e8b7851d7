package compoff

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
	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
	"github.com/opencore-hr/attendance-backend-go/internal/repository/postgresql"
)

type CompOffServiceImpl struct {
	db *database.DB
	compoff.CompOffRepository
	employee.EmployeeRepository
	cfg      config.AttendanceConfig
	location *time.Location
	now      func() time.Time
	runTx    func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewCompOffService(
	db *database.DB,
	compOffRepo compoff.CompOffRepository,
	employeeRepo employee.EmployeeRepository,
	cfg config.AttendanceConfig,
	location *time.Location,
) compoff.CompOffService {
	s := &CompOffServiceImpl{
		db:                 db,
		CompOffRepository:  compOffRepo,
		EmployeeRepository: employeeRepo,
		cfg:                cfg,
		location:           location,
		now:                time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

// Create implements compoff.CompOffService. The credit size is derived from
// hours worked: a full day at or above the configured threshold, half a day
// below it.
func (s *CompOffServiceImpl) Create(ctx context.Context, req compoff.CreateRequest) (compoff.Response, error) {
	if err := req.Validate(); err != nil {
		return compoff.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Response{}, err
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return compoff.Response{}, err
	}

	workedDate, _ := time.ParseInLocation("2006-01-02", req.WorkedDate, s.location)

	exists, err := s.CompOffRepository.ExistsOpenForDate(ctx, emp.ID, workedDate, actor.CompanyID)
	if err != nil {
		return compoff.Response{}, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if exists {
		return compoff.Response{}, compoff.ErrDuplicateDate
	}

	created, err := s.CompOffRepository.Create(ctx, compoff.CompensatoryOff{
		ID:          uuid.NewString(),
		EmployeeID:  emp.ID,
		CompanyID:   actor.CompanyID,
		WorkedDate:  workedDate,
		HoursWorked: req.HoursWorked,
		CompOffDays: s.creditDays(req.HoursWorked),
		Reason:      req.Reason,
		Status:      compoff.StatusPending,
	})
	if err != nil {
		return compoff.Response{}, fmt.Errorf("failed to create comp off request: %w", err)
	}

	slog.Info("comp off requested",
		slog.String("comp_off_id", created.ID),
		slog.String("employee_id", emp.ID),
		slog.Float64("days", created.CompOffDays),
	)

	return compoff.NewResponse(created), nil
}

// Get implements compoff.CompOffService.
func (s *CompOffServiceImpl) Get(ctx context.Context, id string) (compoff.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Response{}, err
	}

	credit, err := s.getOwned(ctx, id, actor, false)
	if err != nil {
		return compoff.Response{}, err
	}

	return compoff.NewResponse(credit), nil
}

// List implements compoff.CompOffService.
func (s *CompOffServiceImpl) List(ctx context.Context, filter compoff.Filter) ([]compoff.Response, int64, error) {
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

	credits, total, err := s.CompOffRepository.List(ctx, filter, actor.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comp off requests: %w", err)
	}

	responses := make([]compoff.Response, 0, len(credits))
	for _, credit := range credits {
		responses = append(responses, compoff.NewResponse(credit))
	}

	return responses, total, nil
}

// Update implements compoff.CompOffService. Owner-only and pending-only.
func (s *CompOffServiceImpl) Update(ctx context.Context, req compoff.UpdateRequest) (compoff.Response, error) {
	if err := req.Validate(); err != nil {
		return compoff.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Response{}, err
	}

	credit, err := s.getOwned(ctx, req.ID, actor, true)
	if err != nil {
		return compoff.Response{}, err
	}
	if credit.Status.IsTerminal() {
		return compoff.Response{}, compoff.ErrAlreadyProcessed
	}

	if req.WorkedDate != nil {
		workedDate, _ := time.ParseInLocation("2006-01-02", *req.WorkedDate, s.location)
		if !workedDate.Equal(credit.WorkedDate) {
			exists, err := s.CompOffRepository.ExistsOpenForDate(ctx, credit.EmployeeID, workedDate, actor.CompanyID)
			if err != nil {
				return compoff.Response{}, fmt.Errorf("failed to check existing requests: %w", err)
			}
			if exists {
				return compoff.Response{}, compoff.ErrDuplicateDate
			}
			credit.WorkedDate = workedDate
		}
	}
	if req.HoursWorked != nil {
		credit.HoursWorked = *req.HoursWorked
		credit.CompOffDays = s.creditDays(*req.HoursWorked)
	}
	if req.Reason != nil {
		credit.Reason = *req.Reason
	}

	if err := s.CompOffRepository.Update(ctx, credit); err != nil {
		return compoff.Response{}, fmt.Errorf("failed to update comp off request: %w", err)
	}

	return compoff.NewResponse(credit), nil
}

// Delete implements compoff.CompOffService.
func (s *CompOffServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	credit, err := s.getOwned(ctx, id, actor, true)
	if err != nil {
		return err
	}
	if credit.Status.IsTerminal() {
		return compoff.ErrAlreadyProcessed
	}

	if err := s.CompOffRepository.Delete(ctx, id, actor.CompanyID); err != nil {
		return fmt.Errorf("failed to delete comp off request: %w", err)
	}

	return nil
}

// Approve implements compoff.CompOffService. Approval stamps the expiry date
// from the worked date plus the configured validity window.
func (s *CompOffServiceImpl) Approve(ctx context.Context, id string) (compoff.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Response{}, err
	}
	if !actor.IsAdmin() {
		return compoff.Response{}, attendance.ErrUnauthorized
	}

	credit, err := s.CompOffRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compoff.Response{}, compoff.ErrNotFound
		}
		return compoff.Response{}, fmt.Errorf("failed to get comp off request: %w", err)
	}

	if credit.Status.IsTerminal() {
		return compoff.Response{}, compoff.ErrAlreadyProcessed
	}

	now := s.now().In(s.location)
	expiry := credit.WorkedDate.AddDate(0, s.cfg.CompOffValidityMonths, 0)

	credit.Status = compoff.StatusApproved
	credit.ApprovedBy = &actor.UserID
	credit.ApprovedAt = &now
	credit.ExpiryDate = &expiry

	if err := s.CompOffRepository.Update(ctx, credit); err != nil {
		return compoff.Response{}, fmt.Errorf("failed to update comp off request: %w", err)
	}

	slog.Info("comp off approved",
		slog.String("comp_off_id", credit.ID),
		slog.String("approved_by", actor.UserID),
		slog.String("expiry_date", expiry.Format("2006-01-02")),
	)

	return compoff.NewResponse(credit), nil
}

// Reject implements compoff.CompOffService.
func (s *CompOffServiceImpl) Reject(ctx context.Context, req compoff.RejectRequest) (compoff.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Response{}, err
	}
	if !actor.IsAdmin() {
		return compoff.Response{}, attendance.ErrUnauthorized
	}

	credit, err := s.CompOffRepository.GetByID(ctx, req.ID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compoff.Response{}, compoff.ErrNotFound
		}
		return compoff.Response{}, fmt.Errorf("failed to get comp off request: %w", err)
	}

	if credit.Status.IsTerminal() {
		return compoff.Response{}, compoff.ErrAlreadyProcessed
	}

	now := s.now().In(s.location)
	credit.Status = compoff.StatusRejected
	credit.ApprovedBy = &actor.UserID
	credit.ApprovedAt = &now
	if req.Reason != "" {
		credit.RejectionReason = &req.Reason
	}

	if err := s.CompOffRepository.Update(ctx, credit); err != nil {
		return compoff.Response{}, fmt.Errorf("failed to update comp off request: %w", err)
	}

	return compoff.NewResponse(credit), nil
}

// Consume implements compoff.CompOffService. Oldest credits go first; a
// half-day credit cannot cover a full-day request on its own, so consumption
// walks the FIFO list until the requested days are covered.
func (s *CompOffServiceImpl) Consume(ctx context.Context, days float64) ([]compoff.Response, error) {
	if days != 0.5 && days != 1 && days != 1.5 && days != 2 {
		return nil, fmt.Errorf("days must be 0.5, 1, 1.5 or 2, got %v", days)
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)

	var consumed []compoff.Response

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		credits, err := s.CompOffRepository.ListConsumable(txCtx, emp.ID, actor.CompanyID, now)
		if err != nil {
			return fmt.Errorf("failed to list consumable credits: %w", err)
		}

		remaining := days
		for _, credit := range credits {
			if remaining <= 0 {
				break
			}

			credit.IsUsed = true
			credit.UsedAt = &now
			if err := s.CompOffRepository.Update(txCtx, credit); err != nil {
				return fmt.Errorf("failed to mark credit used: %w", err)
			}

			remaining -= credit.CompOffDays
			consumed = append(consumed, compoff.NewResponse(credit))
		}

		if remaining > 0 {
			return compoff.ErrNoAvailableCredit
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("comp off consumed",
		slog.String("employee_id", emp.ID),
		slog.Float64("days", days),
		slog.Int("credits_used", len(consumed)),
	)

	return consumed, nil
}

// GetBalance implements compoff.CompOffService. Non-admins may only read
// their own balance.
func (s *CompOffServiceImpl) GetBalance(ctx context.Context, employeeID string) (compoff.Balance, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return compoff.Balance{}, err
	}

	if !actor.IsAdmin() {
		emp, err := s.resolveEmployee(ctx, actor)
		if err != nil {
			return compoff.Balance{}, err
		}
		if employeeID != "" && employeeID != emp.ID {
			return compoff.Balance{}, attendance.ErrUnauthorized
		}
		employeeID = emp.ID
	}

	balance, err := s.CompOffRepository.GetBalance(ctx, employeeID, actor.CompanyID, s.now().In(s.location))
	if err != nil {
		return compoff.Balance{}, fmt.Errorf("failed to get comp off balance: %w", err)
	}

	return balance, nil
}

// ExpireOutstanding implements compoff.CompOffService. Expiry is derived
// from the stored expiry date; the sweep surfaces lapsed credits in the logs
// so admins notice silently vanishing balances.
func (s *CompOffServiceImpl) ExpireOutstanding(ctx context.Context, companyID string, asOf time.Time) (int, error) {
	lapsed, err := s.CompOffRepository.ListExpirable(ctx, companyID, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable credits: %w", err)
	}

	for _, credit := range lapsed {
		slog.Info("comp off credit expired",
			slog.String("comp_off_id", credit.ID),
			slog.String("employee_id", credit.EmployeeID),
			slog.String("expiry_date", credit.ExpiryDate.Format("2006-01-02")),
		)
	}

	return len(lapsed), nil
}

// creditDays maps hours worked onto a credit size.
func (s *CompOffServiceImpl) creditDays(hoursWorked float64) float64 {
	if hoursWorked >= s.cfg.FullDayCompOffHours {
		return 1
	}
	return 0.5
}

func (s *CompOffServiceImpl) getOwned(ctx context.Context, id string, actor auth.Actor, ownerOnly bool) (compoff.CompensatoryOff, error) {
	credit, err := s.CompOffRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compoff.CompensatoryOff{}, compoff.ErrNotFound
		}
		return compoff.CompensatoryOff{}, fmt.Errorf("failed to get comp off request: %w", err)
	}

	if !ownerOnly && actor.IsAdmin() {
		return credit, nil
	}

	emp, err := s.resolveEmployee(ctx, actor)
	if err != nil {
		return compoff.CompensatoryOff{}, err
	}
	if credit.EmployeeID != emp.ID {
		return compoff.CompensatoryOff{}, compoff.ErrNotOwner
	}

	return credit, nil
}

func (s *CompOffServiceImpl) resolveEmployee(ctx context.Context, actor auth.Actor) (employee.Employee, error) {
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
