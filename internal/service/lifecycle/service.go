package lifecycle

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
	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
)

type LifecycleServiceImpl struct {
	lifecycle.EventRepository
	employee.EmployeeRepository
	location *time.Location
	now      func() time.Time
}

func NewLifecycleService(
	eventRepo lifecycle.EventRepository,
	employeeRepo employee.EmployeeRepository,
	location *time.Location,
) lifecycle.LifecycleService {
	return &LifecycleServiceImpl{
		EventRepository:    eventRepo,
		EmployeeRepository: employeeRepo,
		location:           location,
		now:                time.Now,
	}
}

// Record implements lifecycle.LifecycleService. Events are append-only; a
// wrong entry is corrected by recording a compensating event, never by
// editing history.
func (s *LifecycleServiceImpl) Record(ctx context.Context, req lifecycle.RecordRequest) (lifecycle.Response, error) {
	if err := req.Validate(); err != nil {
		return lifecycle.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return lifecycle.Response{}, err
	}
	if !actor.IsAdmin() {
		return lifecycle.Response{}, attendance.ErrUnauthorized
	}

	// The subject must belong to the caller's company.
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, actor.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Response{}, employee.ErrEmployeeNotFound
		}
		return lifecycle.Response{}, fmt.Errorf("failed to get employee: %w", err)
	}

	occurredAt := s.now().In(s.location)
	if req.OccurredAt != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.OccurredAt)
		occurredAt = parsed.In(s.location)
	}

	event, err := s.EventRepository.Append(ctx, lifecycle.Event{
		ID:          uuid.NewString(),
		CompanyID:   actor.CompanyID,
		EmployeeID:  req.EmployeeID,
		Type:        lifecycle.EventType(req.Type),
		OccurredAt:  occurredAt,
		TriggeredBy: &actor.UserID,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return lifecycle.Response{}, fmt.Errorf("failed to append lifecycle event: %w", err)
	}

	slog.Info("lifecycle event recorded",
		slog.String("event_id", event.ID),
		slog.String("employee_id", event.EmployeeID),
		slog.String("type", string(event.Type)),
	)

	return lifecycle.NewResponse(event), nil
}

// Get implements lifecycle.LifecycleService.
func (s *LifecycleServiceImpl) Get(ctx context.Context, id string) (lifecycle.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return lifecycle.Response{}, err
	}

	event, err := s.EventRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Response{}, lifecycle.ErrEventNotFound
		}
		return lifecycle.Response{}, fmt.Errorf("failed to get lifecycle event: %w", err)
	}

	return lifecycle.NewResponse(event), nil
}

// List implements lifecycle.LifecycleService. Non-admins only see their own
// trail.
func (s *LifecycleServiceImpl) List(ctx context.Context, filter lifecycle.Filter) ([]lifecycle.Response, int64, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	if !actor.IsAdmin() {
		if actor.EmployeeID == "" {
			emp, err := s.EmployeeRepository.GetByUserID(ctx, actor.UserID, actor.CompanyID)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to get employee by user ID: %w", err)
			}
			filter.EmployeeID = emp.ID
		} else {
			filter.EmployeeID = actor.EmployeeID
		}
	}

	filter.Normalize()

	events, total, err := s.EventRepository.List(ctx, filter, actor.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lifecycle events: %w", err)
	}

	responses := make([]lifecycle.Response, 0, len(events))
	for _, event := range events {
		responses = append(responses, lifecycle.NewResponse(event))
	}

	return responses, total, nil
}

// Statistics implements lifecycle.LifecycleService.
func (s *LifecycleServiceImpl) Statistics(ctx context.Context, start, end time.Time) ([]lifecycle.TypeCount, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, attendance.ErrUnauthorized
	}

	counts, err := s.EventRepository.CountByType(ctx, actor.CompanyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count lifecycle events: %w", err)
	}

	return counts, nil
}
