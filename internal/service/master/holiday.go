package master

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
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	employee.EmployeeRepository
	location *time.Location
}

func NewHolidayService(
	holidayRepo holiday.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	location *time.Location,
) holiday.HolidayService {
	return &HolidayServiceImpl{
		HolidayRepository:  holidayRepo,
		EmployeeRepository: employeeRepo,
		location:           location,
	}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateRequest) (holiday.Response, error) {
	if err := req.Validate(); err != nil {
		return holiday.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return holiday.Response{}, err
	}
	if !actor.IsAdmin() {
		return holiday.Response{}, attendance.ErrUnauthorized
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.location)

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		ID:              uuid.NewString(),
		CompanyID:       actor.CompanyID,
		Name:            req.Name,
		Date:            date,
		Applicability:   holiday.Applicability(req.Applicability),
		Departments:     req.Departments,
		Locations:       req.Locations,
		EmploymentTypes: req.EmploymentTypes,
		EmployeeIDs:     req.EmployeeIDs,
		IsOptional:      req.IsOptional,
		IsHalfDay:       req.IsHalfDay,
		IsRecurring:     req.IsRecurring,
		IsCompensatory:  req.IsCompensatory,
		IsRestricted:    req.IsRestricted,
	})
	if err != nil {
		return holiday.Response{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	slog.Info("holiday created",
		slog.String("holiday_id", created.ID),
		slog.String("name", created.Name),
		slog.String("date", req.Date),
	)

	return holiday.NewResponse(created), nil
}

// Get implements holiday.HolidayService.
func (s *HolidayServiceImpl) Get(ctx context.Context, id string) (holiday.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return holiday.Response{}, err
	}

	h, err := s.HolidayRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Response{}, holiday.ErrHolidayNotFound
		}
		return holiday.Response{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	return holiday.NewResponse(h), nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateRequest) (holiday.Response, error) {
	if err := req.Validate(); err != nil {
		return holiday.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return holiday.Response{}, err
	}
	if !actor.IsAdmin() {
		return holiday.Response{}, attendance.ErrUnauthorized
	}

	h, err := s.HolidayRepository.GetByID(ctx, req.ID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Response{}, holiday.ErrHolidayNotFound
		}
		return holiday.Response{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.location)

	h.Name = req.Name
	h.Date = date
	h.Applicability = holiday.Applicability(req.Applicability)
	h.Departments = req.Departments
	h.Locations = req.Locations
	h.EmploymentTypes = req.EmploymentTypes
	h.EmployeeIDs = req.EmployeeIDs
	h.IsOptional = req.IsOptional
	h.IsHalfDay = req.IsHalfDay
	h.IsRecurring = req.IsRecurring
	h.IsCompensatory = req.IsCompensatory
	h.IsRestricted = req.IsRestricted

	if err := s.HolidayRepository.Update(ctx, h); err != nil {
		return holiday.Response{}, fmt.Errorf("failed to update holiday: %w", err)
	}

	return holiday.NewResponse(h), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return attendance.ErrUnauthorized
	}

	if _, err := s.HolidayRepository.GetByID(ctx, id, actor.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to get holiday: %w", err)
	}

	if err := s.HolidayRepository.Delete(ctx, id, actor.CompanyID); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	return nil
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, year int) ([]holiday.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	holidays, err := s.HolidayRepository.List(ctx, actor.CompanyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.Response, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewResponse(h))
	}

	return responses, nil
}

// ForEmployee implements holiday.HolidayService.
func (s *HolidayServiceImpl) ForEmployee(ctx context.Context, employeeID string, year int) ([]holiday.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	holidays, err := s.HolidayRepository.List(ctx, actor.CompanyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.Response, 0, len(holidays))
	for _, h := range holidays {
		if h.AppliesTo(emp) {
			responses = append(responses, holiday.NewResponse(h))
		}
	}

	return responses, nil
}
