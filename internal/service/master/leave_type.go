package master

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/leavetype"
)

type LeaveTypeServiceImpl struct {
	leavetype.LeaveTypeRepository
}

func NewLeaveTypeService(leaveTypeRepo leavetype.LeaveTypeRepository) leavetype.LeaveTypeService {
	return &LeaveTypeServiceImpl{
		LeaveTypeRepository: leaveTypeRepo,
	}
}

// Create implements leavetype.LeaveTypeService. Codes are unique per company
// and stored upper-cased.
func (s *LeaveTypeServiceImpl) Create(ctx context.Context, req leavetype.CreateRequest) (leavetype.Response, error) {
	if err := req.Validate(); err != nil {
		return leavetype.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return leavetype.Response{}, err
	}
	if !actor.IsAdmin() {
		return leavetype.Response{}, attendance.ErrUnauthorized
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	existing, err := s.LeaveTypeRepository.GetByCode(ctx, code, actor.CompanyID)
	if err != nil {
		return leavetype.Response{}, fmt.Errorf("failed to check leave type code: %w", err)
	}
	if existing != nil {
		return leavetype.Response{}, leavetype.ErrCodeExists
	}

	created, err := s.LeaveTypeRepository.Create(ctx, leavetype.LeaveType{
		ID:               uuid.NewString(),
		CompanyID:        actor.CompanyID,
		Name:             req.Name,
		Code:             code,
		AccrualRate:      req.AccrualRate,
		AccrualFrequency: leavetype.AccrualFrequency(req.AccrualFrequency),
		CarryForwardMax:  req.CarryForwardMax,
		EncashmentMax:    req.EncashmentMax,
		RequiresProof:    req.RequiresProof,
		IsActive:         true,
	})
	if err != nil {
		return leavetype.Response{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leavetype.NewResponse(created), nil
}

// Get implements leavetype.LeaveTypeService.
func (s *LeaveTypeServiceImpl) Get(ctx context.Context, id string) (leavetype.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return leavetype.Response{}, err
	}

	lt, err := s.LeaveTypeRepository.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.Response{}, leavetype.ErrLeaveTypeNotFound
		}
		return leavetype.Response{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	return leavetype.NewResponse(lt), nil
}

// Update implements leavetype.LeaveTypeService.
func (s *LeaveTypeServiceImpl) Update(ctx context.Context, req leavetype.UpdateRequest) (leavetype.Response, error) {
	if err := req.Validate(); err != nil {
		return leavetype.Response{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return leavetype.Response{}, err
	}
	if !actor.IsAdmin() {
		return leavetype.Response{}, attendance.ErrUnauthorized
	}

	lt, err := s.LeaveTypeRepository.GetByID(ctx, req.ID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.Response{}, leavetype.ErrLeaveTypeNotFound
		}
		return leavetype.Response{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code != lt.Code {
		existing, err := s.LeaveTypeRepository.GetByCode(ctx, code, actor.CompanyID)
		if err != nil {
			return leavetype.Response{}, fmt.Errorf("failed to check leave type code: %w", err)
		}
		if existing != nil {
			return leavetype.Response{}, leavetype.ErrCodeExists
		}
		lt.Code = code
	}

	lt.Name = req.Name
	lt.AccrualRate = req.AccrualRate
	lt.AccrualFrequency = leavetype.AccrualFrequency(req.AccrualFrequency)
	lt.CarryForwardMax = req.CarryForwardMax
	lt.EncashmentMax = req.EncashmentMax
	lt.RequiresProof = req.RequiresProof
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := s.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leavetype.Response{}, fmt.Errorf("failed to update leave type: %w", err)
	}

	return leavetype.NewResponse(lt), nil
}

// Delete implements leavetype.LeaveTypeService.
func (s *LeaveTypeServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return attendance.ErrUnauthorized
	}

	if _, err := s.LeaveTypeRepository.GetByID(ctx, id, actor.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("failed to get leave type: %w", err)
	}

	if err := s.LeaveTypeRepository.Delete(ctx, id, actor.CompanyID); err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}

	return nil
}

// List implements leavetype.LeaveTypeService.
func (s *LeaveTypeServiceImpl) List(ctx context.Context, activeOnly bool) ([]leavetype.Response, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	leaveTypes, err := s.LeaveTypeRepository.List(ctx, actor.CompanyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leavetype.Response, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		responses = append(responses, leavetype.NewResponse(lt))
	}

	return responses, nil
}
