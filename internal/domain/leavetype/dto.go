package leavetype

import (
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	AccrualRate      float64 `json:"accrual_rate"`
	AccrualFrequency string  `json:"accrual_frequency"`
	CarryForwardMax  float64 `json:"carry_forward_max"`
	EncashmentMax    float64 `json:"encashment_max"`
	RequiresProof    bool    `json:"requires_proof"`
}

var validFrequencies = []string{
	string(AccrualMonthly),
	string(AccrualQuarterly),
	string(AccrualYearly),
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}

	if r.AccrualRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_rate",
			Message: "accrual_rate must not be negative",
		})
	}

	if !validator.IsInSlice(r.AccrualFrequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_frequency",
			Message: "accrual_frequency must be one of: monthly, quarterly, yearly",
		})
	}

	if r.CarryForwardMax < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "carry_forward_max",
			Message: "carry_forward_max must not be negative",
		})
	}

	if r.EncashmentMax < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "encashment_max",
			Message: "encashment_max must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID       string `json:"-"`
	IsActive *bool  `json:"is_active"`
	CreateRequest
}

type Response struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	AccrualRate      float64 `json:"accrual_rate"`
	AccrualFrequency string  `json:"accrual_frequency"`
	CarryForwardMax  float64 `json:"carry_forward_max"`
	EncashmentMax    float64 `json:"encashment_max"`
	RequiresProof    bool    `json:"requires_proof"`
	IsActive         bool    `json:"is_active"`
}

func NewResponse(lt LeaveType) Response {
	return Response{
		ID:               lt.ID,
		Name:             lt.Name,
		Code:             lt.Code,
		AccrualRate:      lt.AccrualRate,
		AccrualFrequency: string(lt.AccrualFrequency),
		CarryForwardMax:  lt.CarryForwardMax,
		EncashmentMax:    lt.EncashmentMax,
		RequiresProof:    lt.RequiresProof,
		IsActive:         lt.IsActive,
	}
}
