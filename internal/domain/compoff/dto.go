package compoff

import (
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	WorkedDate  string  `json:"worked_date"`
	HoursWorked float64 `json:"hours_worked"`
	Reason      string  `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	workedDate, ok := validator.IsValidDate(r.WorkedDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "worked_date",
			Message: "worked_date must be in YYYY-MM-DD format",
		})
	} else if workedDate.After(time.Now()) {
		errs = append(errs, validator.ValidationError{
			Field:   "worked_date",
			Message: "worked_date cannot be in the future",
		})
	}

	if r.HoursWorked < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked must be at least 1 hour",
		})
	} else if r.HoursWorked > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked cannot exceed 24 hours",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID          string   `json:"-"`
	WorkedDate  *string  `json:"worked_date"`
	HoursWorked *float64 `json:"hours_worked"`
	Reason      *string  `json:"reason"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.WorkedDate != nil {
		workedDate, ok := validator.IsValidDate(*r.WorkedDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "worked_date",
				Message: "worked_date must be in YYYY-MM-DD format",
			})
		} else if workedDate.After(time.Now()) {
			errs = append(errs, validator.ValidationError{
				Field:   "worked_date",
				Message: "worked_date cannot be in the future",
			})
		}
	}

	if r.HoursWorked != nil && (*r.HoursWorked < 1 || *r.HoursWorked > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked must be between 1 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

// Filter narrows comp-off listings.
type Filter struct {
	EmployeeID string
	Status     string
	Page       int
	Limit      int
}

func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type Response struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	WorkedDate      string  `json:"worked_date"`
	HoursWorked     float64 `json:"hours_worked"`
	CompOffDays     float64 `json:"comp_off_days"`
	Reason          string  `json:"reason"`
	ExpiryDate      *string `json:"expiry_date,omitempty"`
	IsUsed          bool    `json:"is_used"`
	UsedAt          *string `json:"used_at,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func NewResponse(c CompensatoryOff) Response {
	resp := Response{
		ID:              c.ID,
		EmployeeID:      c.EmployeeID,
		WorkedDate:      c.WorkedDate.Format("2006-01-02"),
		HoursWorked:     c.HoursWorked,
		CompOffDays:     c.CompOffDays,
		Reason:          c.Reason,
		IsUsed:          c.IsUsed,
		Status:          string(c.Status),
		ApprovedBy:      c.ApprovedBy,
		RejectionReason: c.RejectionReason,
	}
	if c.ExpiryDate != nil {
		formatted := c.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &formatted
	}
	if c.UsedAt != nil {
		formatted := c.UsedAt.Format(time.RFC3339)
		resp.UsedAt = &formatted
	}
	if c.ApprovedAt != nil {
		formatted := c.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &formatted
	}
	if c.EmployeeName != nil {
		resp.EmployeeName = *c.EmployeeName
	}
	return resp
}
