package lifecycle

import (
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type RecordRequest struct {
	EmployeeID  string            `json:"employee_id"`
	Type        string            `json:"type"`
	OccurredAt  *string           `json:"occurred_at"`
	Description *string           `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !EventType(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "unknown lifecycle event type",
		})
	}

	if r.OccurredAt != nil {
		if _, ok := validator.IsValidDateTime(*r.OccurredAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "occurred_at",
				Message: "occurred_at must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter narrows event listings.
type Filter struct {
	EmployeeID string
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
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
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name,omitempty"`
	Type         string            `json:"type"`
	OccurredAt   string            `json:"occurred_at"`
	TriggeredBy  *string           `json:"triggered_by,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func NewResponse(e Event) Response {
	resp := Response{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Type:        string(e.Type),
		OccurredAt:  e.OccurredAt.Format(time.RFC3339),
		TriggeredBy: e.TriggeredByName,
		Description: e.Description,
		Metadata:    e.Metadata,
	}
	if e.EmployeeName != nil {
		resp.EmployeeName = *e.EmployeeName
	}
	return resp
}

// TypeCount is a per-event-type tally used by the statistics endpoint.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
