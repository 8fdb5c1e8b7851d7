package regularization

import (
	"mime/multipart"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Date              string `json:"date"`
	RequestedCheckIn  string `json:"requested_check_in"`
	RequestedCheckOut string `json:"requested_check_out"`
	Reason            string `json:"reason"`

	Files       []multipart.File        `json:"-"`
	FileHeaders []*multipart.FileHeader `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	checkIn, okIn := validator.IsValidDateTime(r.RequestedCheckIn)
	if !okIn {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_in",
			Message: "requested_check_in must be an ISO8601 timestamp",
		})
	}

	checkOut, okOut := validator.IsValidDateTime(r.RequestedCheckOut)
	if !okOut {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_out",
			Message: "requested_check_out must be an ISO8601 timestamp",
		})
	}

	if okIn && okOut && !checkOut.After(checkIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_out",
			Message: "requested_check_out must be after requested_check_in",
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

	for _, header := range r.FileHeaders {
		if header.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "attachments",
				Message: "attachment size must not exceed 10MB",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID                string  `json:"-"`
	RequestedCheckIn  *string `json:"requested_check_in"`
	RequestedCheckOut *string `json:"requested_check_out"`
	Reason            *string `json:"reason"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.RequestedCheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_in",
				Message: "requested_check_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.RequestedCheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_out",
				Message: "requested_check_out must be an ISO8601 timestamp",
			})
		}
	}

	if r.Reason != nil && len(*r.Reason) > 500 {
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

type RejectRequest struct {
	ID       string `json:"-"`
	Comments string `json:"comments"`
}

// Filter narrows regularization listings.
type Filter struct {
	EmployeeID string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
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
	ID                string       `json:"id"`
	EmployeeID        string       `json:"employee_id"`
	EmployeeName      string       `json:"employee_name,omitempty"`
	AttendanceID      *string      `json:"attendance_id,omitempty"`
	Date              string       `json:"date"`
	RequestedCheckIn  string       `json:"requested_check_in"`
	RequestedCheckOut string       `json:"requested_check_out"`
	ActualCheckIn     *string      `json:"actual_check_in,omitempty"`
	ActualCheckOut    *string      `json:"actual_check_out,omitempty"`
	Reason            string       `json:"reason"`
	ManagerComments   *string      `json:"manager_comments,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	Status            string       `json:"status"`
	ApprovedBy        *string      `json:"approved_by,omitempty"`
	ApprovedAt        *string      `json:"approved_at,omitempty"`
}

func NewResponse(r Regularization) Response {
	resp := Response{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		AttendanceID:      r.AttendanceID,
		Date:              r.Date.Format("2006-01-02"),
		RequestedCheckIn:  r.RequestedCheckIn.Format(time.RFC3339),
		RequestedCheckOut: r.RequestedCheckOut.Format(time.RFC3339),
		ActualCheckIn:     timePtrToString(r.ActualCheckIn),
		ActualCheckOut:    timePtrToString(r.ActualCheckOut),
		Reason:            r.Reason,
		ManagerComments:   r.ManagerComments,
		Attachments:       r.Attachments,
		Status:            string(r.Status),
		ApprovedBy:        r.ApprovedBy,
		ApprovedAt:        timePtrToString(r.ApprovedAt),
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	return resp
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
