package attendance

import (
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckOutRequest) Validate() error {
	req := CheckInRequest{Latitude: r.Latitude, Longitude: r.Longitude}
	return req.Validate()
}

// UpdateRequest is an administrative correction of a day's record.
type UpdateRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Notes    *string `json:"notes"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "attendance id is required",
		})
	}

	if r.CheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.CheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter narrows attendance listings; zero values mean "no filter".
type Filter struct {
	EmployeeID string
	Department string
	Status     string
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

type RecalculateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Response struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name,omitempty"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"check_in"`
	CheckOut      *string  `json:"check_out"`
	WorkingHours  float64  `json:"working_hours"`
	BreakHours    float64  `json:"break_hours"`
	LateHours     float64  `json:"late_hours"`
	EarlyHours    float64  `json:"early_hours"`
	OvertimeHours float64  `json:"overtime_hours"`
	Status        string   `json:"status"`
	IsWeekend     bool     `json:"is_weekend"`
	IsHoliday     bool     `json:"is_holiday"`
	IsHalfDay     bool     `json:"is_half_day"`
	ApprovedBy    *string  `json:"approved_by,omitempty"`
	ApprovedAt    *string  `json:"approved_at,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// NewResponse shapes an entity for the JSON surface.
func NewResponse(a Attendance) Response {
	resp := Response{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format("2006-01-02"),
		CheckIn:       timePtrToString(a.CheckIn),
		CheckOut:      timePtrToString(a.CheckOut),
		WorkingHours:  a.WorkingHours,
		BreakHours:    a.BreakHours,
		LateHours:     a.LateHours,
		EarlyHours:    a.EarlyHours,
		OvertimeHours: a.OvertimeHours,
		Status:        string(a.Status),
		IsWeekend:     a.IsWeekend,
		IsHoliday:     a.IsHoliday,
		IsHalfDay:     a.IsHalfDay,
		ApprovedBy:    a.ApprovedBy,
		ApprovedAt:    timePtrToString(a.ApprovedAt),
		Notes:         a.Notes,
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	return resp
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}
