package holiday

import (
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	Applicability   string   `json:"applicability"`
	Departments     []string `json:"departments"`
	Locations       []string `json:"locations"`
	EmploymentTypes []string `json:"employment_types"`
	EmployeeIDs     []string `json:"employee_ids"`
	IsOptional      bool     `json:"is_optional"`
	IsHalfDay       bool     `json:"is_half_day"`
	IsRecurring     bool     `json:"is_recurring"`
	IsCompensatory  bool     `json:"is_compensatory"`
	IsRestricted    bool     `json:"is_restricted"`
}

var validApplicabilities = []string{
	string(ApplicableAll),
	string(ApplicableDepartments),
	string(ApplicableLocations),
	string(ApplicableEmploymentTypes),
	string(ApplicableEmployees),
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Applicability, validApplicabilities) {
		errs = append(errs, validator.ValidationError{
			Field:   "applicability",
			Message: "applicability must be one of: all, departments, locations, employment_types, employees",
		})
	}

	switch Applicability(r.Applicability) {
	case ApplicableDepartments:
		if len(r.Departments) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "departments",
				Message: "at least one department is required",
			})
		}
	case ApplicableEmployees:
		if len(r.EmployeeIDs) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_ids",
				Message: "at least one employee is required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID string `json:"-"`
	CreateRequest
}

type Response struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	Applicability   string   `json:"applicability"`
	Departments     []string `json:"departments,omitempty"`
	Locations       []string `json:"locations,omitempty"`
	EmploymentTypes []string `json:"employment_types,omitempty"`
	EmployeeIDs     []string `json:"employee_ids,omitempty"`
	IsOptional      bool     `json:"is_optional"`
	IsHalfDay       bool     `json:"is_half_day"`
	IsRecurring     bool     `json:"is_recurring"`
	IsCompensatory  bool     `json:"is_compensatory"`
	IsRestricted    bool     `json:"is_restricted"`
}

func NewResponse(h Holiday) Response {
	return Response{
		ID:              h.ID,
		Name:            h.Name,
		Date:            h.Date.Format("2006-01-02"),
		Applicability:   string(h.Applicability),
		Departments:     h.Departments,
		Locations:       h.Locations,
		EmploymentTypes: h.EmploymentTypes,
		EmployeeIDs:     h.EmployeeIDs,
		IsOptional:      h.IsOptional,
		IsHalfDay:       h.IsHalfDay,
		IsRecurring:     h.IsRecurring,
		IsCompensatory:  h.IsCompensatory,
		IsRestricted:    h.IsRestricted,
	}
}
