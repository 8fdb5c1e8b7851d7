package holiday

import (
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
)

// Applicability selects which employees a holiday covers.
type Applicability string

const (
	ApplicableAll             Applicability = "all"
	ApplicableDepartments     Applicability = "departments"
	ApplicableLocations       Applicability = "locations"
	ApplicableEmploymentTypes Applicability = "employment_types"
	ApplicableEmployees       Applicability = "employees"
)

type Holiday struct {
	ID            string
	CompanyID     string
	Name          string
	Date          time.Time
	Applicability Applicability

	// Selection lists; only the one matching Applicability is consulted.
	Departments     []string
	Locations       []string
	EmploymentTypes []string
	EmployeeIDs     []string

	IsOptional     bool
	IsHalfDay      bool
	IsRecurring    bool
	IsCompensatory bool
	IsRestricted   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether the holiday covers the employee.
func (h Holiday) AppliesTo(emp employee.Employee) bool {
	switch h.Applicability {
	case ApplicableAll:
		return true
	case ApplicableDepartments:
		return emp.Department != nil && contains(h.Departments, *emp.Department)
	case ApplicableEmploymentTypes:
		return emp.EmploymentType != nil && contains(h.EmploymentTypes, *emp.EmploymentType)
	case ApplicableEmployees:
		return contains(h.EmployeeIDs, emp.ID)
	case ApplicableLocations:
		// Employee read model carries no location today; a location-scoped
		// holiday falls back to covering nobody rather than everybody.
		return false
	default:
		return false
	}
}

// OccursOn reports whether the holiday falls on the given date, honoring
// yearly recurrence.
func (h Holiday) OccursOn(date time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() &&
		h.Date.Month() == date.Month() &&
		h.Date.Day() == date.Day()
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
