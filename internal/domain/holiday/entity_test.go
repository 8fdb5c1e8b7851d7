package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
)

func strPtr(s string) *string { return &s }

func TestHoliday_AppliesTo(t *testing.T) {
	eng := employee.Employee{ID: "emp-1", Department: strPtr("Engineering"), EmploymentType: strPtr("full_time")}
	sales := employee.Employee{ID: "emp-2", Department: strPtr("Sales"), EmploymentType: strPtr("contract")}
	unassigned := employee.Employee{ID: "emp-3"}

	companyWide := Holiday{Applicability: ApplicableAll}
	assert.True(t, companyWide.AppliesTo(eng))
	assert.True(t, companyWide.AppliesTo(unassigned))

	engOnly := Holiday{Applicability: ApplicableDepartments, Departments: []string{"Engineering"}}
	assert.True(t, engOnly.AppliesTo(eng))
	assert.False(t, engOnly.AppliesTo(sales))
	assert.False(t, engOnly.AppliesTo(unassigned))

	fullTimers := Holiday{Applicability: ApplicableEmploymentTypes, EmploymentTypes: []string{"full_time"}}
	assert.True(t, fullTimers.AppliesTo(eng))
	assert.False(t, fullTimers.AppliesTo(sales))

	named := Holiday{Applicability: ApplicableEmployees, EmployeeIDs: []string{"emp-2"}}
	assert.False(t, named.AppliesTo(eng))
	assert.True(t, named.AppliesTo(sales))

	// No employee location on the read model, so a location scope covers
	// nobody rather than everybody.
	locationScoped := Holiday{Applicability: ApplicableLocations, Locations: []string{"Bangalore"}}
	assert.False(t, locationScoped.AppliesTo(eng))
}

func TestHoliday_OccursOn(t *testing.T) {
	oneOff := Holiday{Date: time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC)}
	assert.True(t, oneOff.OccursOn(time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC)))
	assert.False(t, oneOff.OccursOn(time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)))

	recurring := Holiday{
		Date:        time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC),
		IsRecurring: true,
	}
	assert.True(t, recurring.OccursOn(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, recurring.OccursOn(time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)))
}
