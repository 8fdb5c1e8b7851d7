package employee

import (
	"time"
)

// EmploymentStatus mirrors the HR lifecycle of an employee account.
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusProbation  EmploymentStatus = "probation"
	StatusSuspended  EmploymentStatus = "suspended"
	StatusResigned   EmploymentStatus = "resigned"
	StatusTerminated EmploymentStatus = "terminated"
)

// Employee is the read model the attendance core and the reports consume.
// Employee master-data maintenance itself lives outside this service.
type Employee struct {
	ID               string
	UserID           *string
	CompanyID        string
	FullName         string
	Department       *string
	Designation      *string
	EmploymentType   *string
	Gender           *string
	Status           EmploymentStatus
	ShiftID          *string
	JoinDate         *time.Time
	ExitDate         *time.Time
	ProbationEndDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the employee counts toward attendance expectations.
func (e Employee) IsActive() bool {
	return e.Status == StatusActive || e.Status == StatusProbation
}
