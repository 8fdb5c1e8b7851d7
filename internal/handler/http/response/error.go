package response

import (
	"errors"
	"net/http"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/leavetype"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/regularization"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var conflictErr *registry.ConflictError
	if errors.As(err, &conflictErr) {
		Conflict(w, conflictErr.Error())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, "Token is missing required claims")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, "Check-out time cannot be before check-in time", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this record")
	case errors.Is(err, attendance.ErrAlreadyProcessed):
		Conflict(w, "Record already processed")
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Record was modified concurrently, please retry")

	// Shift
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Regularization
	case errors.Is(err, regularization.ErrNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, regularization.ErrAlreadyProcessed):
		Conflict(w, "Regularization request already processed")
	case errors.Is(err, regularization.ErrNotOwner):
		Forbidden(w, "Only the requesting employee may modify this request")
	case errors.Is(err, regularization.ErrDuplicateDate):
		Conflict(w, "A regularization request already exists for this date")

	// Comp off
	case errors.Is(err, compoff.ErrNotFound):
		NotFound(w, "Compensatory off not found")
	case errors.Is(err, compoff.ErrAlreadyProcessed):
		Conflict(w, "Compensatory off already processed")
	case errors.Is(err, compoff.ErrNotOwner):
		Forbidden(w, "Only the requesting employee may modify this request")
	case errors.Is(err, compoff.ErrDuplicateDate):
		Conflict(w, "A comp off request already exists for this worked date")
	case errors.Is(err, compoff.ErrNotApproved):
		BadRequest(w, "Only approved credits can be consumed", nil)
	case errors.Is(err, compoff.ErrAlreadyUsed):
		Conflict(w, "Credit has already been used")
	case errors.Is(err, compoff.ErrExpired):
		Conflict(w, "Credit has expired")
	case errors.Is(err, compoff.ErrNoAvailableCredit):
		BadRequest(w, "No available comp off credit", nil)

	// Master data
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrDuplicateDate):
		Conflict(w, "A holiday already exists on this date")
	case errors.Is(err, leavetype.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leavetype.ErrCodeExists):
		Conflict(w, "Leave type code already exists")

	// Capabilities
	case errors.Is(err, registry.ErrNotEnabled):
		NotFound(w, "Capability is not enabled")

	// Lifecycle
	case errors.Is(err, lifecycle.ErrEventNotFound):
		NotFound(w, "Lifecycle event not found")
	case errors.Is(err, lifecycle.ErrInvalidEventType):
		BadRequest(w, "Unknown lifecycle event type", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
