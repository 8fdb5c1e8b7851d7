package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrCheckOutBeforeIn  = errors.New("check-out time cannot be before check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
	ErrAlreadyProcessed   = errors.New("attendance has already been approved or rejected")
	ErrVersionConflict    = errors.New("attendance record was modified concurrently, please retry")
)
