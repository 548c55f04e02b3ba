package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrNotCheckedIn          = errors.New("not checked in yet")
	ErrAlreadyCheckedOut     = errors.New("already checked out")
	ErrCheckOutBeforeCheckIn = errors.New("check-out is before check-in")
	ErrBreakAlreadyOpen      = errors.New("a break is already in progress")
	ErrNoOpenBreak           = errors.New("no break in progress")
	ErrBreakOutsideShift     = errors.New("break must fall between check-in and check-out")

	// General errors
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)
