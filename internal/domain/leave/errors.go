package leave

import "errors"

var (
	ErrLeaveRequestNotFound     = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed    = errors.New("leave request already processed")
	ErrInvalidDateRange         = errors.New("end date must not be before start date")
	ErrNoBusinessDays           = errors.New("leave range contains no business days")
	ErrOverlappingLeave         = errors.New("leave request overlaps an existing pending or approved request")
	ErrInsufficientBalance      = errors.New("insufficient leave balance")
	ErrCannotCancelStartedLeave = errors.New("leave can only be cancelled before it starts")
)
