package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollRecordNotFound    = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyPaid = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod            = errors.New("invalid payroll period")
	ErrDivisionDegenerate       = errors.New("period has no working days to pro-rate against")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
	ErrInvalidPaymentTransition = errors.New("payment status transition not allowed")
)

// ComputationError wraps a failure while generating one employee's payroll.
type ComputationError struct {
	EmployeeID string
	Err        error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("payroll computation failed for employee %s: %v", e.EmployeeID, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
