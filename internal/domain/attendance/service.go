package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID string, at time.Time) (Attendance, error)
	CheckOut(ctx context.Context, employeeID string, at time.Time) (Attendance, error)
	StartBreak(ctx context.Context, employeeID string, at time.Time) (Attendance, error)
	EndBreak(ctx context.Context, employeeID string, at time.Time) (Attendance, error)

	// MarkAbsent records an absent day unless a record already exists.
	MarkAbsent(ctx context.Context, employeeID string, date time.Time) (Attendance, bool, error)

	List(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	MonthlySummary(ctx context.Context, employeeID string, month, year int) (MonthlySummary, error)
}
