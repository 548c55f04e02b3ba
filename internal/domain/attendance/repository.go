package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Records are unique per employee and date.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee has no record
	// on that date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Upsert inserts the record or replaces the one with the same employee
	// and date. The store guarantees atomicity on that key.
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployee returns records with from <= date <= to ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
