package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) error

	// FindOverlapping returns pending or approved requests of the employee
	// whose range intersects [start, end], skipping excludeID when set.
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]LeaveRequest, error)

	// ListApprovedByYear returns approved requests whose start date is in year.
	ListApprovedByYear(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)

	// ListApprovedOverlapping returns approved requests whose range
	// intersects [from, to].
	ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}
