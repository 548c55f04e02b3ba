package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	Update(ctx context.Context, req UpdateLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID string, approverID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID string) (LeaveRequestResponse, error)

	Balance(ctx context.Context, employeeID string, year int) ([]Balance, error)
	Conflicts(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]LeaveRequest, error)
}
