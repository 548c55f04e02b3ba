package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
)

type LeaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

func (r *LeaveRequestRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	request, err := leave.DeriveTotalDays(request)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	request.ID = newID()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests[request.ID] = request
	return request, nil
}

func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (r *LeaveRequestRepository) Update(_ context.Context, request leave.LeaveRequest) error {
	request, err := leave.DeriveTotalDays(request)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.requests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	request.CreatedAt = existing.CreatedAt
	request.UpdatedAt = time.Now().UTC()
	r.requests[request.ID] = request
	return nil
}

func (r *LeaveRequestRepository) FindOverlapping(_ context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	return r.filter(func(lr leave.LeaveRequest) bool {
		return lr.EmployeeID == employeeID &&
			lr.ID != excludeID &&
			lr.IsActive() &&
			lr.Overlaps(start, end)
	}), nil
}

func (r *LeaveRequestRepository) ListApprovedByYear(_ context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	return r.filter(func(lr leave.LeaveRequest) bool {
		return lr.EmployeeID == employeeID &&
			lr.Status == leave.LeaveRequestStatusApproved &&
			lr.StartDate.Year() == year
	}), nil
}

func (r *LeaveRequestRepository) ListApprovedOverlapping(_ context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	return r.filter(func(lr leave.LeaveRequest) bool {
		return lr.EmployeeID == employeeID &&
			lr.Status == leave.LeaveRequestStatusApproved &&
			lr.Overlaps(from, to)
	}), nil
}

func (r *LeaveRequestRepository) filter(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, lr := range r.requests {
		if keep(lr) {
			result = append(result, lr)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result
}
