package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	policy policy.Leave
	now    func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	leavePolicy policy.Leave,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		policy:                 leavePolicy,
		now:                    time.Now,
	}
}

// WithClock replaces the clock used for cancellation and approval stamps.
func (s *LeaveServiceImpl) WithClock(now func() time.Time) *LeaveServiceImpl {
	s.now = now
	return s
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive() {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	request := leave.LeaveRequest{
		EmployeeID:    emp.ID,
		Type:          leave.LeaveType(req.Type),
		StartDate:     startDate,
		EndDate:       endDate,
		IsHalfDay:     req.IsHalfDay,
		HalfDayPeriod: toHalfDayPeriod(req.HalfDayPeriod),
		Reason:        req.Reason,
		Status:        leave.LeaveRequestStatusPending,
	}

	var created leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		checked, err := s.checkRequest(ctx, request)
		if err != nil {
			return err
		}
		created, err = s.LeaveRequestRepository.Create(ctx, checked)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.pendingRequest(ctx, req.ID)
		if err != nil {
			return err
		}

		request.StartDate, _ = time.Parse("2006-01-02", req.StartDate)
		request.EndDate, _ = time.Parse("2006-01-02", req.EndDate)
		request.IsHalfDay = req.IsHalfDay
		request.HalfDayPeriod = toHalfDayPeriod(req.HalfDayPeriod)
		if req.Reason != nil {
			request.Reason = *req.Reason
		}

		updated, err = s.checkRequest(ctx, request)
		if err != nil {
			return err
		}
		return s.save(ctx, updated)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(updated), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, requestID string, approverID string) (leave.LeaveRequestResponse, error) {
	var approved leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.pendingRequest(ctx, requestID)
		if err != nil {
			return err
		}

		approvedAt := s.now()
		request.Status = leave.LeaveRequestStatusApproved
		request.ApprovedBy = &approverID
		request.ApprovedAt = &approvedAt

		// Balance may have been consumed by other approvals since submission.
		if err := s.checkBalance(ctx, request); err != nil {
			return err
		}
		approved = request
		return s.save(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(approved), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var rejected leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.pendingRequest(ctx, req.ID)
		if err != nil {
			return err
		}

		approvedAt := s.now()
		request.Status = leave.LeaveRequestStatusRejected
		request.RejectionReason = &req.Reason
		request.ApprovedBy = &req.ApproverID
		request.ApprovedAt = &approvedAt

		rejected = request
		return s.save(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(rejected), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	var cancelled leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !request.IsActive() {
			return leave.ErrLeaveAlreadyProcessed
		}

		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !request.StartDate.After(today) {
			return leave.ErrCannotCancelStartedLeave
		}

		request.Status = leave.LeaveRequestStatusCancelled
		request.CancelledAt = &now

		cancelled = request
		return s.save(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(cancelled), nil
}

// Balance implements leave.LeaveService.
func (s *LeaveServiceImpl) Balance(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	approved, err := s.LeaveRequestRepository.ListApprovedByYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}

	return leave.ComputeBalances(approved, s.policy.Allotments), nil
}

// Conflicts implements leave.LeaveService.
func (s *LeaveServiceImpl) Conflicts(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	if end.Before(start) {
		return nil, leave.ErrInvalidDateRange
	}

	conflicts, err := s.LeaveRequestRepository.FindOverlapping(ctx, employeeID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping leave requests: %w", err)
	}
	return conflicts, nil
}

func (s *LeaveServiceImpl) save(ctx context.Context, request leave.LeaveRequest) error {
	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

func (s *LeaveServiceImpl) pendingRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}
	return request, nil
}

// checkRequest derives total days and runs the overlap and balance checks
// shared by submit and update.
func (s *LeaveServiceImpl) checkRequest(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	request, err := leave.DeriveTotalDays(request)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.TotalDays == 0 {
		return leave.LeaveRequest{}, leave.ErrNoBusinessDays
	}

	conflicts, err := s.Conflicts(ctx, request.EmployeeID, request.StartDate, request.EndDate, request.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if len(conflicts) > 0 {
		return leave.LeaveRequest{}, leave.ErrOverlappingLeave
	}

	if err := s.checkBalance(ctx, request); err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (s *LeaveServiceImpl) checkBalance(ctx context.Context, request leave.LeaveRequest) error {
	if _, ok := s.policy.Allotments[request.Type]; !ok {
		return nil
	}

	balances, err := s.Balance(ctx, request.EmployeeID, request.StartDate.Year())
	if err != nil {
		return err
	}
	balance, _ := leave.FindBalance(balances, request.Type)
	if balance.Remaining < request.TotalDays {
		return fmt.Errorf("%w: %s has %.1f day(s) remaining, %.1f requested",
			leave.ErrInsufficientBalance, request.Type, balance.Remaining, request.TotalDays)
	}
	return nil
}

func toHalfDayPeriod(period *string) *leave.HalfDayPeriod {
	if period == nil {
		return nil
	}
	p := leave.HalfDayPeriod(*period)
	return &p
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
