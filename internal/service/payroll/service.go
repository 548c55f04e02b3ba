package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/export"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	policy         policy.Payroll
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payrollPolicy policy.Payroll,
	logger *slog.Logger,
) *PayrollServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		policy:         payrollPolicy,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock replaces the clock used to stamp payment dates.
func (s *PayrollServiceImpl) WithClock(now func() time.Time) *PayrollServiceImpl {
	s.now = now
	return s
}

// ========== CALCULATION ==========

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, employeeID string, month, year int, adj payroll.Adjustments) (payroll.PayrollRecord, error) {
	if !validator.IsValidMonth(month) || !validator.IsValidYear(year) {
		return payroll.PayrollRecord{}, payroll.ErrInvalidPeriod
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if !emp.IsActive() {
		return payroll.PayrollRecord{}, employee.ErrEmployeeInactive
	}

	from, to := PeriodRange(month, year)

	records, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	leaves, err := s.leaveRepo.ListApprovedOverlapping(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	return Calculate(CalculationInput{
		Employee:    emp,
		Month:       month,
		Year:        year,
		Attendance:  records,
		Leaves:      leaves,
		Adjustments: adj,
	}, s.policy), nil
}

// Generate implements payroll.PayrollService. Employees are processed one at
// a time and a failure is recorded against that employee only. Once ctx is
// done the remaining employees are recorded with the context error, so the
// result always lists every requested employee.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	resp := payroll.GeneratePayrollResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Results:     make([]payroll.GenerationResult, 0, len(req.EmployeeIDs)),
	}

	for _, employeeID := range req.EmployeeIDs {
		result := payroll.GenerationResult{EmployeeID: employeeID}
		var saved payroll.PayrollRecord
		var created bool
		err := ctx.Err()
		if err == nil {
			err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
				var err error
				saved, created, err = s.generateOne(ctx, employeeID, req)
				return err
			})
		}
		switch {
		case err != nil:
			cerr := &payroll.ComputationError{EmployeeID: employeeID, Err: err}
			result.Outcome = payroll.OutcomeError
			result.Error = cerr.Error()
			resp.Failed++
			s.logger.Warn("payroll generation failed for employee",
				"employee_id", employeeID, "month", req.PeriodMonth, "year", req.PeriodYear, "error", err)
		case created:
			result.Outcome = payroll.OutcomeCreated
			result.RecordID = saved.ID
			resp.Created++
		default:
			result.Outcome = payroll.OutcomeUpdated
			result.RecordID = saved.ID
			resp.Updated++
		}
		resp.Results = append(resp.Results, result)
	}

	s.logger.Info("payroll generated",
		"month", req.PeriodMonth,
		"year", req.PeriodYear,
		"generated_by", req.GeneratedBy,
		"created", resp.Created,
		"updated", resp.Updated,
		"failed", resp.Failed,
	)

	return resp, nil
}

func (s *PayrollServiceImpl) generateOne(ctx context.Context, employeeID string, req payroll.GeneratePayrollRequest) (payroll.PayrollRecord, bool, error) {
	var adj payroll.Adjustments

	existing, err := s.payrollRepo.GetByEmployeePeriod(ctx, employeeID, req.PeriodMonth, req.PeriodYear)
	switch {
	case err == nil:
		if existing.PaymentStatus == payroll.PaymentStatusPaid {
			return payroll.PayrollRecord{}, false, payroll.ErrPayrollRecordAlreadyPaid
		}
		adj = existing.Adjustments()
	case !errors.Is(err, payroll.ErrPayrollRecordNotFound):
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to get existing payroll record: %w", err)
	}

	record, err := s.Calculate(ctx, employeeID, req.PeriodMonth, req.PeriodYear, adj)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	record.GeneratedBy = req.GeneratedBy
	if existing.ID != "" {
		record.PaymentStatus = existing.PaymentStatus
		record.PaymentDate = existing.PaymentDate
	}

	return s.payrollRepo.Upsert(ctx, record)
}

// ========== RECORDS ==========

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewPayrollRecordResponse(record), nil
}

// ListByPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.listPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return payroll.NewPayrollRecordResponses(records), nil
}

// UpdateAdjustments implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateAdjustments(ctx context.Context, req payroll.UpdateAdjustmentsRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if record.PaymentStatus == payroll.PaymentStatusPaid {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	record.ApplyAdjustments(req.Apply(record.Adjustments()))

	saved, _, err := s.payrollRepo.Upsert(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to save payroll record: %w", err)
	}
	return payroll.NewPayrollRecordResponse(saved), nil
}

// UpdatePaymentStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePaymentStatus(ctx context.Context, req payroll.UpdatePaymentStatusRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	next := payroll.PaymentStatus(req.Status)
	if !record.PaymentStatus.CanTransitionTo(next) {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("%w: %s to %s",
			payroll.ErrInvalidPaymentTransition, record.PaymentStatus, next)
	}

	record.PaymentStatus = next
	if next == payroll.PaymentStatusPaid {
		paidAt := s.now()
		record.PaymentDate = &paidAt
	}

	saved, _, err := s.payrollRepo.Upsert(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to save payroll record: %w", err)
	}

	s.logger.Info("payroll payment status changed",
		"record_id", saved.ID, "employee_id", saved.EmployeeID, "status", saved.PaymentStatus)

	return payroll.NewPayrollRecordResponse(saved), nil
}

// ExportRegister implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportRegister(ctx context.Context, month, year int, w io.Writer) error {
	records, err := s.listPeriod(ctx, month, year)
	if err != nil {
		return err
	}
	return export.WritePayrollRegister(w, month, year, records)
}

func (s *PayrollServiceImpl) listPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	if !validator.IsValidMonth(month) || !validator.IsValidYear(year) {
		return nil, payroll.ErrInvalidPeriod
	}
	records, err := s.payrollRepo.ListByPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return records, nil
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
