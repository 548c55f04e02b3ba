package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy policy.Attendance
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	attendancePolicy policy.Attendance,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policy:               attendancePolicy,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	if err := s.requireActiveEmployee(ctx, employeeID); err != nil {
		return attendance.Attendance{}, err
	}

	date := s.policy.Day(at)
	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	record := s.newRecord(employeeID, date)
	if existing != nil {
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		record = *existing
	}
	record.CheckIn = &at

	return s.evaluateAndSave(ctx, record)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	record, err := s.openRecord(ctx, employeeID, at)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if at.Before(*record.CheckIn) {
		return attendance.Attendance{}, attendance.ErrCheckOutBeforeCheckIn
	}

	if i := record.OpenBreak(); i >= 0 {
		end := at
		record.Breaks[i].End = &end
	}
	record.CheckOut = &at

	return s.evaluateAndSave(ctx, record)
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	record, err := s.openRecord(ctx, employeeID, at)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if record.OpenBreak() >= 0 {
		return attendance.Attendance{}, attendance.ErrBreakAlreadyOpen
	}
	if at.Before(*record.CheckIn) {
		return attendance.Attendance{}, attendance.ErrBreakOutsideShift
	}

	record.Breaks = append(record.Breaks, attendance.Break{Start: at})
	return s.evaluateAndSave(ctx, record)
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	record, err := s.openRecord(ctx, employeeID, at)
	if err != nil {
		return attendance.Attendance{}, err
	}
	i := record.OpenBreak()
	if i < 0 {
		return attendance.Attendance{}, attendance.ErrNoOpenBreak
	}
	if at.Before(record.Breaks[i].Start) {
		return attendance.Attendance{}, attendance.ErrBreakOutsideShift
	}

	end := at
	record.Breaks[i].End = &end
	return s.evaluateAndSave(ctx, record)
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, bool, error) {
	day := s.policy.Day(date)
	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	if existing != nil {
		return *existing, false, nil
	}

	saved, err := s.evaluateAndSave(ctx, s.newRecord(employeeID, day))
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return saved, true, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	if to.Before(from) {
		return nil, attendance.ErrInvalidDateRange
	}

	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, s.policy.Day(from), s.policy.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// MonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlySummary(ctx context.Context, employeeID string, month, year int) (attendance.MonthlySummary, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	if len(errs) > 0 {
		return attendance.MonthlySummary{}, errs
	}

	from, to := MonthRange(year, month, s.policy.Location)
	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return Summarize(employeeID, from, to, records), nil
}

// MonthRange returns the first and last calendar day of the month.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, -1)
}

func (s *AttendanceServiceImpl) requireActiveEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeInactive
	}
	return nil
}

// openRecord loads the day's record of an employee who is clocked in and
// not yet clocked out.
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, s.policy.Day(at))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	if record == nil || record.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return *record, nil
}

func (s *AttendanceServiceImpl) newRecord(employeeID string, date time.Time) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             date,
		Status:           attendance.StatusAbsent,
		ExpectedCheckIn:  s.policy.ExpectedCheckIn,
		ExpectedCheckOut: s.policy.ExpectedCheckOut,
	}
}

func (s *AttendanceServiceImpl) evaluateAndSave(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	evaluated, err := Evaluate(record, s.policy)
	if err != nil {
		return attendance.Attendance{}, err
	}

	saved, err := s.AttendanceRepository.Upsert(ctx, evaluated)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return saved, nil
}
