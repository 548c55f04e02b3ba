package payroll

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/shopspring/decimal"
)

var half = decimal.RequireFromString("0.5")

// CalculationInput is everything the calculator reads for one employee and
// month. The caller is responsible for loading records in the period.
type CalculationInput struct {
	Employee    employee.Employee
	Month       int
	Year        int
	Attendance  []attendance.Attendance
	Leaves      []leave.LeaveRequest
	Adjustments payroll.Adjustments
}

// Calculate builds an unsaved payroll record. Totals are filled by
// payroll.DeriveTotals.
func Calculate(in CalculationInput, p policy.Payroll) payroll.PayrollRecord {
	from, to := PeriodRange(in.Month, in.Year)

	metrics := attendanceMetrics(in.Attendance)
	metrics.TotalWorkingDays = leave.CountBusinessDays(from, to)

	leaves := leaveMetrics(in.Leaves, from, to, p)

	metrics.ActualWorkingDays = decimal.NewFromInt(int64(metrics.PresentDays)).
		Add(decimal.NewFromInt(int64(metrics.HalfDays)).Mul(half)).
		Add(decimal.NewFromFloat(leaves.PaidLeaves))

	factor, err := prorationFactor(metrics.ActualWorkingDays, metrics.TotalWorkingDays)
	if err != nil {
		slog.Warn("no working days in period, pro-ration factor set to zero",
			"employee_id", in.Employee.ID, "month", in.Month, "year", in.Year)
	}
	basic := in.Employee.BaseSalary.Mul(factor).Round(2)

	record := payroll.PayrollRecord{
		EmployeeID:  in.Employee.ID,
		PeriodMonth: in.Month,
		PeriodYear:  in.Year,
		BasicSalary: basic,
		Allowances: payroll.Allowances{
			HRA:      basic.Mul(p.HRARate).Round(2),
			DA:       basic.Mul(p.DARate).Round(2),
			Travel:   p.TravelAllowance,
			Medical:  p.MedicalAllowance,
			Overtime: decimal.NewFromFloat(metrics.OvertimeHours).Mul(p.OvertimeRate).Round(2),
		},
		Attendance:    metrics,
		Leave:         leaves,
		PaymentStatus: payroll.PaymentStatusPending,
	}
	record.ApplyAdjustments(in.Adjustments)

	gross := record.BasicSalary.Add(record.Allowances.Total())
	record.Deductions.ProvidentFund = basic.Mul(p.ProvidentFundRate).Round(2)
	record.Deductions.StateInsurance = gross.Mul(p.StateInsuranceRate).Round(2)
	record.Deductions.Tax = MonthlyTax(gross.Mul(monthsPerYear), p.TaxSlabs)

	name, code := in.Employee.FullName, in.Employee.EmployeeCode
	record.EmployeeName = &name
	record.EmployeeCode = &code

	return payroll.DeriveTotals(record)
}

// PeriodRange returns the first and last calendar dates of the month.
func PeriodRange(month, year int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)
	return from, to
}

func prorationFactor(actual decimal.Decimal, totalWorkingDays int) (decimal.Decimal, error) {
	if totalWorkingDays == 0 {
		return decimal.Zero, payroll.ErrDivisionDegenerate
	}
	return actual.Div(decimal.NewFromInt(int64(totalWorkingDays))), nil
}

func attendanceMetrics(records []attendance.Attendance) payroll.AttendanceMetrics {
	var m payroll.AttendanceMetrics
	for _, a := range records {
		switch a.Status {
		case attendance.StatusPresent:
			m.PresentDays++
		case attendance.StatusAbsent:
			m.AbsentDays++
		case attendance.StatusHalfDay:
			m.HalfDays++
		}
		if a.IsLateCheckIn {
			m.LateComingDays++
		}
		if a.IsEarlyCheckOut {
			m.EarlyGoingDays++
		}
		m.OvertimeHours += a.OvertimeHours
	}
	m.OvertimeHours = roundHours(m.OvertimeHours)
	return m
}

// leaveMetrics counts only the days of each approved request that fall in
// the period, so a leave spanning two months is split between them.
func leaveMetrics(requests []leave.LeaveRequest, from, to time.Time, p policy.Payroll) payroll.LeaveMetrics {
	var m payroll.LeaveMetrics
	for _, r := range requests {
		if r.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		days := leave.DaysWithin(r, from, to)
		switch {
		case p.IsPaidLeave(r.Type):
			m.PaidLeaves += days
		case p.IsUnpaidLeave(r.Type):
			m.UnpaidLeaves += days
		}
		switch r.Type {
		case leave.LeaveTypeSick:
			m.SickLeaves += days
		case leave.LeaveTypePersonal:
			m.CasualLeaves += days
		}
	}
	return m
}

func roundHours(h float64) float64 {
	f, _ := decimal.NewFromFloat(h).Round(2).Float64()
	return f
}
