package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusProcessed PaymentStatus = "processed"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessed, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the payment processor may move a record
// from s to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusProcessed
	case PaymentStatusProcessed:
		return next == PaymentStatusPaid || next == PaymentStatusFailed
	case PaymentStatusFailed:
		return next == PaymentStatusProcessed
	}
	return false
}

type Allowances struct {
	HRA      decimal.Decimal `json:"hra"`
	DA       decimal.Decimal `json:"da"`
	Travel   decimal.Decimal `json:"travel"`
	Medical  decimal.Decimal `json:"medical"`
	Bonus    decimal.Decimal `json:"bonus"`
	Overtime decimal.Decimal `json:"overtime"`
	Other    decimal.Decimal `json:"other"`
}

func (a Allowances) Total() decimal.Decimal {
	return decimal.Sum(a.HRA, a.DA, a.Travel, a.Medical, a.Bonus, a.Overtime, a.Other)
}

type Deductions struct {
	ProvidentFund  decimal.Decimal `json:"provident_fund"`
	StateInsurance decimal.Decimal `json:"state_insurance"`
	Tax            decimal.Decimal `json:"tax"`
	Loan           decimal.Decimal `json:"loan"`
	Advance        decimal.Decimal `json:"advance"`
	Other          decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.ProvidentFund, d.StateInsurance, d.Tax, d.Loan, d.Advance, d.Other)
}

// Adjustments are the components supplied by payroll staff rather than
// computed from attendance.
type Adjustments struct {
	Bonus          decimal.Decimal
	OtherAllowance decimal.Decimal
	Loan           decimal.Decimal
	Advance        decimal.Decimal
	OtherDeduction decimal.Decimal
}

// AttendanceMetrics is the month's attendance snapshot used for pro-ration.
type AttendanceMetrics struct {
	TotalWorkingDays  int             `json:"total_working_days"`
	PresentDays       int             `json:"present_days"`
	AbsentDays        int             `json:"absent_days"`
	HalfDays          int             `json:"half_days"`
	LateComingDays    int             `json:"late_coming_days"`
	EarlyGoingDays    int             `json:"early_going_days"`
	OvertimeHours     float64         `json:"overtime_hours"`
	ActualWorkingDays decimal.Decimal `json:"actual_working_days"`
}

// LeaveMetrics is the month's approved leave snapshot.
type LeaveMetrics struct {
	PaidLeaves   float64 `json:"paid_leaves"`
	UnpaidLeaves float64 `json:"unpaid_leaves"`
	SickLeaves   float64 `json:"sick_leaves"`
	CasualLeaves float64 `json:"casual_leaves"`
}

// PayrollRecord is one employee's pay for one month, unique per employee,
// month and year. GrossSalary, TotalDeductions and NetSalary are derived by
// DeriveTotals.
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	BasicSalary decimal.Decimal
	Allowances  Allowances
	Deductions  Deductions
	Attendance  AttendanceMetrics
	Leave       LeaveMetrics

	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	PaymentStatus PaymentStatus
	PaymentDate   *time.Time
	GeneratedBy   string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Adjustments extracts the externally supplied components of the record.
func (r PayrollRecord) Adjustments() Adjustments {
	return Adjustments{
		Bonus:          r.Allowances.Bonus,
		OtherAllowance: r.Allowances.Other,
		Loan:           r.Deductions.Loan,
		Advance:        r.Deductions.Advance,
		OtherDeduction: r.Deductions.Other,
	}
}

// ApplyAdjustments overwrites the externally supplied components.
func (r *PayrollRecord) ApplyAdjustments(adj Adjustments) {
	r.Allowances.Bonus = adj.Bonus
	r.Allowances.Other = adj.OtherAllowance
	r.Deductions.Loan = adj.Loan
	r.Deductions.Advance = adj.Advance
	r.Deductions.Other = adj.OtherDeduction
}

// DeriveTotals recomputes gross, total deductions and net from the
// components. Stores call it before every write.
func DeriveTotals(r PayrollRecord) PayrollRecord {
	r.GrossSalary = r.BasicSalary.Add(r.Allowances.Total())
	r.TotalDeductions = r.Deductions.Total()
	r.NetSalary = r.GrossSalary.Sub(r.TotalDeductions)
	return r
}
