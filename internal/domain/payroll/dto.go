package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	GeneratedBy string   `json:"-"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "at least one employee is required"})
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty ids"})
			break
		}
	}
	if !validator.IsValidMonth(r.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}
	if validator.IsEmpty(r.GeneratedBy) {
		errs = append(errs, validator.ValidationError{Field: "generated_by", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerationOutcome string

const (
	OutcomeCreated GenerationOutcome = "created"
	OutcomeUpdated GenerationOutcome = "updated"
	OutcomeError   GenerationOutcome = "error"
)

type GenerationResult struct {
	EmployeeID string            `json:"employee_id"`
	Outcome    GenerationOutcome `json:"outcome"`
	RecordID   string            `json:"record_id,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type GeneratePayrollResponse struct {
	PeriodMonth int                `json:"period_month"`
	PeriodYear  int                `json:"period_year"`
	Results     []GenerationResult `json:"results"`
	Created     int                `json:"created"`
	Updated     int                `json:"updated"`
	Failed      int                `json:"failed"`
}

// ========== RECORD DTOs ==========

type UpdateAdjustmentsRequest struct {
	ID             string           `json:"-"`
	Bonus          *decimal.Decimal `json:"bonus,omitempty"`
	OtherAllowance *decimal.Decimal `json:"other_allowance,omitempty"`
	Loan           *decimal.Decimal `json:"loan,omitempty"`
	Advance        *decimal.Decimal `json:"advance,omitempty"`
	OtherDeduction *decimal.Decimal `json:"other_deduction,omitempty"`
}

func (r *UpdateAdjustmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"bonus", r.Bonus},
		{"other_allowance", r.OtherAllowance},
		{"loan", r.Loan},
		{"advance", r.Advance},
		{"other_deduction", r.OtherDeduction},
	}
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the supplied fields over adj.
func (r *UpdateAdjustmentsRequest) Apply(adj Adjustments) Adjustments {
	if r.Bonus != nil {
		adj.Bonus = *r.Bonus
	}
	if r.OtherAllowance != nil {
		adj.OtherAllowance = *r.OtherAllowance
	}
	if r.Loan != nil {
		adj.Loan = *r.Loan
	}
	if r.Advance != nil {
		adj.Advance = *r.Advance
	}
	if r.OtherDeduction != nil {
		adj.OtherDeduction = *r.OtherDeduction
	}
	return adj
}

type UpdatePaymentStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if !PaymentStatus(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of pending, processed, paid, failed"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRecordResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    string            `json:"employee_name,omitempty"`
	EmployeeCode    string            `json:"employee_code,omitempty"`
	PeriodMonth     int               `json:"period_month"`
	PeriodYear      int               `json:"period_year"`
	BasicSalary     decimal.Decimal   `json:"basic_salary"`
	Allowances      Allowances        `json:"allowances"`
	Deductions      Deductions        `json:"deductions"`
	Attendance      AttendanceMetrics `json:"attendance"`
	Leave           LeaveMetrics      `json:"leave"`
	GrossSalary     decimal.Decimal   `json:"gross_salary"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
	NetSalary       decimal.Decimal   `json:"net_salary"`
	PaymentStatus   string            `json:"payment_status"`
	PaymentDate     *string           `json:"payment_date,omitempty"`
	GeneratedBy     string            `json:"generated_by"`
}

func NewPayrollRecordResponse(r PayrollRecord) PayrollRecordResponse {
	var paymentDate *string
	if r.PaymentDate != nil {
		str := r.PaymentDate.Format(time.RFC3339)
		paymentDate = &str
	}

	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employeeName,
		EmployeeCode:    employeeCode,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		BasicSalary:     r.BasicSalary,
		Allowances:      r.Allowances,
		Deductions:      r.Deductions,
		Attendance:      r.Attendance,
		Leave:           r.Leave,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		PaymentStatus:   string(r.PaymentStatus),
		PaymentDate:     paymentDate,
		GeneratedBy:     r.GeneratedBy,
	}
}

func NewPayrollRecordResponses(records []PayrollRecord) []PayrollRecordResponse {
	result := make([]PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, NewPayrollRecordResponse(r))
	}
	return result
}
