package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// Calculate computes one month's payroll without persisting it.
	Calculate(ctx context.Context, employeeID string, month, year int, adj Adjustments) (PayrollRecord, error)

	// Generate runs Calculate for each employee and upserts the results.
	// Per-employee failures are reported in the response, never returned.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	Get(ctx context.Context, employeeID string, month, year int) (PayrollRecordResponse, error)
	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecordResponse, error)
	UpdateAdjustments(ctx context.Context, req UpdateAdjustmentsRequest) (PayrollRecordResponse, error)
	UpdatePaymentStatus(ctx context.Context, req UpdatePaymentStatusRequest) (PayrollRecordResponse, error)

	// ExportRegister writes the period's records as an xlsx workbook.
	ExportRegister(ctx context.Context, month, year int, w io.Writer) error
}
