package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)

	// Upsert inserts or replaces the record keyed by employee, month and
	// year. created reports whether a new row was inserted.
	Upsert(ctx context.Context, record PayrollRecord) (saved PayrollRecord, created bool, err error)

	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecord, error)
}
