package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.basic_salary,
	pr.allowances, pr.deductions, pr.attendance_metrics, pr.leave_metrics,
	pr.gross_salary, pr.total_deductions, pr.net_salary,
	pr.payment_status, pr.payment_date, pr.generated_by, pr.created_at, pr.updated_at,
	e.full_name, e.employee_code`

const payrollFrom = `FROM payroll_records pr
	LEFT JOIN employees e ON e.id = pr.employee_id`

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` ` + payrollFrom + ` WHERE pr.id = $1`

	return r.getOne(q.QueryRow(ctx, query, id))
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` ` + payrollFrom + `
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3`

	return r.getOne(q.QueryRow(ctx, query, employeeID, month, year))
}

// Upsert implements payroll.PayrollRepository. Totals are always re-derived
// from the components before the write.
func (r *payrollRepository) Upsert(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	record = payroll.DeriveTotals(record)

	allowances, err := json.Marshal(record.Allowances)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductions, err := json.Marshal(record.Deductions)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to encode deductions: %w", err)
	}
	attendanceMetrics, err := json.Marshal(record.Attendance)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to encode attendance metrics: %w", err)
	}
	leaveMetrics, err := json.Marshal(record.Leave)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to encode leave metrics: %w", err)
	}

	if record.PaymentStatus == "" {
		record.PaymentStatus = payroll.PaymentStatusPending
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year, basic_salary,
			allowances, deductions, attendance_metrics, leave_metrics,
			gross_salary, total_deductions, net_salary,
			payment_status, payment_date, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (employee_id, period_month, period_year) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			allowances = EXCLUDED.allowances,
			deductions = EXCLUDED.deductions,
			attendance_metrics = EXCLUDED.attendance_metrics,
			leave_metrics = EXCLUDED.leave_metrics,
			gross_salary = EXCLUDED.gross_salary,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			payment_status = EXCLUDED.payment_status,
			payment_date = EXCLUDED.payment_date,
			generated_by = EXCLUDED.generated_by,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var id string
	var inserted bool
	err = q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.BasicSalary,
		allowances, deductions, attendanceMetrics, leaveMetrics,
		record.GrossSalary, record.TotalDeductions, record.NetSalary,
		record.PaymentStatus, record.PaymentDate, record.GeneratedBy,
	).Scan(&id, &inserted)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	saved, err := r.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return saved, inserted, nil
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` ` + payrollFrom + `
		WHERE pr.period_month = $1 AND pr.period_year = $2
		ORDER BY e.employee_code, pr.employee_id`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *payrollRepository) getOne(row pgx.Row) (payroll.PayrollRecord, error) {
	record, err := scanPayrollRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	var allowances, deductions, attendanceMetrics, leaveMetrics []byte

	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.PeriodMonth, &r.PeriodYear, &r.BasicSalary,
		&allowances, &deductions, &attendanceMetrics, &leaveMetrics,
		&r.GrossSalary, &r.TotalDeductions, &r.NetSalary,
		&r.PaymentStatus, &r.PaymentDate, &r.GeneratedBy, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	for _, part := range []struct {
		raw  []byte
		dest interface{}
	}{
		{allowances, &r.Allowances},
		{deductions, &r.Deductions},
		{attendanceMetrics, &r.Attendance},
		{leaveMetrics, &r.Leave},
	} {
		if err := json.Unmarshal(part.raw, part.dest); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to decode payroll components: %w", err)
		}
	}
	return r, nil
}
