package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

// SystemGenerator is recorded as generatedBy on scheduled payroll runs.
const SystemGenerator = "system"

type PayrollJobs struct {
	payrollSvc   payroll.PayrollService
	employeeRepo employee.EmployeeRepository
	location     *time.Location
	now          func() time.Time

	mu      sync.Mutex
	lastRun string // "YYYY-MM" of the last generated period
}

func NewPayrollJobs(payrollSvc payroll.PayrollService, employeeRepo employee.EmployeeRepository, location *time.Location) *PayrollJobs {
	if location == nil {
		location = time.UTC
	}
	return &PayrollJobs{
		payrollSvc:   payrollSvc,
		employeeRepo: employeeRepo,
		location:     location,
		now:          time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) error {
	return scheduler.AddJob("generate_monthly_payroll", interval, j.GenerateMonthlyPayroll)
}

// GenerateMonthlyPayroll generates the previous month's payroll for all
// active employees. It only acts on the first day of a month and at most
// once per period per process.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Day() != 1 {
		return nil
	}

	prev := now.AddDate(0, -1, 0)
	month, year := int(prev.Month()), prev.Year()
	period := fmt.Sprintf("%04d-%02d", year, month)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastRun == period {
		return nil
	}

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(employees) == 0 {
		slog.Info("Cron: No active employees for payroll", "period", period)
		j.lastRun = period
		return nil
	}

	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}

	slog.Info("Cron: Starting monthly payroll generation", "period", period, "employees", len(ids))

	resp, err := j.payrollSvc.Generate(ctx, payroll.GeneratePayrollRequest{
		EmployeeIDs: ids,
		PeriodMonth: month,
		PeriodYear:  year,
		GeneratedBy: SystemGenerator,
	})
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %s: %w", period, err)
	}
	j.lastRun = period

	slog.Info("Cron: Monthly payroll generated",
		"period", period,
		"created", resp.Created,
		"updated", resp.Updated,
		"failed", resp.Failed)
	return nil
}
