package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

type payrollKey struct {
	employeeID string
	month      int
	year       int
}

type PayrollRepository struct {
	mu      sync.RWMutex
	records map[payrollKey]payroll.PayrollRecord
	byID    map[string]payrollKey
}

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{
		records: make(map[payrollKey]payroll.PayrollRecord),
		byID:    make(map[string]payrollKey),
	}
}

func (r *PayrollRepository) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byID[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r.records[key], nil
}

func (r *PayrollRepository) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[payrollKey{employeeID, month, year}]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

func (r *PayrollRepository) Upsert(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	record = payroll.DeriveTotals(record)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := payrollKey{record.EmployeeID, record.PeriodMonth, record.PeriodYear}
	existing, exists := r.records[key]
	if exists {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = newID()
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	r.records[key] = record
	r.byID[record.ID] = key
	return record, !exists, nil
}

func (r *PayrollRepository) ListByPeriod(_ context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []payroll.PayrollRecord
	for key, record := range r.records {
		if key.month == month && key.year == year {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}
