package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type employeeSeed struct {
	ID               string          `json:"id"`
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	HireDate         string          `json:"hire_date"`
	EmploymentStatus string          `json:"employment_status"`
}

// DecodeEmployees reads a JSON array of employees used to populate the
// in-memory directory.
func DecodeEmployees(r io.Reader) ([]employee.Employee, error) {
	var seeds []employeeSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("failed to decode employee seed: %w", err)
	}

	employees := make([]employee.Employee, 0, len(seeds))
	for i, s := range seeds {
		if s.EmployeeCode == "" {
			return nil, fmt.Errorf("employee seed %d: employee_code is required", i)
		}
		if s.BaseSalary.IsNegative() {
			return nil, fmt.Errorf("employee seed %d: base_salary must be non-negative", i)
		}

		e := employee.Employee{
			ID:               s.ID,
			EmployeeCode:     s.EmployeeCode,
			FullName:         s.FullName,
			BaseSalary:       s.BaseSalary,
			EmploymentStatus: employee.EmploymentStatus(s.EmploymentStatus),
		}
		if s.HireDate != "" {
			hired, err := time.Parse("2006-01-02", s.HireDate)
			if err != nil {
				return nil, fmt.Errorf("employee seed %d: invalid hire_date: %w", i, err)
			}
			e.HireDate = hired
		}
		employees = append(employees, e)
	}
	return employees, nil
}
