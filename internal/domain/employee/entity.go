package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the master data the engine reads. Profile maintenance lives
// outside this service.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	BaseSalary       decimal.Decimal // monthly
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
