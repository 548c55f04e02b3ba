package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSetup    *TestDatabaseSetup
	testSetupErr error
	testDBOnce   sync.Once
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	testDBOnce.Do(func() {
		testSetup, testSetupErr = NewTestDatabase(ctx, dsn)
	})
	require.NoError(t, testSetupErr)
	require.NoError(t, testSetup.TruncateAllTables(ctx))
	return testSetup.DB
}

func createEmployee(t *testing.T, db *database.DB, code string) employee.Employee {
	t.Helper()
	e, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		BaseSalary:   decimal.NewFromInt(42000),
		HireDate:     time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return e
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository_GetAndListActive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	e := createEmployee(t, db, "E-001")
	_, err := repo.Create(ctx, employee.Employee{EmployeeCode: "E-002", FullName: "Left", EmploymentStatus: employee.EmploymentStatusInactive})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.BaseSalary.Equal(decimal.NewFromInt(42000)))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "E-001", active[0].EmployeeCode)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	e := createEmployee(t, db, "E-001")

	checkIn := time.Date(2025, time.March, 3, 8, 55, 0, 0, time.UTC)
	breakEnd := checkIn.Add(4 * time.Hour)
	first, err := repo.Upsert(ctx, attendance.Attendance{
		EmployeeID:       e.ID,
		Date:             date("2025-03-03"),
		CheckIn:          &checkIn,
		Status:           attendance.StatusPresent,
		Breaks:           []attendance.Break{{Start: checkIn.Add(3 * time.Hour), End: &breakEnd}},
		ExpectedCheckIn:  "09:00",
		ExpectedCheckOut: "18:00",
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, attendance.Attendance{
		EmployeeID:       e.ID,
		Date:             date("2025-03-03"),
		CheckIn:          &checkIn,
		Status:           attendance.StatusLate,
		Breaks:           first.Breaks,
		ExpectedCheckIn:  "09:00",
		ExpectedCheckOut: "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByEmployeeAndDate(ctx, e.ID, date("2025-03-03"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusLate, got.Status)
	require.Len(t, got.Breaks, 1)
	require.NotNil(t, got.Breaks[0].End)

	missing, err := repo.GetByEmployeeAndDate(ctx, e.ID, date("2025-03-04"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	records, err := repo.ListByEmployee(ctx, e.ID, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// ===== LEAVE REQUEST REPOSITORY TESTS =====

func TestLeaveRequestRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(db)
	e := createEmployee(t, db, "E-001")

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: e.ID,
		Type:       leave.LeaveTypeAnnual,
		StartDate:  date("2025-03-03"),
		EndDate:    date("2025-03-09"),
		Reason:     "trip",
		Status:     leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, created.TotalDays)

	overlapping, err := repo.FindOverlapping(ctx, e.ID, date("2025-03-07"), date("2025-03-12"), "")
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	approvedBy := "mgr-1"
	created.Status = leave.LeaveRequestStatusApproved
	created.ApprovedBy = &approvedBy
	require.NoError(t, repo.Update(ctx, created))

	byYear, err := repo.ListApprovedByYear(ctx, e.ID, 2025)
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "mgr-1", *byYear[0].ApprovedBy)

	inMonth, err := repo.ListApprovedOverlapping(ctx, e.ID, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Len(t, inMonth, 1)

	nextMonth, err := repo.ListApprovedOverlapping(ctx, e.ID, date("2025-04-01"), date("2025-04-30"))
	require.NoError(t, err)
	assert.Empty(t, nextMonth)

	err = repo.Update(ctx, leave.LeaveRequest{ID: "missing", StartDate: date("2025-03-03"), EndDate: date("2025-03-03")})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

// ===== PAYROLL REPOSITORY TESTS =====

func TestPayrollRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)
	e := createEmployee(t, db, "E-001")

	record := payroll.PayrollRecord{
		EmployeeID:  e.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		BasicSalary: decimal.NewFromInt(41000),
		Allowances:  payroll.Allowances{HRA: decimal.NewFromInt(16400)},
		Deductions:  payroll.Deductions{ProvidentFund: decimal.NewFromInt(4920)},
		Attendance:  payroll.AttendanceMetrics{TotalWorkingDays: 21, ActualWorkingDays: decimal.RequireFromString("20.5")},
		GeneratedBy: "hr-admin",
	}

	saved, created, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, saved.GrossSalary.Equal(decimal.NewFromInt(57400)))
	assert.True(t, saved.NetSalary.Equal(decimal.NewFromInt(52480)))
	assert.Equal(t, payroll.PaymentStatusPending, saved.PaymentStatus)
	require.NotNil(t, saved.EmployeeCode)
	assert.Equal(t, "E-001", *saved.EmployeeCode)

	record.Allowances.Bonus = decimal.NewFromInt(100)
	updated, created, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, updated.GrossSalary.Equal(decimal.NewFromInt(57500)))
	assert.Equal(t, 21, updated.Attendance.TotalWorkingDays)

	list, err := repo.ListByPeriod(ctx, 3, 2025)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByEmployeePeriod(ctx, e.ID, 4, 2025)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

// ===== TRANSACTION TESTS =====

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(db)
	repo := postgresql.NewEmployeeRepository(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, employee.Employee{EmployeeCode: "E-TX", FullName: "Rolled Back"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, fmt.Sprintf("%v", active))
}
