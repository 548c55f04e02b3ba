package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	saved := repo.Save(employee.Employee{EmployeeCode: "E-001", FullName: "Dana Whitfield"})

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "E-001", got.EmployeeCode)
	assert.Equal(t, employee.EmploymentStatusActive, got.EmploymentStatus)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ListActive_SkipsInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(
		employee.Employee{ID: "b", EmployeeCode: "E-002"},
		employee.Employee{ID: "a", EmployeeCode: "E-001"},
		employee.Employee{ID: "c", EmployeeCode: "E-003", EmploymentStatus: employee.EmploymentStatusInactive},
	)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "E-001", active[0].EmployeeCode)
	assert.Equal(t, "E-002", active[1].EmployeeCode)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_Upsert_OnePerEmployeeAndDate(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	first, err := repo.Upsert(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: date("2025-03-03"), Status: attendance.StatusAbsent})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.Upsert(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: date("2025-03-03"), Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date("2025-03-03"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusPresent, got.Status)

	missing, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date("2025-03-04"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_BreaksAreNotShared(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	start := date("2025-03-03").Add(12 * time.Hour)

	_, err := repo.Upsert(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       date("2025-03-03"),
		Breaks:     []attendance.Break{{Start: start}},
	})
	require.NoError(t, err)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date("2025-03-03"))
	require.NoError(t, err)
	end := start.Add(30 * time.Minute)
	got.Breaks[0].End = &end

	again, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date("2025-03-03"))
	require.NoError(t, err)
	assert.Nil(t, again.Breaks[0].End)
}

func TestAttendanceRepository_ListByEmployee_InclusiveRange(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	for _, d := range []string{"2025-02-28", "2025-03-01", "2025-03-15", "2025-03-31", "2025-04-01"} {
		_, err := repo.Upsert(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: date(d)})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, attendance.Attendance{EmployeeID: "emp-2", Date: date("2025-03-10")})
	require.NoError(t, err)

	records, err := repo.ListByEmployee(ctx, "emp-1", date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-03-01", records[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", records[2].Date.Format("2006-01-02"))
}

// ===== LEAVE REQUEST REPOSITORY TESTS =====

func TestLeaveRequestRepository_Create_DerivesTotalDays(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "emp-1",
		Type:       leave.LeaveTypeAnnual,
		StartDate:  date("2025-03-03"),
		EndDate:    date("2025-03-09"),
		TotalDays:  42,
		Status:     leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, created.TotalDays)

	_, err = repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "emp-1",
		StartDate:  date("2025-03-09"),
		EndDate:    date("2025-03-03"),
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestLeaveRequestRepository_Update_RederivesTotalDays(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "emp-1",
		StartDate:  date("2025-03-03"),
		EndDate:    date("2025-03-04"),
	})
	require.NoError(t, err)

	created.EndDate = date("2025-03-03")
	created.IsHalfDay = true
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.TotalDays)

	err = repo.Update(ctx, leave.LeaveRequest{ID: "missing", StartDate: date("2025-03-03"), EndDate: date("2025-03-03")})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_FindOverlapping(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	pending, err := repo.Create(ctx, leave.LeaveRequest{EmployeeID: "emp-1", StartDate: date("2025-03-03"), EndDate: date("2025-03-05"), Status: leave.LeaveRequestStatusPending})
	require.NoError(t, err)
	_, err = repo.Create(ctx, leave.LeaveRequest{EmployeeID: "emp-1", StartDate: date("2025-03-04"), EndDate: date("2025-03-04"), Status: leave.LeaveRequestStatusRejected})
	require.NoError(t, err)
	_, err = repo.Create(ctx, leave.LeaveRequest{EmployeeID: "emp-2", StartDate: date("2025-03-04"), EndDate: date("2025-03-04"), Status: leave.LeaveRequestStatusApproved})
	require.NoError(t, err)

	found, err := repo.FindOverlapping(ctx, "emp-1", date("2025-03-05"), date("2025-03-10"), "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)

	found, err = repo.FindOverlapping(ctx, "emp-1", date("2025-03-05"), date("2025-03-10"), pending.ID)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.FindOverlapping(ctx, "emp-1", date("2025-03-06"), date("2025-03-10"), "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLeaveRequestRepository_ListApproved(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository()

	for _, r := range []leave.LeaveRequest{
		{EmployeeID: "emp-1", StartDate: date("2024-12-30"), EndDate: date("2025-01-02"), Status: leave.LeaveRequestStatusApproved},
		{EmployeeID: "emp-1", StartDate: date("2025-03-03"), EndDate: date("2025-03-03"), Status: leave.LeaveRequestStatusApproved},
		{EmployeeID: "emp-1", StartDate: date("2025-03-10"), EndDate: date("2025-03-10"), Status: leave.LeaveRequestStatusPending},
		{EmployeeID: "emp-1", StartDate: date("2025-03-31"), EndDate: date("2025-04-01"), Status: leave.LeaveRequestStatusApproved},
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	byYear, err := repo.ListApprovedByYear(ctx, "emp-1", 2025)
	require.NoError(t, err)
	assert.Len(t, byYear, 2)

	inMarch, err := repo.ListApprovedOverlapping(ctx, "emp-1", date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, inMarch, 2)
	assert.Equal(t, 2.0, inMarch[1].TotalDays)

	inApril, err := repo.ListApprovedOverlapping(ctx, "emp-1", date("2025-04-01"), date("2025-04-30"))
	require.NoError(t, err)
	require.Len(t, inApril, 1)
	assert.Equal(t, "2025-03-31", inApril[0].StartDate.Format("2006-01-02"))

	inJanuary, err := repo.ListApprovedOverlapping(ctx, "emp-1", date("2025-01-01"), date("2025-01-31"))
	require.NoError(t, err)
	assert.Len(t, inJanuary, 1)
}

// ===== PAYROLL REPOSITORY TESTS =====

func TestPayrollRepository_Upsert_ReportsCreatedAndDerivesTotals(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository()

	record := payroll.PayrollRecord{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
		BasicSalary: decimal.NewFromInt(50000),
		Allowances:  payroll.Allowances{HRA: decimal.NewFromInt(20000)},
		Deductions:  payroll.Deductions{ProvidentFund: decimal.NewFromInt(6000)},
		NetSalary:   decimal.NewFromInt(1),
	}

	saved, created, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, saved.GrossSalary.Equal(decimal.NewFromInt(70000)))
	assert.True(t, saved.NetSalary.Equal(decimal.NewFromInt(64000)))

	record.BasicSalary = decimal.NewFromInt(60000)
	again, created, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, saved.ID, again.ID)

	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, byID.GrossSalary.Equal(decimal.NewFromInt(80000)))

	_, err = repo.GetByEmployeePeriod(ctx, "emp-1", 4, 2025)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollRepository_ListByPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository()
	for _, r := range []payroll.PayrollRecord{
		{EmployeeID: "emp-2", PeriodMonth: 3, PeriodYear: 2025},
		{EmployeeID: "emp-1", PeriodMonth: 3, PeriodYear: 2025},
		{EmployeeID: "emp-1", PeriodMonth: 3, PeriodYear: 2024},
	} {
		_, _, err := repo.Upsert(ctx, r)
		require.NoError(t, err)
	}

	records, err := repo.ListByPeriod(ctx, 3, 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "emp-1", records[0].EmployeeID)
}
