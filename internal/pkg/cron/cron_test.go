package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployees() *memory.EmployeeRepository {
	return memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", EmployeeCode: "E-001", FullName: "Dana Whitfield", BaseSalary: decimal.NewFromInt(42000)},
		employee.Employee{ID: "emp-2", EmployeeCode: "E-002", FullName: "Rui Okafor", BaseSalary: decimal.NewFromInt(50000)},
		employee.Employee{ID: "emp-gone", EmployeeCode: "E-009", EmploymentStatus: employee.EmploymentStatusInactive},
	)
}

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(context.Background())

	require.NoError(t, s.AddJob("a", time.Minute, func(context.Context) error { return nil }))
	assert.Error(t, s.AddJob("zero", 0, func(context.Context) error { return nil }))
	assert.Equal(t, []string{"a"}, s.Jobs())
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")
	var ran int32

	require.NoError(t, s.AddJob("ok", time.Minute, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}))
	require.NoError(t, s.AddJob("bad", time.Minute, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return boom
	}))

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	started := make(chan struct{}, 1)

	require.NoError(t, s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	assert.Error(t, s.AddJob("late", time.Minute, func(context.Context) error { return nil }))
	s.Stop()
}

func TestPreviousBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"tuesday", time.Date(2025, time.March, 4, 1, 0, 0, 0, time.UTC), time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{"monday skips weekend", time.Date(2025, time.March, 3, 1, 0, 0, 0, time.UTC), time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC), time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, previousBusinessDay(tt.now))
		})
	}
}

func TestAttendanceJobs_MarkAbsentEmployees(t *testing.T) {
	ctx := context.Background()
	employees := testEmployees()
	attendanceRepo := memory.NewAttendanceRepository()
	leaveRepo := memory.NewLeaveRequestRepository()
	svc := attendanceService.NewAttendanceService(attendanceRepo, employees, policy.Default().Attendance)

	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	// emp-2 is on approved leave on the day being closed
	_, err := leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "emp-2",
		Type:       leave.LeaveTypeAnnual,
		StartDate:  monday,
		EndDate:    monday,
		Status:     leave.LeaveRequestStatusApproved,
	})
	require.NoError(t, err)

	jobs := NewAttendanceJobs(svc, employees, leaveRepo, time.UTC)
	jobs.now = func() time.Time { return time.Date(2025, time.March, 4, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.MarkAbsentEmployees(ctx))

	record, err := attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, attendance.StatusAbsent, record.Status)

	onLeave, err := attendanceRepo.GetByEmployeeAndDate(ctx, "emp-2", monday)
	require.NoError(t, err)
	assert.Nil(t, onLeave)

	inactive, err := attendanceRepo.GetByEmployeeAndDate(ctx, "emp-gone", monday)
	require.NoError(t, err)
	assert.Nil(t, inactive)

	// second run leaves the record untouched
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	again, err := attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", monday)
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)
}

func TestPayrollJobs_GenerateMonthlyPayroll(t *testing.T) {
	ctx := context.Background()
	employees := testEmployees()
	payrollRepo := memory.NewPayrollRepository()
	svc := payrollService.NewPayrollService(
		memory.NewTransactor(),
		payrollRepo,
		employees,
		memory.NewAttendanceRepository(),
		memory.NewLeaveRequestRepository(),
		policy.Default().Payroll,
		nil,
	)

	jobs := NewPayrollJobs(svc, employees, time.UTC)

	t.Run("not the first of the month", func(t *testing.T) {
		jobs.now = func() time.Time { return time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC) }
		require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))

		records, err := payrollRepo.ListByPeriod(ctx, 3, 2025)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("first of the month generates the previous month", func(t *testing.T) {
		jobs.now = func() time.Time { return time.Date(2025, time.April, 1, 0, 15, 0, 0, time.UTC) }
		require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))

		records, err := payrollRepo.ListByPeriod(ctx, 3, 2025)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, SystemGenerator, r.GeneratedBy)
		}
		assert.Equal(t, "2025-03", jobs.lastRun)
	})

	t.Run("january rolls back to december", func(t *testing.T) {
		jobs.now = func() time.Time { return time.Date(2026, time.January, 1, 3, 0, 0, 0, time.UTC) }
		require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))

		records, err := payrollRepo.ListByPeriod(ctx, 12, 2025)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
