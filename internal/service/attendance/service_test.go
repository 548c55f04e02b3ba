package attendance

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttendanceService(t *testing.T) attendance.AttendanceService {
	t.Helper()
	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", EmployeeCode: "E-001"},
		employee.Employee{ID: "emp-gone", EmployeeCode: "E-002", EmploymentStatus: employee.EmploymentStatusInactive},
	)
	return NewAttendanceService(memory.NewAttendanceRepository(), employees, policy.Default().Attendance)
}

// ===== PUNCH TESTS =====

func TestAttendanceService_FullDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendanceService(t)

	a, err := svc.CheckIn(ctx, "emp-1", *at(8, 55))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, a.Status)

	_, err = svc.StartBreak(ctx, "emp-1", *at(12, 0))
	require.NoError(t, err)
	_, err = svc.StartBreak(ctx, "emp-1", *at(12, 5))
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyOpen)

	a, err = svc.EndBreak(ctx, "emp-1", *at(12, 30))
	require.NoError(t, err)
	assert.Equal(t, 30.0, a.TotalBreakMinutes)

	_, err = svc.EndBreak(ctx, "emp-1", *at(12, 40))
	assert.ErrorIs(t, err, attendance.ErrNoOpenBreak)

	a, err = svc.CheckOut(ctx, "emp-1", *at(18, 10))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, a.Status)
	assert.InDelta(t, 8.75, a.WorkingHours, 1e-9)
	assert.InDelta(t, 0.75, a.OvertimeHours, 1e-9)
	assert.Equal(t, "2025-03-03", a.Date.Format("2006-01-02"))

	_, err = svc.CheckOut(ctx, "emp-1", *at(18, 20))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_CheckOutClosesOpenBreak(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendanceService(t)

	_, err := svc.CheckIn(ctx, "emp-1", *at(9, 0))
	require.NoError(t, err)
	_, err = svc.StartBreak(ctx, "emp-1", *at(12, 0))
	require.NoError(t, err)

	a, err := svc.CheckOut(ctx, "emp-1", *at(13, 0))
	require.NoError(t, err)
	require.Len(t, a.Breaks, 1)
	require.NotNil(t, a.Breaks[0].End)
	assert.Equal(t, 60.0, a.TotalBreakMinutes)
	assert.Equal(t, attendance.StatusEarlyCheckout, a.Status)
}

func TestAttendanceService_PunchErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendanceService(t)

	_, err := svc.CheckOut(ctx, "emp-1", *at(18, 0))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.StartBreak(ctx, "emp-1", *at(12, 0))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, "nobody", *at(9, 0))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CheckIn(ctx, "emp-gone", *at(9, 0))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = svc.CheckIn(ctx, "emp-1", *at(9, 0))
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "emp-1", *at(9, 5))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = svc.StartBreak(ctx, "emp-1", *at(8, 0))
	assert.ErrorIs(t, err, attendance.ErrBreakOutsideShift)

	_, err = svc.CheckOut(ctx, "emp-1", *at(8, 30))
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

// ===== ABSENCE TESTS =====

func TestAttendanceService_MarkAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendanceService(t)

	a, created, err := svc.MarkAbsent(ctx, "emp-1", testDay)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, attendance.StatusAbsent, a.Status)

	_, created, err = svc.MarkAbsent(ctx, "emp-1", testDay)
	require.NoError(t, err)
	assert.False(t, created)

	// a late punch on an absent day replaces the absence
	a, err = svc.CheckIn(ctx, "emp-1", *at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, a.Status)
}

// ===== QUERY TESTS =====

func TestAttendanceService_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendanceService(t)

	_, err := svc.CheckIn(ctx, "emp-1", *at(9, 0))
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", *at(18, 0))
	require.NoError(t, err)
	_, _, err = svc.MarkAbsent(ctx, "emp-1", testDay.AddDate(0, 0, 1))
	require.NoError(t, err)

	s, err := svc.MonthlySummary(ctx, "emp-1", 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalDays)
	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.InDelta(t, 9.0, s.TotalWorkingHours, 1e-9)

	records, err := svc.List(ctx, "emp-1", testDay, testDay.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = svc.List(ctx, "emp-1", testDay, testDay.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestAttendanceService_MonthlySummary_Validation(t *testing.T) {
	svc := newTestAttendanceService(t)

	_, err := svc.MonthlySummary(context.Background(), "", 13, 1999)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}
