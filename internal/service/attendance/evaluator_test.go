package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) *time.Time {
	t := testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &t
}

func evaluate(t *testing.T, in, out *time.Time, breaks ...attendance.Break) attendance.Attendance {
	t.Helper()
	a, err := Evaluate(attendance.Attendance{Date: testDay, CheckIn: in, CheckOut: out, Breaks: breaks}, policy.Default().Attendance)
	require.NoError(t, err)
	return a
}

func TestEvaluate_OnTimeWithOvertime(t *testing.T) {
	a := evaluate(t, at(8, 55), at(18, 10))

	assert.False(t, a.IsLateCheckIn)
	assert.False(t, a.IsEarlyCheckOut)
	assert.InDelta(t, 9.25, a.TotalHours, 1e-9)
	assert.InDelta(t, 9.25, a.WorkingHours, 1e-9)
	assert.InDelta(t, 1.25, a.OvertimeHours, 1e-9)
	assert.Equal(t, attendance.StatusPresent, a.Status)
	assert.Equal(t, "09:00", a.ExpectedCheckIn)
}

func TestEvaluate_LateCheckIn(t *testing.T) {
	a := evaluate(t, at(9, 15), at(18, 0))

	assert.True(t, a.IsLateCheckIn)
	assert.False(t, a.IsEarlyCheckOut)
	assert.InDelta(t, 8.75, a.WorkingHours, 1e-9)
	assert.Equal(t, attendance.StatusLate, a.Status)
	assert.InDelta(t, 0.75, a.OvertimeHours, 1e-9)
}

func TestEvaluate_Classification(t *testing.T) {
	tests := []struct {
		name   string
		in     *time.Time
		out    *time.Time
		breaks []attendance.Break
		want   attendance.Status
	}{
		{"four hours leaving early", at(9, 0), at(13, 0), nil, attendance.StatusLate},
		{"half day needs no flags", at(8, 0), at(18, 0), []attendance.Break{{Start: *at(10, 0), End: at(15, 0)}}, attendance.StatusHalfDay},
		{"early checkout counts as late", at(9, 0), at(17, 0), nil, attendance.StatusLate},
		{"under four hours", at(9, 0), at(12, 59), nil, attendance.StatusEarlyCheckout},
		{"under four hours even with flags", at(14, 0), at(18, 0), []attendance.Break{{Start: *at(15, 0), End: at(15, 30)}}, attendance.StatusEarlyCheckout},
		{"full day with breaks", at(8, 0), at(18, 0), []attendance.Break{{Start: *at(12, 0), End: at(13, 0)}}, attendance.StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := evaluate(t, tt.in, tt.out, tt.breaks...)
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestEvaluate_ExactlyFourHoursNoFlags(t *testing.T) {
	p := policy.Default().Attendance
	p.ExpectedCheckIn = "09:00"
	p.ExpectedCheckOut = "13:00"

	a, err := Evaluate(attendance.Attendance{Date: testDay, CheckIn: at(9, 0), CheckOut: at(13, 0)}, p)
	require.NoError(t, err)
	assert.Equal(t, 4.0, a.WorkingHours)
	assert.Equal(t, attendance.StatusHalfDay, a.Status)
}

func TestEvaluate_ExactThresholdsWithOddMinutes(t *testing.T) {
	halfDay := policy.Default().Attendance
	halfDay.ExpectedCheckOut = "13:00"

	tests := []struct {
		name    string
		policy  policy.Attendance
		in      *time.Time
		out     *time.Time
		breakAt *time.Time
		breakM  int
		hours   float64
		want    attendance.Status
	}{
		{"eight hours 08:01 with 119m break", policy.Default().Attendance, at(8, 1), at(18, 0), at(12, 0), 119, 8, attendance.StatusPresent},
		{"eight hours 08:13 with 107m break", policy.Default().Attendance, at(8, 13), at(18, 0), at(11, 30), 107, 8, attendance.StatusPresent},
		{"eight hours 08:29 with 97m break", policy.Default().Attendance, at(8, 29), at(18, 6), at(13, 7), 97, 8, attendance.StatusPresent},
		{"four hours 08:37 with 23m break", halfDay, at(8, 37), at(13, 0), at(10, 11), 23, 4, attendance.StatusHalfDay},
		{"four hours 08:59 with 1m break", halfDay, at(8, 59), at(13, 0), at(11, 3), 1, 4, attendance.StatusHalfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := tt.breakAt.Add(time.Duration(tt.breakM) * time.Minute)
			a, err := Evaluate(attendance.Attendance{
				Date:     testDay,
				CheckIn:  tt.in,
				CheckOut: tt.out,
				Breaks:   []attendance.Break{{Start: *tt.breakAt, End: &end}},
			}, tt.policy)
			require.NoError(t, err)

			assert.False(t, a.IsLateCheckIn)
			assert.False(t, a.IsEarlyCheckOut)
			assert.Equal(t, tt.hours, a.WorkingHours)
			assert.Equal(t, float64(tt.breakM), a.TotalBreakMinutes)
			assert.Zero(t, a.OvertimeHours)
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestEvaluate_EightHourDaysAlwaysPresent(t *testing.T) {
	p := policy.Default().Attendance
	p.ExpectedCheckOut = "16:00"

	for minute := 0; minute <= 60; minute++ {
		for breakM := 1; breakM <= 120; breakM++ {
			in := at(8, minute)
			breakStart := in.Add(2 * time.Hour)
			breakEnd := breakStart.Add(time.Duration(breakM) * time.Minute)
			out := in.Add(8*time.Hour + time.Duration(breakM)*time.Minute)

			a, err := Evaluate(attendance.Attendance{
				Date:     testDay,
				CheckIn:  in,
				CheckOut: &out,
				Breaks:   []attendance.Break{{Start: breakStart, End: &breakEnd}},
			}, p)
			require.NoError(t, err)
			require.Equal(t, attendance.StatusPresent, a.Status, "in=%s break=%dm", in.Format("15:04"), breakM)
			require.Equal(t, 8.0, a.WorkingHours, "in=%s break=%dm", in.Format("15:04"), breakM)
			require.Zero(t, a.OvertimeHours)
		}
	}
}

func TestEvaluate_OvertimeHasNoFloatNoise(t *testing.T) {
	a := evaluate(t, at(8, 1), at(18, 15), attendance.Break{Start: *at(12, 0), End: at(12, 59)})

	assert.Equal(t, 1.25, a.OvertimeHours)
	assert.Equal(t, 9.25, a.WorkingHours)
}

func TestEvaluate_BreakMinutes(t *testing.T) {
	a := evaluate(t, at(8, 30), at(18, 0),
		attendance.Break{Start: *at(12, 0), End: at(12, 45)},
		attendance.Break{Start: *at(15, 0), End: at(15, 15)},
	)

	assert.Equal(t, 60.0, a.TotalBreakMinutes)
	assert.InDelta(t, 9.5, a.TotalHours, 1e-9)
	assert.InDelta(t, 8.5, a.WorkingHours, 1e-9)
	assert.Equal(t, attendance.StatusPresent, a.Status)
}

func TestEvaluate_NoCheckIn(t *testing.T) {
	a := evaluate(t, nil, nil)
	assert.Equal(t, attendance.StatusAbsent, a.Status)
	assert.Zero(t, a.WorkingHours)
}

func TestEvaluate_OpenShift(t *testing.T) {
	assert.Equal(t, attendance.StatusPresent, evaluate(t, at(8, 59), nil).Status)
	assert.Equal(t, attendance.StatusLate, evaluate(t, at(9, 1), nil).Status)
}

func TestEvaluate_CheckOutBeforeCheckIn(t *testing.T) {
	_, err := Evaluate(attendance.Attendance{Date: testDay, CheckIn: at(10, 0), CheckOut: at(9, 0)}, policy.Default().Attendance)
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestEvaluate_InvalidExpectedClock(t *testing.T) {
	_, err := Evaluate(attendance.Attendance{Date: testDay, CheckIn: at(9, 0), ExpectedCheckIn: "9am"}, policy.Default().Attendance)
	assert.ErrorIs(t, err, policy.ErrInvalidClock)
}
