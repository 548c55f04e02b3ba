package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
)

// Evaluate derives status, lateness flags and hour totals from the record's
// punches, breaks and expected times. It is the only place a status is set.
func Evaluate(a attendance.Attendance, p policy.Attendance) (attendance.Attendance, error) {
	var breaks time.Duration
	for _, b := range a.Breaks {
		breaks += b.Duration()
	}
	a.TotalBreakMinutes = breaks.Minutes()
	a.IsLateCheckIn = false
	a.IsEarlyCheckOut = false
	a.TotalHours = 0
	a.WorkingHours = 0
	a.OvertimeHours = 0

	if a.ExpectedCheckIn == "" {
		a.ExpectedCheckIn = p.ExpectedCheckIn
	}
	if a.ExpectedCheckOut == "" {
		a.ExpectedCheckOut = p.ExpectedCheckOut
	}

	if a.CheckIn == nil {
		a.Status = attendance.StatusAbsent
		return a, nil
	}

	date := a.Date
	if date.IsZero() {
		date = p.Day(*a.CheckIn)
	}

	expectedIn, err := p.At(date, a.ExpectedCheckIn)
	if err != nil {
		return a, fmt.Errorf("expected check-in: %w", err)
	}
	a.IsLateCheckIn = a.CheckIn.After(expectedIn)

	// Still clocked in
	if a.CheckOut == nil {
		if a.IsLateCheckIn {
			a.Status = attendance.StatusLate
		} else {
			a.Status = attendance.StatusPresent
		}
		return a, nil
	}

	if a.CheckOut.Before(*a.CheckIn) {
		return a, attendance.ErrCheckOutBeforeCheckIn
	}

	expectedOut, err := p.At(date, a.ExpectedCheckOut)
	if err != nil {
		return a, fmt.Errorf("expected check-out: %w", err)
	}
	a.IsEarlyCheckOut = a.CheckOut.Before(expectedOut)

	// Thresholds are compared as durations so whole-hour days stay exact.
	total := a.CheckOut.Sub(*a.CheckIn)
	working := total - breaks
	fullDay := hoursToDuration(p.FullDayHours)
	halfDay := hoursToDuration(p.HalfDayHours)

	a.TotalHours = total.Hours()
	a.WorkingHours = working.Hours()

	switch {
	case working >= fullDay && !a.IsLateCheckIn && !a.IsEarlyCheckOut:
		a.Status = attendance.StatusPresent
	case working >= halfDay:
		// Either flag lands here as late, including an early check-out.
		if a.IsLateCheckIn || a.IsEarlyCheckOut {
			a.Status = attendance.StatusLate
		} else {
			a.Status = attendance.StatusHalfDay
		}
	default:
		a.Status = attendance.StatusEarlyCheckout
	}

	if working > fullDay {
		a.OvertimeHours = (working - fullDay).Hours()
	}

	return a, nil
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
