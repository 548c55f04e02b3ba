package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
)

// Summarize folds evaluated records into counts, hour totals and average
// punch times. Averages are the mean of epoch milliseconds over records
// that have the punch; they stay nil when none do.
func Summarize(employeeID string, from, to time.Time, records []attendance.Attendance) attendance.MonthlySummary {
	summary := attendance.MonthlySummary{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
		TotalDays:  len(records),
	}

	var checkInSum, checkOutSum int64
	var checkInCount, checkOutCount int64
	var loc *time.Location

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusLate:
			summary.LateDays++
		case attendance.StatusHalfDay:
			summary.HalfDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		case attendance.StatusEarlyCheckout:
			summary.EarlyCheckoutDays++
		}
		if r.IsLateCheckIn {
			summary.LateCheckInCount++
		}
		if r.IsEarlyCheckOut {
			summary.EarlyCheckOutCount++
		}

		summary.TotalWorkingHours += r.WorkingHours
		summary.TotalOvertimeHours += r.OvertimeHours

		if r.CheckIn != nil {
			checkInSum += r.CheckIn.UnixMilli()
			checkInCount++
			loc = r.CheckIn.Location()
		}
		if r.CheckOut != nil {
			checkOutSum += r.CheckOut.UnixMilli()
			checkOutCount++
		}
	}

	if loc == nil {
		loc = time.UTC
	}
	if checkInCount > 0 {
		avg := time.UnixMilli(checkInSum / checkInCount).In(loc)
		summary.AverageCheckIn = &avg
	}
	if checkOutCount > 0 {
		avg := time.UnixMilli(checkOutSum / checkOutCount).In(loc)
		summary.AverageCheckOut = &avg
	}

	return summary
}
