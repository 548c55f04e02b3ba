package leave

import (
	"fmt"
	"time"
)

// IsWeekend reports whether the calendar date is a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CountBusinessDays counts dates from start to end inclusive that are not
// weekends. It returns zero when end is before start.
func CountBusinessDays(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// TotalDays computes the chargeable days of a leave range. A half-day flag
// only halves a range of exactly one business day.
func TotalDays(start, end time.Time, isHalfDay bool) (float64, error) {
	if dateOnly(end).Before(dateOnly(start)) {
		return 0, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	days := CountBusinessDays(start, end)
	if isHalfDay && days == 1 {
		return 0.5, nil
	}
	return float64(days), nil
}

// DeriveTotalDays overwrites TotalDays from the request's dates and half-day
// flag. Stores call it before every write.
func DeriveTotalDays(r LeaveRequest) (LeaveRequest, error) {
	total, err := TotalDays(r.StartDate, r.EndDate, r.IsHalfDay)
	if err != nil {
		return r, err
	}
	r.TotalDays = total
	if !r.IsHalfDay {
		r.HalfDayPeriod = nil
	}
	return r, nil
}

// DaysWithin counts the chargeable days of r that fall inside [from, to].
// A half-day request keeps its 0.5 when its day is in range.
func DaysWithin(r LeaveRequest, from, to time.Time) float64 {
	if !r.Overlaps(from, to) {
		return 0
	}

	start, end := dateOnly(r.StartDate), dateOnly(r.EndDate)
	if f := dateOnly(from); start.Before(f) {
		start = f
	}
	if t := dateOnly(to); end.After(t) {
		end = t
	}

	days := CountBusinessDays(start, end)
	if days > 0 && r.IsHalfDay && CountBusinessDays(r.StartDate, r.EndDate) == 1 {
		return 0.5
	}
	return float64(days)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
