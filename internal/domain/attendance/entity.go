package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent       Status = "present"
	StatusLate          Status = "late"
	StatusHalfDay       Status = "half_day"
	StatusAbsent        Status = "absent"
	StatusEarlyCheckout Status = "early_checkout"
)

// Break is one interval off the clock. End is nil while the break is open.
type Break struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Duration returns the break length; an open break counts as zero.
func (b Break) Duration() time.Duration {
	if b.End == nil {
		return 0
	}
	return b.End.Sub(b.Start)
}

// Attendance is one employee on one calendar date. Status, the flags and the
// hour totals are derived by the evaluator and never set directly.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time

	CheckIn  *time.Time
	CheckOut *time.Time

	Status          Status
	IsLateCheckIn   bool
	IsEarlyCheckOut bool

	TotalHours    float64
	WorkingHours  float64
	OvertimeHours float64

	Breaks            []Break
	TotalBreakMinutes float64

	ExpectedCheckIn  string // "HH:MM"
	ExpectedCheckOut string // "HH:MM"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenBreak returns the index of the break still in progress, or -1.
func (a Attendance) OpenBreak() int {
	for i := len(a.Breaks) - 1; i >= 0; i-- {
		if a.Breaks[i].End == nil {
			return i
		}
	}
	return -1
}

// MonthlySummary folds one employee's records over a date range.
type MonthlySummary struct {
	EmployeeID         string
	From               time.Time
	To                 time.Time
	TotalDays          int
	PresentDays        int
	LateDays           int
	HalfDays           int
	AbsentDays         int
	EarlyCheckoutDays  int
	LateCheckInCount   int
	EarlyCheckOutCount int
	TotalWorkingHours  float64
	TotalOvertimeHours float64
	AverageCheckIn     *time.Time // nil when no record has a check-in
	AverageCheckOut    *time.Time // nil when no record has a check-out
}
