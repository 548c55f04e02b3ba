package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// PunchRequest carries a check-in, check-out or break event. Timestamp
// defaults to the server clock when omitted.
type PunchRequest struct {
	EmployeeID string  `json:"employee_id"`
	Timestamp  *string `json:"timestamp,omitempty"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an RFC3339 date-time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// At resolves the punch instant, falling back to now.
func (r *PunchRequest) At(now time.Time) time.Time {
	if r.Timestamp == nil {
		return now
	}
	t, _ := validator.IsValidDateTime(*r.Timestamp)
	return t
}

type AttendanceResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Date              string  `json:"date"`
	CheckIn           *string `json:"check_in"`
	CheckOut          *string `json:"check_out"`
	Status            string  `json:"status"`
	IsLateCheckIn     bool    `json:"is_late_check_in"`
	IsEarlyCheckOut   bool    `json:"is_early_check_out"`
	TotalHours        float64 `json:"total_hours"`
	WorkingHours      float64 `json:"working_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	Breaks            []Break `json:"breaks"`
	TotalBreakMinutes float64 `json:"total_break_minutes"`
	ExpectedCheckIn   string  `json:"expected_check_in"`
	ExpectedCheckOut  string  `json:"expected_check_out"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	breaks := a.Breaks
	if breaks == nil {
		breaks = []Break{}
	}
	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Date:              a.Date.Format("2006-01-02"),
		CheckIn:           timePtrToString(a.CheckIn),
		CheckOut:          timePtrToString(a.CheckOut),
		Status:            string(a.Status),
		IsLateCheckIn:     a.IsLateCheckIn,
		IsEarlyCheckOut:   a.IsEarlyCheckOut,
		TotalHours:        a.TotalHours,
		WorkingHours:      a.WorkingHours,
		OvertimeHours:     a.OvertimeHours,
		Breaks:            breaks,
		TotalBreakMinutes: a.TotalBreakMinutes,
		ExpectedCheckIn:   a.ExpectedCheckIn,
		ExpectedCheckOut:  a.ExpectedCheckOut,
	}
}

type SummaryResponse struct {
	EmployeeID         string  `json:"employee_id"`
	From               string  `json:"from"`
	To                 string  `json:"to"`
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	LateDays           int     `json:"late_days"`
	HalfDays           int     `json:"half_days"`
	AbsentDays         int     `json:"absent_days"`
	EarlyCheckoutDays  int     `json:"early_checkout_days"`
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AverageCheckIn     *string `json:"average_check_in"`
	AverageCheckOut    *string `json:"average_check_out"`
}

func NewSummaryResponse(s MonthlySummary) SummaryResponse {
	return SummaryResponse{
		EmployeeID:         s.EmployeeID,
		From:               s.From.Format("2006-01-02"),
		To:                 s.To.Format("2006-01-02"),
		TotalDays:          s.TotalDays,
		PresentDays:        s.PresentDays,
		LateDays:           s.LateDays,
		HalfDays:           s.HalfDays,
		AbsentDays:         s.AbsentDays,
		EarlyCheckoutDays:  s.EarlyCheckoutDays,
		TotalWorkingHours:  s.TotalWorkingHours,
		TotalOvertimeHours: s.TotalOvertimeHours,
		AverageCheckIn:     timePtrToString(s.AverageCheckIn),
		AverageCheckOut:    timePtrToString(s.AverageCheckOut),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}
