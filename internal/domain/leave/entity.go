package leave

import "time"

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeUnpaid    LeaveType = "unpaid"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []LeaveType{
	LeaveTypeAnnual,
	LeaveTypeSick,
	LeaveTypePersonal,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeEmergency,
	LeaveTypeUnpaid,
}

func (t LeaveType) IsValid() bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

// LeaveRequest entity. TotalDays is derived from StartDate, EndDate and
// IsHalfDay and is never accepted from input.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate     time.Time
	EndDate       time.Time
	IsHalfDay     bool
	HalfDayPeriod *HalfDayPeriod
	TotalDays     float64

	Reason string
	Status LeaveRequestStatus

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the request's date range intersects [start, end].
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !dateOnly(r.StartDate).After(dateOnly(end)) && !dateOnly(r.EndDate).Before(dateOnly(start))
}

// IsActive reports whether the request still blocks its dates.
func (r LeaveRequest) IsActive() bool {
	return r.Status == LeaveRequestStatusPending || r.Status == LeaveRequestStatusApproved
}

// Balance is the derived per-type allotment usage for one calendar year.
type Balance struct {
	Type      LeaveType `json:"type"`
	Total     float64   `json:"total"`
	Used      float64   `json:"used"`
	Remaining float64   `json:"remaining"`
}
