// Package policy holds the business-rule thresholds used by the attendance,
// leave and payroll engines. Values are supplied by configuration; Default
// returns the company-wide defaults.
package policy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidClock      = errors.New("clock must be in HH:MM format")
	ErrInvalidThresholds = errors.New("half-day hours must be positive and not exceed full-day hours")
	ErrInvalidTaxSlabs   = errors.New("tax slabs must start at zero and be strictly ascending")
)

type Policy struct {
	Attendance Attendance
	Leave      Leave
	Payroll    Payroll
}

// Attendance thresholds used to classify a day.
type Attendance struct {
	ExpectedCheckIn  string // "HH:MM"
	ExpectedCheckOut string // "HH:MM"
	FullDayHours     float64
	HalfDayHours     float64
	Location         *time.Location
}

// Leave holds the annual allotment per leave type. Types missing from the
// table have no balance.
type Leave struct {
	Allotments map[leave.LeaveType]float64
}

// TaxSlab is one bracket of the progressive income tax table. The bracket
// applies to the part of annual income above LowerBound, up to the next slab.
type TaxSlab struct {
	LowerBound decimal.Decimal
	Rate       decimal.Decimal
}

type Payroll struct {
	HRARate            decimal.Decimal
	DARate             decimal.Decimal
	TravelAllowance    decimal.Decimal
	MedicalAllowance   decimal.Decimal
	OvertimeRate       decimal.Decimal // per overtime hour
	ProvidentFundRate  decimal.Decimal
	StateInsuranceRate decimal.Decimal
	PaidLeaveTypes     []leave.LeaveType
	UnpaidLeaveTypes   []leave.LeaveType
	TaxSlabs           []TaxSlab
}

func Default() Policy {
	return Policy{
		Attendance: Attendance{
			ExpectedCheckIn:  "09:00",
			ExpectedCheckOut: "18:00",
			FullDayHours:     8,
			HalfDayHours:     4,
			Location:         time.UTC,
		},
		Leave: Leave{
			Allotments: map[leave.LeaveType]float64{
				leave.LeaveTypeAnnual:    25,
				leave.LeaveTypeSick:      12,
				leave.LeaveTypePersonal:  5,
				leave.LeaveTypeMaternity: 90,
				leave.LeaveTypePaternity: 15,
				leave.LeaveTypeEmergency: 3,
			},
		},
		Payroll: Payroll{
			HRARate:            decimal.RequireFromString("0.40"),
			DARate:             decimal.RequireFromString("0.10"),
			TravelAllowance:    decimal.NewFromInt(2000),
			MedicalAllowance:   decimal.NewFromInt(1500),
			OvertimeRate:       decimal.NewFromInt(200),
			ProvidentFundRate:  decimal.RequireFromString("0.12"),
			StateInsuranceRate: decimal.RequireFromString("0.0175"),
			PaidLeaveTypes:     []leave.LeaveType{leave.LeaveTypeAnnual, leave.LeaveTypeSick, leave.LeaveTypePersonal},
			UnpaidLeaveTypes:   []leave.LeaveType{leave.LeaveTypeUnpaid},
			TaxSlabs: []TaxSlab{
				{LowerBound: decimal.Zero, Rate: decimal.Zero},
				{LowerBound: decimal.NewFromInt(250000), Rate: decimal.RequireFromString("0.05")},
				{LowerBound: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("0.20")},
				{LowerBound: decimal.NewFromInt(1000000), Rate: decimal.RequireFromString("0.30")},
			},
		},
	}
}

// Validate checks the policy for values the engines cannot work with.
func (p Policy) Validate() error {
	if _, _, err := ParseClock(p.Attendance.ExpectedCheckIn); err != nil {
		return fmt.Errorf("expected check-in: %w", err)
	}
	if _, _, err := ParseClock(p.Attendance.ExpectedCheckOut); err != nil {
		return fmt.Errorf("expected check-out: %w", err)
	}
	if p.Attendance.HalfDayHours <= 0 || p.Attendance.HalfDayHours > p.Attendance.FullDayHours {
		return ErrInvalidThresholds
	}

	slabs := p.Payroll.TaxSlabs
	if len(slabs) == 0 || !slabs[0].LowerBound.IsZero() {
		return ErrInvalidTaxSlabs
	}
	for i := 1; i < len(slabs); i++ {
		if !slabs[i].LowerBound.GreaterThan(slabs[i-1].LowerBound) {
			return ErrInvalidTaxSlabs
		}
	}
	return nil
}

// IsPaidLeave reports whether days of this leave type count as worked days.
func (p Payroll) IsPaidLeave(t leave.LeaveType) bool {
	return containsType(p.PaidLeaveTypes, t)
}

// IsUnpaidLeave reports whether this leave type is tracked as unpaid.
func (p Payroll) IsUnpaidLeave(t leave.LeaveType) bool {
	return containsType(p.UnpaidLeaveTypes, t)
}

func containsType(types []leave.LeaveType, t leave.LeaveType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(clock string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return hour, minute, nil
}

// At returns the instant at the given "HH:MM" clock on the calendar day
// date carries, in the policy location.
func (a Attendance) At(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, a.location()), nil
}

// Day truncates t to midnight of its calendar day in the policy location.
func (a Attendance) Day(t time.Time) time.Time {
	loc := a.location()
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func (a Attendance) location() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}
