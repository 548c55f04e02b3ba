package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	employeeRepo  employee.EmployeeRepository
	leaveRepo     leave.LeaveRequestRepository
	location      *time.Location
	now           func() time.Time
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	location *time.Location,
) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		employeeRepo:  employeeRepo,
		leaveRepo:     leaveRepo,
		location:      location,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("mark_absent_employees", time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees records an absence on the previous business day for
// every active employee without an attendance record for it. Employees on
// approved leave that day are skipped. Existing records are left alone.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	day := previousBusinessDay(j.now().In(j.location))

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}

		onLeave, err := j.onApprovedLeave(ctx, emp.ID, day)
		if err != nil {
			slog.Error("Cron: Failed to check leave", "employee_id", emp.ID, "error", err)
			continue
		}
		if onLeave {
			continue
		}

		_, created, err := j.attendanceSvc.MarkAbsent(ctx, emp.ID, day)
		if err != nil {
			slog.Error("Cron: Failed to mark employee absent",
				"employee_id", emp.ID,
				"date", day.Format("2006-01-02"),
				"error", err)
			continue
		}
		if created {
			marked++
		}
	}

	if marked > 0 {
		slog.Info("Cron: Marked absent employees", "date", day.Format("2006-01-02"), "count", marked)
	}
	return nil
}

func (j *AttendanceJobs) onApprovedLeave(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	requests, err := j.leaveRepo.FindOverlapping(ctx, employeeID, date, date, "")
	if err != nil {
		return false, err
	}
	for _, r := range requests {
		if r.Status == leave.LeaveRequestStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func previousBusinessDay(now time.Time) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	for leave.IsWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
