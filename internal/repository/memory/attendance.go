package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
)

type attendanceKey struct {
	employeeID string
	date       string
}

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[attendanceKey]attendance.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[attendanceKey]attendance.Attendance)}
}

func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[attendanceKey{employeeID, dayKey(date)}]
	if !ok {
		return nil, nil
	}
	a = cloneAttendance(a)
	return &a, nil
}

func (r *AttendanceRepository) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := attendanceKey{a.EmployeeID, dayKey(a.Date)}
	if existing, ok := r.records[key]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = newID()
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	r.records[key] = cloneAttendance(a)
	return a, nil
}

func (r *AttendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []attendance.Attendance
	for key, a := range r.records {
		if key.employeeID != employeeID {
			continue
		}
		if sameOrBefore(from, a.Date) && sameOrBefore(a.Date, to) {
			result = append(result, cloneAttendance(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return dayKey(result[i].Date) < dayKey(result[j].Date)
	})
	return result, nil
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	if a.Breaks != nil {
		breaks := make([]attendance.Break, len(a.Breaks))
		copy(breaks, a.Breaks)
		a.Breaks = breaks
	}
	return a
}
