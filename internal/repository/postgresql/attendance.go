package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, date, check_in, check_out, status,
	is_late_check_in, is_early_check_out, total_hours, working_hours, overtime_hours,
	breaks, total_break_minutes, expected_check_in, expected_check_out,
	created_at, updated_at`

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	breaks, err := json.Marshal(nonNilBreaks(att.Breaks))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode breaks: %w", err)
	}

	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, status,
			is_late_check_in, is_early_check_out, total_hours, working_hours, overtime_hours,
			breaks, total_break_minutes, expected_check_in, expected_check_out
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			status = EXCLUDED.status,
			is_late_check_in = EXCLUDED.is_late_check_in,
			is_early_check_out = EXCLUDED.is_early_check_out,
			total_hours = EXCLUDED.total_hours,
			working_hours = EXCLUDED.working_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			breaks = EXCLUDED.breaks,
			total_break_minutes = EXCLUDED.total_break_minutes,
			expected_check_in = EXCLUDED.expected_check_in,
			expected_check_out = EXCLUDED.expected_check_out,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		att.EmployeeID, att.Date, att.CheckIn, att.CheckOut, att.Status,
		att.IsLateCheckIn, att.IsEarlyCheckOut, att.TotalHours, att.WorkingHours, att.OvertimeHours,
		breaks, att.TotalBreakMinutes, att.ExpectedCheckIn, att.ExpectedCheckOut,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var breaks []byte
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut, &att.Status,
		&att.IsLateCheckIn, &att.IsEarlyCheckOut, &att.TotalHours, &att.WorkingHours, &att.OvertimeHours,
		&breaks, &att.TotalBreakMinutes, &att.ExpectedCheckIn, &att.ExpectedCheckOut,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if len(breaks) > 0 {
		if err := json.Unmarshal(breaks, &att.Breaks); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to decode breaks: %w", err)
		}
	}
	return att, nil
}

func nonNilBreaks(breaks []attendance.Break) []attendance.Break {
	if breaks == nil {
		return []attendance.Break{}
	}
	return breaks
}
