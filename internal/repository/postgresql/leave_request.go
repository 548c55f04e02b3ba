package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, is_half_day, half_day_period,
	total_days, reason, status, approved_by, approved_at, rejection_reason, cancelled_at,
	created_at, updated_at`

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	request, err := leave.DeriveTotalDays(request)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type, start_date, end_date, is_half_day, half_day_period,
			total_days, reason, status, approved_by, approved_at, rejection_reason, cancelled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.EmployeeID, request.Type, request.StartDate, request.EndDate, request.IsHalfDay, request.HalfDayPeriod,
		request.TotalDays, request.Reason, request.Status, request.ApprovedBy, request.ApprovedAt,
		request.RejectionReason, request.CancelledAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	// Inside a transaction the row stays locked until commit so status
	// transitions cannot interleave.
	if inTransaction(ctx) {
		query += ` FOR UPDATE`
	}

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Update(ctx context.Context, request leave.LeaveRequest) error {
	request, err := leave.DeriveTotalDays(request)
	if err != nil {
		return err
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			start_date = $2,
			end_date = $3,
			is_half_day = $4,
			half_day_period = $5,
			total_days = $6,
			reason = $7,
			status = $8,
			approved_by = $9,
			approved_at = $10,
			rejection_reason = $11,
			cancelled_at = $12,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		request.ID, request.StartDate, request.EndDate, request.IsHalfDay, request.HalfDayPeriod,
		request.TotalDays, request.Reason, request.Status, request.ApprovedBy, request.ApprovedAt,
		request.RejectionReason, request.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// FindOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_date <= $3
		  AND end_date >= $2
		  AND id <> $4
		ORDER BY start_date`

	return r.list(ctx, query, employeeID, start, end, excludeID)
}

// ListApprovedByYear implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedByYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND EXTRACT(YEAR FROM start_date) = $2
		ORDER BY start_date`

	return r.list(ctx, query, employeeID, year)
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date`

	return r.list(ctx, query, employeeID, from, to)
}

func (r *leaveRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.Type, &lr.StartDate, &lr.EndDate, &lr.IsHalfDay, &lr.HalfDayPeriod,
		&lr.TotalDays, &lr.Reason, &lr.Status, &lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason, &lr.CancelledAt,
		&lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}
