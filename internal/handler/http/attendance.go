package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

type punchFunc func(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error)

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.CheckIn, "Checked in successfully")
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.CheckOut, "Checked out successfully")
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.StartBreak, "Break started")
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.EndBreak, "Break ended")
}

func (h *attendanceHandlerImpl) punch(w http.ResponseWriter, r *http.Request, fn punchFunc, message string) {
	var req attendance.PunchRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	if req.EmployeeID == "" {
		req.EmployeeID = claims.EmployeeID
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.CanAccessEmployee(req.EmployeeID) {
		response.Forbidden(w, "Cannot record attendance for another employee")
		return
	}

	record, err := fn(r.Context(), req.EmployeeID, req.At(h.now()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, attendance.NewAttendanceResponse(record))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromRequest(r)

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = claims.EmployeeID
	}
	if validator.IsEmpty(employeeID) {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}
	if !claims.CanAccessEmployee(employeeID) {
		response.Forbidden(w, "Cannot view another employee's attendance")
		return
	}

	month, year, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.MonthlySummary(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewSummaryResponse(summary))
}
