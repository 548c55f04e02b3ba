package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	Conflicts(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitLeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Submit leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	if req.EmployeeID == "" {
		req.EmployeeID = claims.EmployeeID
	}
	if req.EmployeeID != "" && !claims.CanAccessEmployee(req.EmployeeID) {
		response.Forbidden(w, "Cannot request leave for another employee")
		return
	}

	result, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", result)
}

// Update implements LeaveHandler.
func (l *LeaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Update leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if !l.canModify(w, r, req.ID) {
		return
	}

	result, err := l.leaveService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", result)
}

// Approve implements LeaveHandler.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	approverID := middleware.ClaimsFromRequest(r).UserID

	result, err := l.leaveService.Approve(r.Context(), requestID, approverID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", result)
}

// Reject implements LeaveHandler.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectLeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Reject leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = middleware.ClaimsFromRequest(r).UserID

	result, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", result)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if !l.canModify(w, r, requestID) {
		return
	}

	result, err := l.leaveService.Cancel(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", result)
}

// Balance implements LeaveHandler.
func (l *LeaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
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
		response.Forbidden(w, "Cannot view another employee's leave balance")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || !validator.IsValidYear(year) {
		response.BadRequest(w, "year must be between 2000 and 2100", nil)
		return
	}

	balances, err := l.leaveService.Balance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// Conflicts implements LeaveHandler.
func (l *LeaveHandlerImpl) Conflicts(w http.ResponseWriter, r *http.Request) {
	var req leave.ConflictCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Conflict check decode error", "error", err)
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
		response.Forbidden(w, "Cannot view another employee's leave")
		return
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	conflicts, err := l.leaveService.Conflicts(r.Context(), req.EmployeeID, start, end, req.ExcludeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]leave.LeaveRequestResponse, 0, len(conflicts))
	for _, c := range conflicts {
		result = append(result, leave.NewLeaveRequestResponse(c))
	}
	response.Success(w, map[string]interface{}{
		"has_conflicts": len(result) > 0,
		"conflicts":     result,
	})
}

// canModify writes the error response and returns false unless the caller
// owns the request or is a manager.
func (l *LeaveHandlerImpl) canModify(w http.ResponseWriter, r *http.Request, requestID string) bool {
	existing, err := l.leaveService.Get(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return false
	}
	if !middleware.ClaimsFromRequest(r).CanAccessEmployee(existing.EmployeeID) {
		response.Forbidden(w, "Cannot modify another employee's leave request")
		return false
	}
	return true
}
