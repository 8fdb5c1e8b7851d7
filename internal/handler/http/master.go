package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/leavetype"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

type MasterHandler interface {
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	GetHoliday(w http.ResponseWriter, r *http.Request)
	UpdateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	ListHolidaysForEmployee(w http.ResponseWriter, r *http.Request)

	CreateLeaveType(w http.ResponseWriter, r *http.Request)
	GetLeaveType(w http.ResponseWriter, r *http.Request)
	UpdateLeaveType(w http.ResponseWriter, r *http.Request)
	DeleteLeaveType(w http.ResponseWriter, r *http.Request)
	ListLeaveTypes(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	holidayService   holiday.HolidayService
	leaveTypeService leavetype.LeaveTypeService
}

func NewMasterHandler(
	holidayService holiday.HolidayService,
	leaveTypeService leavetype.LeaveTypeService,
) MasterHandler {
	return &masterHandlerImpl{
		holidayService:   holidayService,
		leaveTypeService: leaveTypeService,
	}
}

// CreateHoliday implements MasterHandler.
func (h *masterHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

// GetHoliday implements MasterHandler.
func (h *masterHandlerImpl) GetHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.holidayService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateHoliday implements MasterHandler.
func (h *masterHandlerImpl) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.holidayService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday updated", result)
}

// DeleteHoliday implements MasterHandler.
func (h *masterHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.holidayService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// ListHolidays implements MasterHandler. Defaults to the current year.
func (h *masterHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := yearParam(r)

	results, err := h.holidayService.List(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListHolidaysForEmployee implements MasterHandler.
func (h *masterHandlerImpl) ListHolidaysForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	year := yearParam(r)

	results, err := h.holidayService.ForEmployee(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// CreateLeaveType implements MasterHandler.
func (h *masterHandlerImpl) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leavetype.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveTypeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", result)
}

// GetLeaveType implements MasterHandler.
func (h *masterHandlerImpl) GetLeaveType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.leaveTypeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateLeaveType implements MasterHandler.
func (h *masterHandlerImpl) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leavetype.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.leaveTypeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated", result)
}

// DeleteLeaveType implements MasterHandler.
func (h *masterHandlerImpl) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.leaveTypeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type deactivated", nil)
}

// ListLeaveTypes implements MasterHandler.
func (h *masterHandlerImpl) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	results, err := h.leaveTypeService.List(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func yearParam(r *http.Request) int {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil && parsed > 0 {
			year = parsed
		}
	}
	return year
}
