package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ApproveOvertime(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService    attendance.AttendanceService
	recalculationService attendance.RecalculationService
	location             *time.Location
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	recalculationService attendance.RecalculationService,
	location *time.Location,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService:    attendanceService,
		recalculationService: recalculationService,
		location:             location,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startDate, h.location)
		if err != nil {
			response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.StartDate = &parsed
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endDate, h.location)
		if err != nil {
			response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.EndDate = &parsed
	}

	filter.Page, filter.Limit = pagination(r)

	results, total, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", result)
}

// ApproveOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveOvertime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.ApproveOvertime(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approved", result)
}

// Recalculate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	start, _ := time.ParseInLocation("2006-01-02", req.StartDate, h.location)
	end, _ := time.ParseInLocation("2006-01-02", req.EndDate, h.location)

	stats, err := h.recalculationService.Recalculate(r.Context(), actor.CompanyID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recalculation complete", stats)
}

func pagination(r *http.Request) (page, limit int) {
	page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	limit = 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	return page, limit
}
