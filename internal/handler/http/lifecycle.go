package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

type LifecycleHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type lifecycleHandlerImpl struct {
	lifecycleService lifecycle.LifecycleService
	location         *time.Location
}

func NewLifecycleHandler(
	lifecycleService lifecycle.LifecycleService,
	location *time.Location,
) LifecycleHandler {
	return &lifecycleHandlerImpl{
		lifecycleService: lifecycleService,
		location:         location,
	}
}

// Record implements LifecycleHandler.
func (h *lifecycleHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req lifecycle.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.lifecycleService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Lifecycle event recorded", result)
}

// Get implements LifecycleHandler.
func (h *lifecycleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.lifecycleService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements LifecycleHandler.
func (h *lifecycleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := lifecycle.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Type:       r.URL.Query().Get("type"),
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

	results, total, err := h.lifecycleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

// Statistics implements LifecycleHandler. Defaults to the trailing year.
func (h *lifecycleHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	end := time.Now().In(h.location)
	start := end.AddDate(-1, 0, 0)

	if s := r.URL.Query().Get("start_date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, h.location)
		if err != nil {
			response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
			return
		}
		start = parsed
	}

	if e := r.URL.Query().Get("end_date"); e != "" {
		parsed, err := time.ParseInLocation("2006-01-02", e, h.location)
		if err != nil {
			response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
			return
		}
		end = parsed
	}

	results, err := h.lifecycleService.Statistics(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
