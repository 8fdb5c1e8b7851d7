package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

type CompOffHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Consume(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type compOffHandlerImpl struct {
	compOffService compoff.CompOffService
}

func NewCompOffHandler(compOffService compoff.CompOffService) CompOffHandler {
	return &compOffHandlerImpl{
		compOffService: compOffService,
	}
}

// Create implements CompOffHandler.
func (h *compOffHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req compoff.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compOffService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Comp-off request submitted", result)
}

// Get implements CompOffHandler.
func (h *compOffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.compOffService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements CompOffHandler.
func (h *compOffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := compoff.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     r.URL.Query().Get("status"),
	}
	filter.Page, filter.Limit = pagination(r)

	results, total, err := h.compOffService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

// Update implements CompOffHandler.
func (h *compOffHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req compoff.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.compOffService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off request updated", result)
}

// Delete implements CompOffHandler.
func (h *compOffHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.compOffService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off request withdrawn", nil)
}

// Approve implements CompOffHandler.
func (h *compOffHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.compOffService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off request approved", result)
}

// Reject implements CompOffHandler.
func (h *compOffHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req compoff.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.compOffService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off request rejected", result)
}

// Consume implements CompOffHandler. Credits are burned oldest-first.
func (h *compOffHandlerImpl) Consume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days float64 `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	switch body.Days {
	case 0.5, 1, 1.5, 2:
	default:
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "days",
			Message: "days must be one of: 0.5, 1, 1.5, 2",
		}})
		return
	}

	results, err := h.compOffService.Consume(r.Context(), body.Days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off consumed", results)
}

// GetBalance implements CompOffHandler.
func (h *compOffHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	balance, err := h.compOffService.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
