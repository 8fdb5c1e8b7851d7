package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/regularization"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

type RegularizationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type regularizationHandlerImpl struct {
	regularizationService regularization.RegularizationService
	location              *time.Location
}

func NewRegularizationHandler(
	regularizationService regularization.RegularizationService,
	location *time.Location,
) RegularizationHandler {
	return &regularizationHandlerImpl{
		regularizationService: regularizationService,
		location:              location,
	}
}

// Create implements RegularizationHandler. The request arrives as multipart
// form data: a 'data' field holding the JSON body plus optional 'attachments'
// files.
func (h *regularizationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req regularization.CreateRequest

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Attachments are optional
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				slog.Error("Failed to open uploaded file", "error", err)
				response.BadRequest(w, "Invalid file upload", nil)
				return
			}
			defer file.Close()

			req.Files = append(req.Files, file)
			req.FileHeaders = append(req.FileHeaders, header)
		}
	}

	result, err := h.regularizationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Regularization request submitted", result)
}

// Get implements RegularizationHandler.
func (h *regularizationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.regularizationService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements RegularizationHandler.
func (h *regularizationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := regularization.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     r.URL.Query().Get("status"),
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

	results, total, err := h.regularizationService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

// Update implements RegularizationHandler.
func (h *regularizationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req regularization.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.regularizationService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request updated", result)
}

// Delete implements RegularizationHandler.
func (h *regularizationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.regularizationService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request withdrawn", nil)
}

// Approve implements RegularizationHandler.
func (h *regularizationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Comments *string `json:"comments"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.regularizationService.Approve(r.Context(), id, body.Comments)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request approved", result)
}

// Reject implements RegularizationHandler.
func (h *regularizationHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req regularization.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.regularizationService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request rejected", result)
}
