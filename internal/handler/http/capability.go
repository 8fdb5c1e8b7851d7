package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
)

type CapabilityHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Disable(w http.ResponseWriter, r *http.Request)
}

type capabilityHandlerImpl struct {
	registry *registry.Registry
}

func NewCapabilityHandler(reg *registry.Registry) CapabilityHandler {
	return &capabilityHandlerImpl{registry: reg}
}

// List implements CapabilityHandler.
func (h *capabilityHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"enabled": h.registry.Names(),
	})
}

// Disable implements CapabilityHandler.
func (h *capabilityHandlerImpl) Disable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.registry.Disable(name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Capability disabled", map[string]interface{}{
		"enabled": h.registry.Names(),
	})
}
