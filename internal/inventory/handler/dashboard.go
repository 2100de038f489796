package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medisort/medisort-server/internal/inventory/service"
	"github.com/medisort/medisort-server/pkg/httputil"
)

// DashboardHandler exposes inventory summary statistics
type DashboardHandler struct {
	service *service.InventoryService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// RegisterRoutes registers dashboard routes on the router
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.Stats)
}

// Stats returns the owner's inventory summary
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), httputil.GetOwnerID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}
