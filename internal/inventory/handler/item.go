package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/medisort/medisort-server/internal/inventory/service"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/httputil"
	"github.com/medisort/medisort-server/pkg/logger"
)

// ItemHandler exposes the inventory CRUD and listing endpoints
type ItemHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(svc *service.InventoryService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes registers inventory routes on the router
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/expiring", h.Expiring)
		r.Get("/low-stock", h.LowStock)
	})
}

// List returns the owner's inventory under the requested sort and filter.
// Query parameters: sort, direction, q, full.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	query := service.ListQuery{
		Sort:      r.URL.Query().Get("sort"),
		Direction: r.URL.Query().Get("direction"),
		Query:     r.URL.Query().Get("q"),
		Full:      r.URL.Query().Get("full") == "true",
	}

	rows, err := h.service.List(r.Context(), httputil.GetOwnerID(r.Context()), query)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, rows, &httputil.Meta{Total: len(rows)})
}

// Create adds a new record to the owner's inventory
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	m, err := h.service.Add(r.Context(), httputil.GetOwnerID(r.Context()), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, m)
}

// Update replaces a record's editable fields
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	m, err := h.service.Edit(r.Context(), httputil.GetOwnerID(r.Context()), id, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, m)
}

// Delete permanently removes a record
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), httputil.GetOwnerID(r.Context()), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Expiring returns records inside the expiry alert window, soonest first
func (h *ItemHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Expiring(r.Context(), httputil.GetOwnerID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, rows, &httputil.Meta{Total: len(rows)})
}

// LowStock returns records below the stock threshold
func (h *ItemHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.LowStock(r.Context(), httputil.GetOwnerID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, rows, &httputil.Meta{Total: len(rows)})
}

func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid item id")
	}
	return id, nil
}
