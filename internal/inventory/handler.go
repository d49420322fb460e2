package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new inventory handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers routes open to anonymous clients.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/inventory", h.List)
}

// RegisterHospitalRoutes registers routes that require the hospital role.
func (h *Handler) RegisterHospitalRoutes(r chi.Router) {
	r.Get("/hospital-inventory", h.List)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/inventory", h.Create)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrEmptyItem, Status: http.StatusBadRequest},
}

// List handles GET /inventory and GET /hospital-inventory.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}

// Create handles POST /admin/inventory.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.Document
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.service.AddItem(r.Context(), item); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusCreated, "Inventory item added")
}
