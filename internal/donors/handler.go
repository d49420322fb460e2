package donors

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for donor records.
type Handler struct {
	service *Service
}

// NewHandler creates a new donors handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers routes that require a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/donor-management", h.GetOwn)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/donors/{username}", h.Put)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrDonorNotFound, Status: http.StatusNotFound, Message: "Donor data not found"},
	{Error: ErrEmptyDonor, Status: http.StatusBadRequest},
}

// GetOwn handles GET /donor-management.
func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	donor, err := h.service.GetDonor(r.Context(), httputil.GetUsername(r.Context()))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, donor)
}

// Put handles PUT /admin/donors/{username}.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		httputil.Error(w, http.StatusBadRequest, "username is required")
		return
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		httputil.Error(w, http.StatusBadRequest, "username is too long")
		return
	}

	var attributes domain.Document
	if err := json.NewDecoder(r.Body).Decode(&attributes); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	donor, err := h.service.PutDonor(r.Context(), username, attributes)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, donor)
}
