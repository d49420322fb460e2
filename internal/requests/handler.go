package requests

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const missingFieldsMessage = "Blood type and quantity are required"

// Handler handles HTTP requests for blood requests.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new requests handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterPublicRoutes registers routes open to anonymous clients.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/emergency-request", h.SubmitEmergency)
	r.Get("/pending-requests", h.ListPending)
}

// RegisterHospitalRoutes registers routes that require the hospital role.
func (h *Handler) RegisterHospitalRoutes(r chi.Router) {
	r.Post("/hospital-request", h.SubmitHospital)
	r.Get("/hospital-request-status", h.HospitalStatus)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrInvalidBloodType, Status: http.StatusBadRequest, Message: missingFieldsMessage},
	{Error: ErrInvalidQuantity, Status: http.StatusBadRequest, Message: missingFieldsMessage},
	{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
}

// SubmitRequest represents the body of a blood request submission.
type SubmitRequest struct {
	BloodType string `json:"bloodType" validate:"required,bloodtype"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

func (h *Handler) decodeSubmit(w http.ResponseWriter, r *http.Request) (SubmitInput, bool) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.DecodeError(w, err, missingFieldsMessage)
		return SubmitInput{}, false
	}

	req.BloodType = string(domain.NormalizeBloodType(req.BloodType))

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, missingFieldsMessage, err)
		return SubmitInput{}, false
	}

	return SubmitInput{
		BloodType: domain.BloodType(req.BloodType),
		Quantity:  req.Quantity,
	}, true
}

// SubmitEmergency handles POST /emergency-request.
func (h *Handler) SubmitEmergency(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeSubmit(w, r)
	if !ok {
		return
	}

	if _, err := h.service.SubmitEmergency(r.Context(), input); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Emergency request submitted")
}

// ListPending handles GET /pending-requests.
// Every request is returned unless ?status= narrows it.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	status := domain.RequestStatus(r.URL.Query().Get("status"))

	requests, err := h.service.ListRequests(r.Context(), status)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, requests)
}

// SubmitHospital handles POST /hospital-request.
func (h *Handler) SubmitHospital(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeSubmit(w, r)
	if !ok {
		return
	}

	hospital := httputil.GetUsername(r.Context())
	if _, err := h.service.SubmitHospital(r.Context(), hospital, input); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Hospital request submitted")
}

// HospitalStatus handles GET /hospital-request-status.
func (h *Handler) HospitalStatus(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListHospitalRequests(r.Context(), httputil.GetUsername(r.Context()))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, requests)
}
