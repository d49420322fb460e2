package events

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const missingFieldsMessage = "Event name, date, and location are required"

// Handler handles HTTP requests for donation events.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new events handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterHospitalRoutes registers routes that require the hospital role.
func (h *Handler) RegisterHospitalRoutes(r chi.Router) {
	r.Post("/hospital-schedule-event", h.Schedule)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/events", h.List)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrMissingFields, Status: http.StatusBadRequest, Message: missingFieldsMessage},
	{Error: ErrInvalidBloodType, Status: http.StatusBadRequest},
}

// ScheduleRequest represents the body of an event scheduling request.
type ScheduleRequest struct {
	EventName          string   `json:"eventName" validate:"required,max=255"`
	EventDate          string   `json:"eventDate" validate:"required,max=64"`
	Location           string   `json:"location" validate:"required,max=255"`
	RequiredBloodTypes []string `json:"requiredBloodTypes" validate:"omitempty,dive,bloodtype"`
}

// validationMessage picks the summary for a failed ScheduleRequest.
// Blood type failures get their own message only when nothing else failed.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return missingFieldsMessage
	}
	for _, e := range validationErrors {
		if e.Tag() != "bloodtype" {
			return missingFieldsMessage
		}
	}
	return ErrInvalidBloodType.Error()
}

// Schedule handles POST /hospital-schedule-event.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.DecodeError(w, err, missingFieldsMessage)
		return
	}

	bloodTypes := make([]domain.BloodType, 0, len(req.RequiredBloodTypes))
	for i, raw := range req.RequiredBloodTypes {
		bt := domain.NormalizeBloodType(raw)
		req.RequiredBloodTypes[i] = string(bt)
		bloodTypes = append(bloodTypes, bt)
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, validationMessage(err), err)
		return
	}

	_, err := h.service.Schedule(r.Context(), httputil.GetUsername(r.Context()), ScheduleInput{
		EventName:          req.EventName,
		EventDate:          req.EventDate,
		Location:           req.Location,
		RequiredBloodTypes: bloodTypes,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Event scheduled successfully")
}

// List handles GET /admin/events. ?hospital= narrows the listing.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter EventFilter
	if hospital := r.URL.Query().Get("hospital"); hospital != "" {
		filter.Hospital = &hospital
	}

	events, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, events)
}
