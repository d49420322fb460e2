// Package httputil provides HTTP response helpers and middleware shared by all modules.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
	"github.com/go-playground/validator/v10"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is the {"status", "message"} envelope used by mutating routes.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse is the error envelope with per-field details.
type ValidationResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// JSON writes a raw JSON response without envelope. List routes use it to
// return bare arrays.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message writes a {"status":"success","message":...} response.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, StatusResponse{Status: StatusSuccess, Message: message})
}

// Error writes a {"status":"error","message":...} response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, StatusResponse{Status: StatusError, Message: message})
}

// ValidationError writes a 400 response with message as the summary.
// If err is validator.ValidationErrors, per-field details are included.
func ValidationError(w http.ResponseWriter, message string, err error) {
	resp := ValidationResponse{Status: StatusError, Message: message}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		resp.Details = make([]FieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			resp.Details = append(resp.Details, FieldError{
				Field:   e.Field(),
				Message: e.Tag(),
			})
		}
	}

	JSON(w, http.StatusBadRequest, resp)
}

// IsFieldTypeError reports whether a decode error comes from well-formed JSON
// holding a value of the wrong type, such as "quantity":"2".
func IsFieldTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// DecodeError answers a body that failed to decode. A wrongly typed field is
// reported like a validation failure under message; anything else is
// "invalid json".
func DecodeError(w http.ResponseWriter, err error, message string) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	JSON(w, http.StatusBadRequest, ValidationResponse{
		Status:  StatusError,
		Message: message,
		Details: []FieldError{{Field: typeErr.Field, Message: "type"}},
	})
}

// ErrorMapping binds a sentinel error to the response it produces.
// An empty Message reuses the sentinel's text.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// HandleError writes the response of the first mapping matching err.
// Unmapped errors are logged with the request logger and answered with a
// generic 500.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	for _, m := range mappings {
		if !errors.Is(err, m.Error) {
			continue
		}
		msg := m.Message
		if msg == "" {
			msg = m.Error.Error()
		}
		ctxlog.FromContext(ctx).Debug("request rejected", "status", m.Status, "error", err)
		Error(w, m.Status, msg)
		return
	}

	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
