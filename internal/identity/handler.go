package identity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CookieSettings contains settings for the session cookie.
type CookieSettings struct {
	Secure bool
	Domain string
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service        *Service
	validator      *validator.Validate
	cookieSettings CookieSettings
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, cookieSettings CookieSettings) *Handler {
	return &Handler{
		service:        service,
		validator:      httputil.NewValidator(),
		cookieSettings: cookieSettings,
	}
}

// RegisterRoutes registers identity routes. All of them are public.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

const registerFieldsMessage = "Username and password are required"

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrUsernameExists, Status: http.StatusConflict},
	{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Invalid credentials"},
	{Error: ErrInvalidRole, Status: http.StatusBadRequest},
	{Error: ErrPasswordTooLong, Status: http.StatusBadRequest},
}

// RegisterRequest represents registration request body.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin hospital"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.DecodeError(w, err, registerFieldsMessage)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, registerFieldsMessage, err)
		return
	}

	_, err := h.service.Register(r.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusCreated, "Account created")
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents login response.
type LoginResponse struct {
	Status  string      `json:"status"`
	Role    domain.Role `json:"role"`
	Message string      `json:"message"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if httputil.IsFieldTypeError(err) {
			httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Missing credentials fail the same way as wrong ones.
	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user, session, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	h.setSessionCookie(w, session)

	httputil.JSON(w, http.StatusOK, LoginResponse{
		Status:  httputil.StatusSuccess,
		Role:    user.Role,
		Message: "Login successful",
	})
}

// Logout handles POST /logout. It succeeds with or without a session.
// Only the cookie is expired; the token itself stays valid until its exp.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearSessionCookie(w)
	httputil.Message(w, http.StatusOK, "Logged out")
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     httputil.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Domain:   h.cookieSettings.Domain,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSettings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httputil.SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieSettings.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSettings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
