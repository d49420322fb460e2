package httputil

import (
	"context"
	"net/http"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "bb_session"

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (originsSet[origin] || originsSet["*"]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

// Context keys for the authenticated identity.
const (
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// SessionValidator verifies a session token and returns the identity it carries.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (username string, role domain.Role, err error)
}

// SessionMiddleware reads the session cookie and, when it verifies, stores
// the identity in the request context. Requests without a valid session pass
// through anonymously; guards decide what they may reach.
func SessionMiddleware(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			username, role, err := validator.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				ctxlog.FromContext(r.Context()).Debug("rejected session cookie", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), username, role)
			ctx = ctxlog.With(ctx, "username", username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUsername(r.Context()) == "" {
			Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole creates RBAC middleware. Requests whose session role is not one
// of roles, anonymous ones included, get 403.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetRole(r.Context()).In(roles...) {
				Error(w, http.StatusForbidden, "Unauthorized access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity stores the authenticated identity in ctx.
func WithIdentity(ctx context.Context, username string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, UsernameKey, username)
	return context.WithValue(ctx, RoleKey, role)
}

// GetUsername extracts the session username from context.
func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameKey).(string); ok {
		return username
	}
	return ""
}

// GetRole extracts the session role from context.
func GetRole(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(RoleKey).(domain.Role); ok {
		return role
	}
	return ""
}
