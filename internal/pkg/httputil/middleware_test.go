package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	username string
	role     domain.Role
	err      error
}

func (s stubValidator) ValidateSession(_ context.Context, _ string) (string, domain.Role, error) {
	return s.username, s.role, s.err
}

// whoami echoes the identity found in the request context.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	Text(w, http.StatusOK, GetUsername(r.Context())+"/"+string(GetRole(r.Context())))
})

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		cookie    *http.Cookie
		validator stubValidator
		want      string
	}{
		{
			name:      "no cookie",
			validator: stubValidator{username: "alice", role: domain.RoleUser},
			want:      "/",
		},
		{
			name:      "valid cookie",
			cookie:    &http.Cookie{Name: SessionCookie, Value: "token"},
			validator: stubValidator{username: "alice", role: domain.RoleHospital},
			want:      "alice/hospital",
		},
		{
			name:      "rejected cookie",
			cookie:    &http.Cookie{Name: SessionCookie, Value: "forged"},
			validator: stubValidator{err: errors.New("bad signature")},
			want:      "/",
		},
		{
			name:      "other cookie",
			cookie:    &http.Cookie{Name: "theme", Value: "dark"},
			validator: stubValidator{username: "alice", role: domain.RoleUser},
			want:      "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			SessionMiddleware(tt.validator)(whoami).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(whoami)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"unauthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), "bob", domain.RoleUser))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob/user", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(domain.RoleHospital, domain.RoleAdmin)(whoami)

	tests := []struct {
		name string
		role domain.Role
		want int
	}{
		{"anonymous", "", http.StatusForbidden},
		{"user", domain.RoleUser, http.StatusForbidden},
		{"hospital", domain.RoleHospital, http.StatusOK},
		{"admin", domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.role != "" {
				req = req.WithContext(WithIdentity(req.Context(), "someone", tt.role))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.JSONEq(t, `{"status":"error","message":"Unauthorized access"}`, rec.Body.String())
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:3000"})(whoami)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Empty(t, rec.Body.String())
	})
}
