package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"testing"

	"github.com/bissquit/bloodbridge/internal/config"
	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/donors"
	"github.com/bissquit/bloodbridge/internal/events"
	"github.com/bissquit/bloodbridge/internal/identity"
	"github.com/bissquit/bloodbridge/internal/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is a single in-process implementation of every repository.
type memoryStore struct {
	mu        sync.Mutex
	users     map[string]domain.User
	requests  []domain.BloodRequest
	inventory []domain.Document
	donors    map[string]domain.Document
	events    []domain.DonationEvent
	pingErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:  make(map[string]domain.User),
		donors: make(map[string]domain.Document),
	}
}

func (m *memoryStore) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return identity.ErrUsernameExists
	}
	m.users[user.Username] = *user
	return nil
}

func (m *memoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &user, nil
}

func (m *memoryStore) CreateRequest(_ context.Context, request *domain.BloodRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, *request)
	return nil
}

func (m *memoryStore) ListRequests(_ context.Context, filter requests.RequestFilter) ([]domain.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.BloodRequest, 0)
	for _, r := range m.requests {
		if filter.Hospital != nil && r.Hospital != *filter.Hospital {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *memoryStore) ListItems(_ context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]domain.Document, 0), m.inventory...), nil
}

func (m *memoryStore) CreateItem(_ context.Context, item domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inventory = append(m.inventory, item)
	return nil
}

func (m *memoryStore) GetDonor(_ context.Context, username string) (*domain.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attrs, ok := m.donors[username]
	if !ok {
		return nil, donors.ErrDonorNotFound
	}
	return &domain.Donor{Username: username, Attributes: attrs}, nil
}

func (m *memoryStore) UpsertDonor(_ context.Context, donor *domain.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donors[donor.Username] = donor.Attributes
	return nil
}

func (m *memoryStore) CreateEvent(_ context.Context, event *domain.DonationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryStore) ListEvents(_ context.Context, _ events.EventFilter) ([]domain.DonationEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]domain.DonationEvent, 0), m.events...), nil
}

func (m *memoryStore) ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *memoryStore) setPingErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

func (m *memoryStore) counts() (requestCount, itemCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests), len(m.inventory)
}

func newTestApp(t *testing.T) (*httptest.Server, *memoryStore) {
	t.Helper()

	mem := newMemoryStore()
	st := &store{
		identity:  mem,
		requests:  mem,
		inventory: mem,
		donors:    mem,
		events:    mem,
		ping:      mem.ping,
		close:     func(context.Context) error { return nil },
	}

	cfg := config.Default()
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Database.URL = "memory://"

	application, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), st)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Router())
	t.Cleanup(srv.Close)
	return srv, mem
}

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, body any) (int, string) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, string(raw)
}

func (c *testClient) registerAndLogin(username string, role domain.Role) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": username, "password": "secret-pw", "role": string(role),
	})
	require.Equal(c.t, http.StatusCreated, status, body)

	status, body = c.do(http.MethodPost, "/api/login", map[string]string{
		"username": username, "password": "secret-pw",
	})
	require.Equal(c.t, http.StatusOK, status, body)
}

func TestApp_OperationalEndpoints(t *testing.T) {
	srv, mem := newTestApp(t)
	client := newClient(t, srv)

	status, body := client.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	status, _ = client.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, status)

	mem.setPingErr(errors.New("down"))
	status, _ = client.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body = client.do(http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"version"`)
}

func TestApp_HospitalFlow(t *testing.T) {
	srv, _ := newTestApp(t)
	hospital := newClient(t, srv)
	hospital.registerAndLogin("st-marys", domain.RoleHospital)

	status, body := hospital.do(http.MethodPost, "/api/hospital-request", map[string]any{"bloodType": "a-", "quantity": 2})
	require.Equal(t, http.StatusOK, status, body)

	status, body = hospital.do(http.MethodGet, "/api/hospital-request-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"hospital":"st-marys"`)
	assert.Contains(t, body, `"bloodType":"A-"`)

	status, body = hospital.do(http.MethodPost, "/api/hospital-schedule-event", map[string]any{
		"eventName": "Drive", "eventDate": "2026-11-02", "location": "Lobby",
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = hospital.do(http.MethodGet, "/api/hospital-inventory", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	status, _ = hospital.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = hospital.do(http.MethodGet, "/api/hospital-request-status", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"status":"error","message":"Unauthorized access"}`, body)
}

// Sessions are stateless tokens: logout expires the cookie in the browser,
// while a copy taken earlier keeps working until it expires.
func TestApp_LogoutOnlyDropsCookie(t *testing.T) {
	srv, _ := newTestApp(t)
	hospital := newClient(t, srv)
	hospital.registerAndLogin("st-marys", domain.RoleHospital)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	var copied *http.Cookie
	for _, c := range hospital.http.Jar.Cookies(base) {
		if c.Name == "bb_session" {
			copied = c
		}
	}
	require.NotNil(t, copied)

	status, _ := hospital.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, hospital.http.Jar.Cookies(base))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/hospital-request-status", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: copied.Name, Value: copied.Value})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_UserCannotReachHospitalOrAdminRoutes(t *testing.T) {
	srv, mem := newTestApp(t)
	user := newClient(t, srv)
	user.registerAndLogin("alice", domain.RoleUser)

	status, _ := user.do(http.MethodPost, "/api/hospital-request", map[string]any{"bloodType": "A+", "quantity": 1})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = user.do(http.MethodPost, "/api/admin/inventory", map[string]any{"units": 1})
	assert.Equal(t, http.StatusForbidden, status)

	requestCount, inventoryCount := mem.counts()
	assert.Zero(t, requestCount)
	assert.Zero(t, inventoryCount)
}

func TestApp_DonorManagement(t *testing.T) {
	srv, _ := newTestApp(t)

	anonymous := newClient(t, srv)
	status, _ := anonymous.do(http.MethodGet, "/api/donor-management", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := newClient(t, srv)
	admin.registerAndLogin("root", domain.RoleAdmin)
	status, body := admin.do(http.MethodPut, "/api/admin/donors/alice", map[string]any{"bloodType": "O-", "donations": 2})
	require.Equal(t, http.StatusOK, status, body)

	alice := newClient(t, srv)
	alice.registerAndLogin("alice", domain.RoleUser)
	status, body = alice.do(http.MethodGet, "/api/donor-management", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"username":"alice","bloodType":"O-","donations":2}`, body)

	bob := newClient(t, srv)
	bob.registerAndLogin("bob", domain.RoleUser)
	status, body = bob.do(http.MethodGet, "/api/donor-management", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"status":"error","message":"Donor data not found"}`, body)
}

func TestApp_ForgedCookieIsAnonymous(t *testing.T) {
	srv, _ := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/donor-management", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "bb_session", Value: "eyJhbGciOiJub25lIn0.e30."})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApp_CORSPreflight(t *testing.T) {
	srv, _ := newTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := initLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
