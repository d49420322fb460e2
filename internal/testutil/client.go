// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"testing"
)

// Client is an HTTP client for testing API endpoints. Session cookies are
// kept in its jar, so one Client is one logged-in browser.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Validator  *OpenAPIValidator
	t          *testing.T
}

// NewClient creates a test client. validator may be nil to skip contract checks.
func NewClient(t *testing.T, baseURL string, validator *OpenAPIValidator) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Jar: jar},
		Validator:  validator,
		t:          t,
	}
}

// Register creates an account and fails the test unless it succeeds.
func (c *Client) Register(username, password, role string) {
	c.t.Helper()
	resp := c.POST("/api/register", map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	})
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register %s failed: status=%d body=%s", username, resp.StatusCode, ReadBody(c.t, resp))
	}
	_ = resp.Body.Close()
}

// LoginAs logs in; the session cookie lands in the jar.
func (c *Client) LoginAs(username, password string) {
	c.t.Helper()
	resp := c.POST("/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login %s failed: status=%d body=%s", username, resp.StatusCode, ReadBody(c.t, resp))
	}
	_ = resp.Body.Close()
}

// RegisterAndLogin registers a fresh account with role and logs in as it.
// It returns the generated username.
func (c *Client) RegisterAndLogin(role string) string {
	c.t.Helper()
	username := RandomUsername(role)
	c.Register(username, "password123", role)
	c.LoginAs(username, "password123")
	return username
}

// GET performs a GET request.
func (c *Client) GET(path string) *http.Response {
	return c.do(http.MethodGet, path, nil)
}

// POST performs a POST request with JSON body.
func (c *Client) POST(path string, body any) *http.Response {
	return c.do(http.MethodPost, path, body)
}

// PUT performs a PUT request with JSON body.
func (c *Client) PUT(path string, body any) *http.Response {
	return c.do(http.MethodPut, path, body)
}

func (c *Client) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		c.t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}

	if c.Validator != nil {
		c.Validator.ValidateResponse(c.t, req, resp)
	}

	return resp
}

// DecodeJSON decodes response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ReadBody reads and returns response body as string.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// RandomUsername returns a username unlikely to collide across tests.
func RandomUsername(prefix string) string {
	return fmt.Sprintf("%s-%08x", prefix, rand.Uint32())
}
