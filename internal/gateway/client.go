// Package gateway is the single HTTP client through which every backend
// call flows. It attaches the bearer token read from the session store at
// send time and reacts to authorization failures with an explicit,
// non-blended 401 policy. It never retries, backs off, or deduplicates
// in-flight requests; everything but the 401 side effect is the caller's
// problem.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowdeck/flowdeck/internal/log"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:3001"

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for outbound requests. It is read
// per request, never captured by closure, so the freshest persisted value
// wins.
type TokenSource interface {
	Token() string
}

// SessionClearer invalidates the stored session. The session store
// implements it.
type SessionClearer interface {
	ClearAuth() error
}

// UnauthorizedPolicy decides what a 401 response does to the stored
// session. The two policies are mutually exclusive; a client carries
// exactly one.
type UnauthorizedPolicy interface {
	// HandleUnauthorized is called with the request path that failed.
	// It returns true when the stored session was invalidated.
	HandleUnauthorized(path string) bool
}

// ScopedLogoutPolicy clears the stored session only when the failing
// request targeted an auth endpoint. A stray 401 from an unrelated
// endpoint leaves the session alone and lets the caller decide.
type ScopedLogoutPolicy struct {
	Sessions SessionClearer
}

// HandleUnauthorized implements UnauthorizedPolicy.
func (p ScopedLogoutPolicy) HandleUnauthorized(path string) bool {
	if !strings.HasPrefix(path, "/auth/") {
		return false
	}
	if p.Sessions != nil {
		_ = p.Sessions.ClearAuth()
	}
	return true
}

// GlobalLogoutPolicy clears the stored session on any 401 so the next
// command lands on the login prompt.
type GlobalLogoutPolicy struct {
	Sessions SessionClearer
}

// HandleUnauthorized implements UnauthorizedPolicy.
func (p GlobalLogoutPolicy) HandleUnauthorized(string) bool {
	if p.Sessions != nil {
		_ = p.Sessions.ClearAuth()
	}
	return true
}

// Client is the flowdeck backend API client
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	Tokens       TokenSource
	Unauthorized UnauthorizedPolicy

	logger *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout overrides the per-request timeout. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request-level debug output
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUnauthorizedPolicy selects the 401 handling policy
func WithUnauthorizedPolicy(policy UnauthorizedPolicy) Option {
	return func(c *Client) { c.Unauthorized = policy }
}

// NewClient creates a new backend API client. The default 401 policy is
// a scoped logout with no session wired; callers attach a real session
// store via WithUnauthorizedPolicy.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		Tokens:       tokens,
		Unauthorized: ScopedLogoutPolicy{},
		logger:       log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorResponse represents an API error body
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// envelope is the uniform response wrapper; every endpoint nests its
// payload under data.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// do performs one HTTP request and decodes the data envelope into target
// when target is non-nil. Non-2xx statuses become an *APIError carrying
// the backend's message; a 401 additionally runs the configured policy
// before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	// The token is read from durable storage at send time, not when the
	// caller built the operation.
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}

		if resp.StatusCode == http.StatusUnauthorized && c.Unauthorized != nil {
			apiErr.SessionCleared = c.Unauthorized.HandleUnauthorized(path)
			if apiErr.SessionCleared {
				c.logger.Debug("session invalidated after 401", "path", path)
			}
		}

		// Prefer the structured message from the body.
		raw, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil {
			if errResp.Message != "" {
				apiErr.Message = errResp.Message
			} else if errResp.Error != "" {
				apiErr.Message = errResp.Error
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}

		return apiErr
	}

	if target == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response is missing data")
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}

// runQuery builds the optional runId query parameter shared by the
// execution endpoints.
func runQuery(runID string) url.Values {
	if runID == "" {
		return nil
	}
	return url.Values{"runId": []string{runID}}
}
