package gateway

import (
	"context"

	"github.com/flowdeck/flowdeck/internal/session"
)

// RegisterRequest creates an account, optionally with a fresh workspace.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	TenantName string `json:"tenantName,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the credential set returned by login and register; it is
// what gets written into the session store on success.
type AuthResult struct {
	Token    string          `json:"token"`
	User     session.User    `json:"user"`
	Tenant   *session.Tenant `json:"tenant"`
	IsMaster bool            `json:"isMaster"`
}

// Identity is the session introspection payload from /auth/me.
type Identity struct {
	User     session.User    `json:"user"`
	Tenant   *session.Tenant `json:"tenant"`
	IsMaster bool            `json:"isMaster"`
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var result AuthResult
	if err := c.do(ctx, "POST", "/auth/login", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account and returns credentials for it
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, "POST", "/auth/register", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me retrieves the identity behind the current token
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, "GET", "/auth/me", nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout terminates the session server side. Clearing the local session
// store is the caller's job; the backend call is best-effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "POST", "/auth/logout", nil, nil, nil)
}
