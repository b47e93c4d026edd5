package gateway

import (
	"context"
	"time"

	"github.com/flowdeck/flowdeck/internal/session"
)

// Profile is the account self-service view of the current user.
type Profile struct {
	ID        string       `json:"_id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Role      session.Role `json:"role"`
	CreatedAt time.Time    `json:"createdAt"`
}

// GetProfile retrieves the current user's profile
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var result struct {
		Profile Profile `json:"profile"`
	}
	if err := c.do(ctx, "GET", "/settings/profile", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Profile, nil
}

// UpdateProfile patches the profile name and/or email. Empty fields are
// omitted and left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*Profile, error) {
	req := struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	}{Name: name, Email: email}

	var result struct {
		Profile Profile `json:"profile"`
	}
	if err := c.do(ctx, "PATCH", "/settings/profile", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Profile, nil
}

// ChangePassword rotates the account password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	req := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{CurrentPassword: currentPassword, NewPassword: newPassword}

	return c.do(ctx, "POST", "/settings/password", nil, req, nil)
}

// GetPreferences retrieves account preferences as an opaque key/value set
func (c *Client) GetPreferences(ctx context.Context) (map[string]interface{}, error) {
	var result struct {
		Preferences map[string]interface{} `json:"preferences"`
	}
	if err := c.do(ctx, "GET", "/settings/preferences", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Preferences, nil
}

// DeleteAccount permanently deletes the current account
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, "DELETE", "/settings/account", nil, nil, nil)
}
