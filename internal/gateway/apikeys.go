package gateway

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// APIKey is a programmatic credential for the backend API. SecretKey is
// populated only in the create response; afterwards it is retrievable
// once through the secret endpoint.
type APIKey struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	APIKey     string     `json:"apiKey"`
	SecretKey  string     `json:"secretKey,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// ListAPIKeys retrieves the current user's API keys
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var result struct {
		APIKeys []APIKey `json:"apiKeys"`
	}
	if err := c.do(ctx, "GET", "/user/api-keys", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.APIKeys, nil
}

// CreateAPIKey creates a new API key. The response carries the secret;
// show it immediately, it is not listed again.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*APIKey, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}

	var result struct {
		APIKey APIKey `json:"apiKey"`
	}
	if err := c.do(ctx, "POST", "/user/api-keys", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.APIKey, nil
}

// DeleteAPIKey revokes an API key
func (c *Client) DeleteAPIKey(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/user/api-keys/"+url.PathEscape(id), nil, nil, nil)
}

// GetAPIKeySecret retrieves the secret for an existing key
func (c *Client) GetAPIKeySecret(ctx context.Context, id string) (string, error) {
	var result struct {
		Secret string `json:"secret"`
	}
	path := fmt.Sprintf("/user/api-keys/%s/secret", url.PathEscape(id))
	if err := c.do(ctx, "GET", path, nil, nil, &result); err != nil {
		return "", err
	}
	return result.Secret, nil
}
