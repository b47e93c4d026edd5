package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx backend response. Message carries whatever the
// backend put in the error/message body fields, raw body as fallback.
type APIError struct {
	Status  int
	Message string

	// SessionCleared is true when 401 handling invalidated the stored
	// session; the CLI uses it to direct the user back to login.
	SessionCleared bool
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// SessionWasCleared reports whether err is a 401 whose handling
// invalidated the stored session.
func SessionWasCleared(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.SessionCleared
}
