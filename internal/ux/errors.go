package ux

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	// Authentication errors
	if strings.Contains(errMsg, "not logged in") || strings.Contains(errMsg, "authentication required") {
		return NewErrorWithSuggestion(err,
			"Log in with 'flowdeck auth login' or register with 'flowdeck auth register'")
	}

	if strings.Contains(errMsg, "session expired") || strings.Contains(errMsg, "session was cleared") {
		return NewErrorWithSuggestion(err,
			"Your session is no longer valid. Log in again with 'flowdeck auth login'")
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return NewErrorWithSuggestion(err,
				"The gateway rejected your credentials. Log in again with 'flowdeck auth login'")
		case http.StatusForbidden:
			return NewErrorWithSuggestion(err,
				"Your role does not permit this operation. Ask a workspace owner or admin to perform it")
		case http.StatusNotFound:
			return NewErrorWithSuggestion(err,
				"Check the ID with 'flowdeck workflow list', 'flowdeck execution list' or 'flowdeck hitl list'")
		}
	}

	// Workspace errors
	if strings.Contains(errMsg, "no workspace") || (strings.Contains(errMsg, "tenant") && strings.Contains(errMsg, "not found")) {
		return NewErrorWithSuggestion(err,
			"Create a workspace with 'flowdeck tenant create --name <name>'")
	}

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check that the gateway is running and --api-url (or FLOWDECK_API_URL) points at it")
	}

	if strings.Contains(errMsg, "context deadline exceeded") || strings.Contains(errMsg, "Client.Timeout") {
		return NewErrorWithSuggestion(err,
			"The gateway did not respond in time. Retry, or raise api.timeout in ~/.flowdeck/config.yaml")
	}

	// Permission errors
	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions on ~/.flowdeck and ensure the session file is writable")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
