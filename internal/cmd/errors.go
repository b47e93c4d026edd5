package cmd

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// NotLoggedInError creates a helpful error when no session is stored
func NotLoggedInError() error {
	return NewErrorWithSuggestions(
		"You are not logged in",
		nil,
		"Log in: flowdeck auth login",
		"Create an account: flowdeck auth register",
	)
}

// SessionClearedError creates a helpful error after the gateway
// invalidated the stored session
func SessionClearedError() error {
	return NewErrorWithSuggestions(
		"Your session expired and was cleared",
		nil,
		"Log in again: flowdeck auth login",
	)
}

// WorkspaceMissingError creates a helpful error when the account has no
// workspace
func WorkspaceMissingError() error {
	return NewErrorWithSuggestions(
		"No workspace is associated with your account",
		nil,
		"Create one: flowdeck tenant create --name <name>",
		"Or ask a workspace owner to invite you",
	)
}

// GatewayUnreachableError creates a helpful error for connection failures
func GatewayUnreachableError(apiURL string, err error) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Cannot reach the API gateway at %s", apiURL),
		err,
		"Check that the gateway is running",
		"Point at a different gateway: --api-url <url> or FLOWDECK_API_URL",
	)
}

// ValidationError creates a helpful error for invalid flag values
func ValidationError(field string, value interface{}, validValues string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Invalid value for %s: %v", field, value),
		nil,
		fmt.Sprintf("Valid values: %s", validValues),
		"Run with --help to see all available options",
	)
}
