package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired       ErrorCode = "AUTH-001"
	ErrCodeAuthInvalid        ErrorCode = "AUTH-002"
	ErrCodeAuthTokenExpired   ErrorCode = "AUTH-003"
	ErrCodeAuthSessionRevoked ErrorCode = "AUTH-004"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionEmptyToken ErrorCode = "SESSION-001"
	ErrCodeSessionPersist    ErrorCode = "SESSION-002"
	ErrCodeSessionCorrupt    ErrorCode = "SESSION-003"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest     ErrorCode = "API-001"
	ErrCodeAPINotFound    ErrorCode = "API-002"
	ErrCodeAPIForbidden   ErrorCode = "API-003"
	ErrCodeAPIUnavailable ErrorCode = "API-004"
	ErrCodeAPIDecode      ErrorCode = "API-005"
	ErrCodeAPINetwork     ErrorCode = "API-006"

	// Tenant errors (TENANT-001 to TENANT-099)
	ErrCodeTenantMissing   ErrorCode = "TENANT-001"
	ErrCodeTenantRole      ErrorCode = "TENANT-002"
	ErrCodeTenantLastOwner ErrorCode = "TENANT-003"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigRead    ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
	ErrCodeFileMarshal     ErrorCode = "IO-005"
)

// FlowdeckError represents an enhanced error with code, suggestions, and documentation
type FlowdeckError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *FlowdeckError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FlowdeckError) Unwrap() error {
	return e.Cause
}

// New creates a new FlowdeckError
func New(code ErrorCode, message string) *FlowdeckError {
	return &FlowdeckError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new FlowdeckError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *FlowdeckError {
	return &FlowdeckError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *FlowdeckError) WithSuggestion(suggestion string) *FlowdeckError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *FlowdeckError) WithSuggestions(suggestions ...string) *FlowdeckError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *FlowdeckError) WithDocs(url string) *FlowdeckError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthRequiredError creates a not-logged-in error
func NewAuthRequiredError() *FlowdeckError {
	return New(ErrCodeAuthRequired, "not logged in").
		WithSuggestion("Run 'flowdeck auth login' to authenticate").
		WithSuggestion("Run 'flowdeck auth register' to create an account")
}

// NewAuthInvalidError creates an invalid-credentials error
func NewAuthInvalidError(cause error) *FlowdeckError {
	return Wrap(ErrCodeAuthInvalid, "authentication failed", cause).
		WithSuggestion("Check your email and password").
		WithSuggestion("Run 'flowdeck auth login' to re-authenticate")
}

// NewSessionRevokedError creates a session-invalidated error
func NewSessionRevokedError() *FlowdeckError {
	return New(ErrCodeAuthSessionRevoked, "session is no longer valid").
		WithSuggestion("Your stored credentials were cleared").
		WithSuggestion("Run 'flowdeck auth login' to start a new session")
}

// NewSessionEmptyTokenError creates an empty-token error
func NewSessionEmptyTokenError() *FlowdeckError {
	return New(ErrCodeSessionEmptyToken, "session token must not be empty")
}

// NewSessionPersistError creates a session persistence error
func NewSessionPersistError(path string, cause error) *FlowdeckError {
	return Wrap(ErrCodeSessionPersist, fmt.Sprintf("failed to persist session to %s", path), cause).
		WithSuggestion("Check permissions on the flowdeck config directory").
		WithSuggestion("Set session.path in ~/.flowdeck/config.yaml to a writable location")
}

// NewTenantMissingError creates an error for commands that need a workspace
func NewTenantMissingError() *FlowdeckError {
	return New(ErrCodeTenantMissing, "no active workspace").
		WithSuggestion("Run 'flowdeck tenant create --name <name>' to create a workspace").
		WithSuggestion("Log in with an account that belongs to a workspace")
}

// NewTenantRoleError creates an error for insufficient workspace role
func NewTenantRoleError(required string) *FlowdeckError {
	return New(ErrCodeTenantRole, fmt.Sprintf("this action requires the %s role", required)).
		WithSuggestion("Ask a workspace owner or admin to perform this action").
		WithSuggestion("Run 'flowdeck tenant members list' to see member roles")
}

// NewConfigReadError creates a config read error
func NewConfigReadError(path string, cause error) *FlowdeckError {
	return Wrap(ErrCodeConfigRead, fmt.Sprintf("failed to read configuration: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the config file").
		WithSuggestion("Remove the file to fall back to defaults")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *FlowdeckError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *FlowdeckError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
