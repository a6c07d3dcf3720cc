package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/watchparty/cli/pkg/client"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeTimeout  ErrorType = "timeout"
	ErrorTypeCanceled ErrorType = "canceled"

	// Authentication errors
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"

	// Validation errors
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"

	// Server errors
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	RetryAfter int
	Details    map[string][]string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check your internet connection and the api.base_url setting, then try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// AuthError creates an authentication error
func AuthError(message string) *CLIError {
	err := NewCLIError(ErrorTypeAuth, message, nil)
	err.Suggestion = "Try logging in again with 'watchparty auth login'"
	return err
}

// SessionExpiredError creates a session expired error
func SessionExpiredError() *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, "Your session has expired", nil)
	err.Suggestion = "Run 'watchparty auth login' to refresh your session."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError(message string) *CLIError {
	if message == "" {
		message = "Access denied"
	}
	err := NewCLIError(ErrorTypeForbidden, message, nil)
	err.Suggestion = "Contact an administrator if you believe this is an error."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// ServerError creates a server error
func ServerError(message string) *CLIError {
	if message == "" {
		message = "Server error"
	}
	err := NewCLIError(ErrorTypeServer, message, nil)
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// RateLimitError creates a rate limit error
func RateLimitError(retryAfter int) *CLIError {
	err := NewCLIError(ErrorTypeRateLimit,
		"Rate limit exceeded. Too many requests.",
		nil)
	err.RetryAfter = retryAfter
	err.Suggestion = fmt.Sprintf("Please wait %d seconds before trying again.", retryAfter)
	return err
}

// ConflictError creates a conflict error
func ConflictError(message string) *CLIError {
	err := NewCLIError(ErrorTypeConflict, message, nil)
	err.Suggestion = "The resource changed or already exists. Refresh and try again."
	return err
}

// CategorizeError converts an error into a CLIError. API errors are
// categorized by status and code; anything else by its message.
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	if errors.Is(err, context.Canceled) {
		return NewCLIError(ErrorTypeCanceled, "Request canceled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return withCause(TimeoutError(), err)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fromAPIError(apiErr)
	}

	errMsg := err.Error()
	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "connection refused"):
		return withCause(NetworkError("Could not connect to server. Make sure it's running."), err)
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return withCause(TimeoutError(), err)
	case strings.Contains(lower, "unauthorized"):
		return withCause(AuthError("Invalid credentials"), err)
	case strings.Contains(lower, "forbidden"):
		return withCause(ForbiddenError(""), err)
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

func fromAPIError(apiErr *client.APIError) *CLIError {
	var out *CLIError
	switch {
	case apiErr.Code == client.CodeCanceled:
		out = NewCLIError(ErrorTypeCanceled, "Request canceled", nil)
	case apiErr.Code == client.CodeRateLimited:
		out = RateLimitError(1)
	case apiErr.Status == 0:
		out = NetworkError(apiErr.Message)
	case apiErr.Code == client.CodeInvalidResponse:
		out = NewCLIError(ErrorTypeInvalidResponse, apiErr.Message, nil)
		out.Suggestion = "The server returned data this client does not understand. Check for a client update."
	case apiErr.Status == http.StatusUnauthorized:
		out = AuthError(apiErr.Message)
	case apiErr.Status == http.StatusForbidden:
		out = ForbiddenError(apiErr.Message)
	case apiErr.Status == http.StatusNotFound:
		out = NewCLIError(ErrorTypeNotFound, apiErr.Message, nil)
	case apiErr.Status == http.StatusConflict:
		out = ConflictError(apiErr.Message)
	case apiErr.Status == http.StatusTooManyRequests:
		out = RateLimitError(60)
	case apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity:
		out = NewCLIError(ErrorTypeValidation, apiErr.Message, nil)
	case apiErr.Status >= 500:
		out = ServerError(apiErr.Message)
	default:
		out = NewCLIError(ErrorTypeUnknown, apiErr.Message, nil)
	}
	out.Cause = apiErr
	out.StatusCode = apiErr.Status
	out.Details = apiErr.Details
	return out
}

func withCause(e *CLIError, cause error) *CLIError {
	e.Cause = cause
	return e
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("❌ Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	for field, messages := range cliErr.Details {
		sb.WriteString(fmt.Sprintf("   %s: %s\n", field, strings.Join(messages, "; ")))
	}

	if cliErr.HasSuggestion() {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	if cliErr.Type == ErrorTypeRateLimit && cliErr.RetryAfter > 0 {
		sb.WriteString("\n⏱️  Retry in: ")
		sb.WriteString(fmt.Sprintf("%d seconds\n", cliErr.RetryAfter))
	}

	return sb.String()
}
