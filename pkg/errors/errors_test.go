package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/cli/pkg/client"
)

// TestNewCLIError creates and validates a CLI error
func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	if err == nil {
		t.Fatal("NewCLIError returned nil")
	}

	if err.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, err.Type)
	}

	if err.Message != "Test error" {
		t.Errorf("Expected message 'Test error', got '%s'", err.Message)
	}

	if err.Cause != cause {
		t.Error("Cause not set correctly")
	}
}

// TestWithSuggestion adds suggestion to error
func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeValidation, "Test", nil)
	suggestion := "Try something else"

	result := err.WithSuggestion(suggestion)

	if !result.HasSuggestion() {
		t.Error("HasSuggestion returned false")
	}

	if result.Suggestion != suggestion {
		t.Errorf("Expected suggestion '%s', got '%s'", suggestion, result.Suggestion)
	}
}

// TestNetworkError creates network error
func TestNetworkError(t *testing.T) {
	err := NetworkError("Connection failed")

	if err.Type != ErrorTypeNetwork {
		t.Errorf("Expected type %s, got %s", ErrorTypeNetwork, err.Type)
	}

	if !strings.Contains(err.Suggestion, "internet") {
		t.Error("Expected helpful suggestion about internet connection")
	}
}

// TestAuthError creates auth error
func TestAuthError(t *testing.T) {
	err := AuthError("Invalid credentials")

	if err.Type != ErrorTypeAuth {
		t.Errorf("Expected type %s, got %s", ErrorTypeAuth, err.Type)
	}

	if !strings.Contains(err.Suggestion, "auth login") {
		t.Error("Expected login suggestion")
	}
}

func TestForbiddenErrorDefaultMessage(t *testing.T) {
	assert.Equal(t, "Access denied", ForbiddenError("").Message)
	assert.Equal(t, "Host only", ForbiddenError("Host only").Message)
}

// TestValidationError creates validation error
func TestValidationError(t *testing.T) {
	err := ValidationError("email", "invalid format")

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Contains(t, err.Message, "email")
	assert.Contains(t, err.Message, "invalid format")
}

// TestRateLimitError creates rate limit error
func TestRateLimitError(t *testing.T) {
	err := RateLimitError(60)

	assert.Equal(t, ErrorTypeRateLimit, err.Type)
	assert.Equal(t, 60, err.RetryAfter)
	assert.Contains(t, err.Suggestion, "60")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Party", "abc123")

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "Party not found: abc123", err.Message)
}

// TestCategorizeError categorizes plain errors by message
func TestCategorizeError(t *testing.T) {
	testCases := []struct {
		input    error
		expected ErrorType
		name     string
	}{
		{errors.New("dial tcp: connection refused"), ErrorTypeNetwork, "connection refused"},
		{errors.New("i/o timeout"), ErrorTypeTimeout, "timeout"},
		{context.DeadlineExceeded, ErrorTypeTimeout, "context deadline"},
		{fmt.Errorf("load: %w", context.Canceled), ErrorTypeCanceled, "canceled"},
		{errors.New("401 unauthorized"), ErrorTypeAuth, "401 text"},
		{errors.New("403 forbidden"), ErrorTypeForbidden, "403 text"},
		{errors.New("something odd"), ErrorTypeUnknown, "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CategorizeError(tc.input)
			assert.Equal(t, tc.expected, err.Type)
		})
	}
}

func TestCategorizeAPIError(t *testing.T) {
	testCases := []struct {
		name     string
		input    *client.APIError
		expected ErrorType
	}{
		{"unauthorized", &client.APIError{Status: 401, Code: client.CodeHTTP, Message: "Token expired"}, ErrorTypeAuth},
		{"forbidden", &client.APIError{Status: 403, Code: client.CodeHTTP, Message: "Host only"}, ErrorTypeForbidden},
		{"not found", &client.APIError{Status: 404, Code: client.CodeHTTP, Message: "Party not found"}, ErrorTypeNotFound},
		{"conflict", &client.APIError{Status: 409, Code: client.CodeHTTP, Message: "Already joined"}, ErrorTypeConflict},
		{"too many", &client.APIError{Status: 429, Code: client.CodeHTTP, Message: "Slow down"}, ErrorTypeRateLimit},
		{"bad request", &client.APIError{Status: 400, Code: client.CodeHTTP, Message: "Invalid"}, ErrorTypeValidation},
		{"server", &client.APIError{Status: 503, Code: client.CodeNetwork, Message: "HTTP 503: Service Unavailable"}, ErrorTypeServer},
		{"transport", &client.APIError{Code: client.CodeNetwork, Message: "dial tcp"}, ErrorTypeNetwork},
		{"canceled", &client.APIError{Code: client.CodeCanceled, Message: "context canceled"}, ErrorTypeCanceled},
		{"local rate limit", &client.APIError{Code: client.CodeRateLimited, Message: "rate limit exceeded"}, ErrorTypeRateLimit},
		{"bad payload", &client.APIError{Status: 200, Code: client.CodeInvalidResponse, Message: "invalid response"}, ErrorTypeInvalidResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CategorizeError(fmt.Errorf("wrapped: %w", tc.input))
			require.NotNil(t, err)
			assert.Equal(t, tc.expected, err.Type)
			assert.Equal(t, tc.input.Status, err.StatusCode)
			assert.Same(t, tc.input, err.Cause)
		})
	}
}

func TestCategorizeAPIErrorKeepsServerMessage(t *testing.T) {
	err := CategorizeError(&client.APIError{Status: 404, Code: client.CodeHTTP, Message: "Party not found"})
	assert.Equal(t, "Party not found", err.Message)
}

func TestCategorizeKeepsCLIError(t *testing.T) {
	original := SessionExpiredError()
	assert.Same(t, original, CategorizeError(fmt.Errorf("ctx: %w", original)))
}

// TestFormatError formats error for display
func TestFormatError(t *testing.T) {
	formatted := FormatError(AuthError("Invalid credentials"))

	assert.Contains(t, formatted, "❌ Error (auth): Invalid credentials")
	assert.Contains(t, formatted, "💡 Suggestion:")
}

func TestFormatErrorDetails(t *testing.T) {
	formatted := FormatError(&client.APIError{
		Status:  400,
		Code:    "validation_error",
		Message: "Invalid party",
		Details: map[string][]string{"title": {"This field is required."}},
	})

	assert.Contains(t, formatted, "Invalid party")
	assert.Contains(t, formatted, "title: This field is required.")
}

func TestFormatErrorRateLimit(t *testing.T) {
	formatted := FormatError(RateLimitError(30))
	assert.Contains(t, formatted, "Retry in: 30 seconds")
}

// TestFormatError_NoSuggestion formats error without suggestion
func TestFormatError_NoSuggestion(t *testing.T) {
	formatted := FormatError(NewCLIError(ErrorTypeUnknown, "Some error", nil))

	assert.Equal(t, "❌ Error: Some error\n", formatted)
}

// TestFormatError_Nil handles nil error
func TestFormatError_Nil(t *testing.T) {
	if formatted := FormatError(nil); formatted != "" {
		t.Errorf("Expected empty string for nil error, got '%s'", formatted)
	}
}

// TestUnwrap returns underlying error
func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test", cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the correct underlying error")
	}
}
