package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Error codes carried by APIError when the server did not supply one
const (
	CodeNetwork         = "network_error"
	CodeHTTP            = "http_error"
	CodeInvalidResponse = "invalid_response"
	CodeCanceled        = "canceled"
	CodeRateLimited     = "rate_limited"
)

// APIError is the normalized failure of a request
type APIError struct {
	Status     int
	StatusText string
	Code       string
	Message    string
	Details    map[string][]string
	Endpoint   string
	Cause      error
}

// Error returns the server-provided message, or the synthesized one
func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// errorEnvelope is the expected non-2xx body. Only message/error/detail are
// read for the message; the rest is kept for display.
type errorEnvelope struct {
	Success *bool       `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Detail  string      `json:"detail"`
	Details interface{} `json:"details"`
}

func responseError(endpoint string, resp *resty.Response) *APIError {
	status := resp.StatusCode()
	text := statusText(resp)
	apiErr := &APIError{
		Status:     status,
		StatusText: text,
		Endpoint:   endpoint,
	}

	var env errorEnvelope
	if err := codec.Unmarshal(resp.Body(), &env); err != nil {
		apiErr.Code = CodeNetwork
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", status, text)
		return apiErr
	}

	apiErr.Code = env.Error
	if apiErr.Code == "" {
		apiErr.Code = CodeHTTP
	}
	apiErr.Details = flattenDetails(env.Details)

	switch {
	case env.Message != "":
		apiErr.Message = env.Message
	case env.Error != "":
		apiErr.Message = env.Error
	case env.Detail != "":
		apiErr.Message = env.Detail
	default:
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", status, text)
	}
	return apiErr
}

func transportError(endpoint string, err error) *APIError {
	apiErr := &APIError{
		Code:     CodeNetwork,
		Message:  err.Error(),
		Endpoint: endpoint,
		Cause:    err,
	}
	switch {
	case errors.Is(err, context.Canceled):
		apiErr.Code = CodeCanceled
	case errors.Is(err, resty.ErrRateLimitExceeded):
		apiErr.Code = CodeRateLimited
	}
	return apiErr
}

// flattenDetails keeps details shaped as field -> messages
func flattenDetails(raw interface{}) map[string][]string {
	m, ok := raw.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for field, v := range m {
		switch typed := v.(type) {
		case string:
			out[field] = []string{typed}
		case []interface{}:
			for _, item := range typed {
				out[field] = append(out[field], fmt.Sprint(item))
			}
		default:
			out[field] = []string{fmt.Sprint(typed)}
		}
	}
	return out
}

// statusText returns the reason phrase of the status line
func statusText(resp *resty.Response) string {
	code := strconv.Itoa(resp.StatusCode())
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status of err, or 0 when it has none
func StatusCode(err error) int {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return StatusCode(err) >= 500
}

// IsNetwork reports a transport failure or an unreadable error body
func IsNetwork(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Code == CodeNetwork
}

// IsCanceled reports whether the request was abandoned by its context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
