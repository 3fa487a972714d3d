package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidFilter = New(http.StatusBadRequest, "INVALID_FILTER", "Invalid filter parameter")

	// 401 Unauthorized
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrSourceUnavailable = New(http.StatusInternalServerError, "SOURCE_UNAVAILABLE", "Data source unavailable")
)

// InvalidFilterError creates an invalid filter error with field details
func InvalidFilterError(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_FILTER", "Invalid filter parameter", map[string]string{
		"field":   field,
		"message": message,
	})
}

// UnauthorizedError creates an unauthorized error with a reason
func UnauthorizedError(reason string) *APIError {
	return NewWithDetails(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", reason)
}

// SourceUnavailableError creates a source unavailable error wrapping the cause
func SourceUnavailableError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "SOURCE_UNAVAILABLE", "Data source unavailable", err.Error())
}

// NotFoundError creates a not found error for a named resource
func NotFoundError(resource string) *APIError {
	return New(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource))
}

// Respond renders err as a JSON error response. Non-APIError values are
// masked as a generic 500 so internal detail never leaks to clients.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ErrInternalServer
	}
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}
