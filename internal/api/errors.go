package api

import (
	"errors"
	"fmt"
)

// Common API errors
var (
	// ErrUnauthorized is returned when the server rejects the credentials and
	// the session could not be refreshed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrRefreshFailed is returned when the refresh token was rejected.
	ErrRefreshFailed = errors.New("session refresh failed")

	// ErrUnexpectedResponse is returned when a 2xx body lacks the expected fields.
	ErrUnexpectedResponse = errors.New("unexpected API response")

	// ErrInvalidInput is returned when a request body fails local validation.
	ErrInvalidInput = errors.New("invalid request input")

	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("server error")
)

// APIError describes a failed API call.
type APIError struct {
	// Op is the client operation that failed (e.g., "CreateBudget").
	Op string

	Method     string
	Path       string
	StatusCode int

	// Message is the server supplied message, if any.
	Message string

	// Err is the sentinel error matching the status code.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s %s: status %d: %s", e.Op, e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s %s: status %d: %v", e.Op, e.Method, e.Path, e.StatusCode, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the server message shown to users.
func (e *APIError) UserMessage() string {
	return e.Message
}

func statusError(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrInvalidInput
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpectedResponse
	}
}
