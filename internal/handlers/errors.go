package handlers

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories reported in the "error" field of an ErrorPayload
const (
	CategoryNotFound = "Not Found"
	CategoryInternal = "Internal Server Error"
)

// internalMessage is the only message clients see for a 500
const internalMessage = "An unexpected error occurred"

// ErrRouteNotFound is returned by the router when no route matches
var ErrRouteNotFound = errors.New("route not found")

// ErrorPayload represents a standard error response
type ErrorPayload struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// HTTPError is an error that carries the status and client-facing message to answer with.
// Route handlers return it when a failure is the caller's fault.
type HTTPError struct {
	StatusCode int
	Category   string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// routeNotFound builds the error for an unmatched method and path
func routeNotFound(method, path string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusNotFound,
		Category:   CategoryNotFound,
		Message:    fmt.Sprintf("Route %s %s not found", method, path),
		Err:        ErrRouteNotFound,
	}
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrRouteNotFound)
}
