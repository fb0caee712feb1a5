package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoClassSelected indicates an operation that needs a selected
	// class was attempted without one.
	ErrNoClassSelected = errors.New("no class selected")

	// ErrDeleteInFlight indicates a document delete was rejected because
	// another delete is still running.
	ErrDeleteInFlight = errors.New("another delete is in progress")

	// ErrBackendUnreachable indicates the request never reached the
	// backend (DNS, connection, timeout). The response is non-authoritative
	// and cached state may be kept.
	ErrBackendUnreachable = errors.New("backend unreachable")

	// ErrUnauthenticated indicates no valid credential is available.
	// The stored credential, if any, has been discarded.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials indicates the login attempt was rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRateLimited indicates the backend returned 429. No automatic
	// retry is performed; the user must try again later.
	ErrRateLimited = errors.New("too many attempts, wait before retrying")

	// ErrPayloadTooLarge indicates an upload exceeded the backend's limit.
	ErrPayloadTooLarge = errors.New("file too large")
)

// APIError is an authoritative error response from the backend: a request
// was received and explicitly rejected. Unlike transport failures these
// are treated as ground truth about server-side state.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the server-provided explanation, when present.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// Unwrap maps well-known statuses to their sentinel errors so callers
// can use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	}
	return nil
}

// IsAPIError reports whether err carries an authoritative backend
// rejection, and returns it if so.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
