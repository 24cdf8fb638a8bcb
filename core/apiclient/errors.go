package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingBaseURL is returned by New when no base URL is provided.
	ErrMissingBaseURL = errors.New("api base URL is required")

	// ErrMissingToken is returned by Login when the server response
	// carries no token. The session manager propagates it to the caller
	// unchanged and performs no state mutation.
	ErrMissingToken = errors.New("login response missing token")

	// ErrRequestFailed wraps transport-level failures (connection
	// refused, DNS, timeout). These carry no HTTP status and are treated
	// as transient by the session manager.
	ErrRequestFailed = errors.New("api request failed")

	// ErrDecodeResponse is returned when a response body cannot be
	// decoded as the expected JSON envelope.
	ErrDecodeResponse = errors.New("failed to decode api response")
)

// Error is a structured API error carrying the HTTP status of the failed
// request. Code and Message come from the server's error body when it has
// one; otherwise Message falls back to the standard status text.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// HTTPStatus returns the HTTP status code of the failed request. It
// implements the status-carrier contract the session manager uses to
// tell a revoked token apart from an unreachable server.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// IsAuthError reports whether err is an API error with status 401 or 403.
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
