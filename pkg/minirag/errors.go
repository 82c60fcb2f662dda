package minirag

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the session could not be
	// refreshed and all credential state has been cleared
	ErrSessionExpired = errors.New("session expired")

	// ErrNoRefreshToken is returned when a refresh is requested but no
	// refresh token is held; the network is never contacted in that case
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = errors.New("login failed")

	// ErrNoClients is returned when a coordinator has no registered clients
	ErrNoClients = errors.New("no registered clients")
)

// Error represents an API error. StatusCode is zero for local failures
// that never produced an HTTP response (network error, timeout); those
// never trigger the refresh protocol.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}

	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

// StatusOf returns the HTTP status carried by err, or zero when the
// failure was local and no response was received.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrLoginFailed) {
		return true
	}
	return StatusOf(err) == 401
}
