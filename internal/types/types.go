package types

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Credential is the full set of session state owned by the session
// coordinator. API clients only ever hold copies of the token fields,
// pushed to them through explicit setters.
type Credential struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Empty reports whether no field of the credential is set.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.User == nil
}

// User identifies the authenticated account.
type User struct {
	ID    int    `json:"user_id"`
	Email string `json:"email"`
}

// Request describes a single HTTP exchange handed to a Transport.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Response is the raw outcome of a Transport exchange. Body is fully
// read; the caller decides how to decode it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	if r == nil {
		return false
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures transport-level retry behavior. This covers
// connection failures only; the 401 refresh-and-retry protocol lives in
// the client and is never driven by this.
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}
