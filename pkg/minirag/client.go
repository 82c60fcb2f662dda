package minirag

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/minirag/minirag-go/internal/transport"
	"github.com/minirag/minirag-go/internal/types"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the default minirag API base URL
	DefaultBaseURL = types.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = types.DefaultTimeout

	routeAuthRegister = "/api/v1/auth/register"
	routeAuthLogin    = "/api/v1/auth/login"
	routeAuthRefresh  = "/api/v1/auth/refresh"

	contentTypeJSON = "application/json"
)

// Client is a minirag API client bound to one project scope. The
// application constructs one instance per mode; instances share no
// state and are synchronized only by the Coordinator pushing the same
// credential into each of them.
type Client struct {
	// Service interfaces
	Auth          AuthService
	Data          DataService
	NLP           NLPService
	Conversations ConversationService
	Messages      MessageService
	Projects      ProjectService

	// Internal fields
	baseURL   string
	transport Transport
	options   *ClientOptions

	mu           sync.RWMutex
	projectID    int
	accessToken  string
	refreshToken string
	listener     RefreshListener
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// ProjectID is the project scope attached to every scoped call
	ProjectID int

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Headers are merged into the transport's default headers
	Headers map[string]string

	// RetryConfig configures transport-level retry behavior
	RetryConfig *types.RetryConfig

	// Logger for debug logging
	Logger Logger

	// Hooks for observability
	Hooks *types.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewClient creates a new minirag client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	trans := transport.NewREST(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		Headers:     opts.Headers,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	})

	c := &Client{
		baseURL:   opts.BaseURL,
		transport: trans,
		options:   opts,
		projectID: opts.ProjectID,
	}

	c.initServices()

	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Data = &dataService{client: c}
	c.NLP = &nlpService{client: c}
	c.Conversations = &conversationService{client: c}
	c.Messages = &messageService{client: c}
	c.Projects = &projectService{client: c}
}

// SetProjectID changes the project scope for subsequent calls.
func (c *Client) SetProjectID(projectID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectID = projectID
}

// ProjectID returns the current project scope.
func (c *Client) ProjectID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projectID
}

// SetAccessToken installs a copy of the access token. An empty token
// makes the client unauthenticated; no Authorization header is sent.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the current access token copy.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetRefreshToken installs a copy of the refresh token. Without one,
// 401 responses are terminal and no refresh is ever attempted.
func (c *Client) SetRefreshToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshToken = token
}

// RefreshToken returns the current refresh token copy.
func (c *Client) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// SetRefreshListener registers the observer notified after each refresh
// attempt. The Coordinator registers itself here.
func (c *Client) SetRefreshListener(l RefreshListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}

// get issues an authenticated GET request.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out, 0)
}

// postJSON issues an authenticated POST request with a JSON payload.
func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Message: "failed to encode request body", Err: err}
	}
	return c.do(ctx, http.MethodPost, path, contentTypeJSON, body, out, 0)
}

// putJSON issues an authenticated PUT request with a JSON payload.
func (c *Client) putJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Message: "failed to encode request body", Err: err}
	}
	return c.do(ctx, http.MethodPut, path, contentTypeJSON, body, out, 0)
}

// delete issues an authenticated DELETE request.
func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out, 0)
}

// do runs the request pipeline: attach the bearer credential, perform
// the exchange, and on a 401 run the refresh sub-protocol and retry the
// original request exactly once. For any logical call the transport is
// invoked at most twice for the call itself and the refresh protocol
// runs at most once, regardless of what the server returns.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out interface{}, attempt int) error {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	// The token copy is re-read on every attempt so a retry always uses
	// the token installed by the refresh that preceded it.
	if token := c.AccessToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.transport.RoundTrip(ctx, &types.Request{
		Method: method,
		Path:   path,
		Header: header,
		Body:   body,
	})
	if err != nil {
		// Local failure: no status, no refresh, no retry at this layer.
		c.captureError(ctx, err)
		return &Error{Message: err.Error(), Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && attempt == 0 && c.RefreshToken() != "" {
		if rerr := c.refreshAccessToken(ctx); rerr == nil {
			return c.do(ctx, method, path, contentType, body, out, attempt+1)
		}
		c.notifyRefreshListener("")
		return &Error{Message: "session expired", StatusCode: http.StatusUnauthorized, Err: ErrSessionExpired}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Message: extractErrorMessage(resp), StatusCode: resp.StatusCode}
		c.captureError(ctx, apiErr)
		return apiErr
	}

	return decodeResponse(resp, out)
}

// refreshAccessToken runs the refresh sub-protocol. The attempt counter
// is pinned past zero so a 401 from the refresh endpoint itself is
// terminal rather than recursive. On success the new token is installed
// and the listener is notified before returning.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	refreshToken := c.RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return errors.Wrap(err, "failed to encode refresh request")
	}

	var result RefreshResponse
	if err := c.do(ctx, http.MethodPost, routeAuthRefresh, contentTypeJSON, body, &result, 1); err != nil {
		return err
	}

	if result.AccessToken == "" {
		return errors.New("no access token in refresh response")
	}

	c.SetAccessToken(result.AccessToken)
	c.notifyRefreshListener(result.AccessToken)

	if c.options.Logger != nil {
		c.options.Logger.Info("Access token refreshed")
	}

	return nil
}

// notifyRefreshListener fires the refresh outcome. An empty token
// signals a failed refresh.
func (c *Client) notifyRefreshListener(newToken string) {
	c.mu.RLock()
	listener := c.listener
	c.mu.RUnlock()

	if listener != nil {
		listener.OnTokenRefreshed(newToken)
	}
}

// captureError reports terminal failures to Sentry when configured.
func (c *Client) captureError(ctx context.Context, err error) {
	if c.options == nil || (c.options.SentryDSN == "" && c.options.SentryOptions == nil) {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// extractErrorMessage pulls a human-readable message out of an error
// response. Order matters: a structured signal field wins, then a
// structured message field, then the raw body, then a generic fallback.
func extractErrorMessage(resp *types.Response) string {
	if resp.IsJSON() {
		var payload struct {
			Signal  string `json:"signal"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Body, &payload); err == nil {
			if payload.Signal != "" {
				return payload.Signal
			}
			if payload.Message != "" {
				return payload.Message
			}
		}
	}

	if text := strings.TrimSpace(string(resp.Body)); text != "" {
		return text
	}

	return "unknown error"
}

// decodeResponse decodes a successful response body into out. JSON
// bodies are unmarshalled; anything else is only assignable to a
// *string target.
func decodeResponse(resp *types.Response, out interface{}) error {
	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	if resp.IsJSON() {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return &Error{Message: "failed to decode response", Err: err}
		}
		return nil
	}

	if sp, ok := out.(*string); ok {
		*sp = string(resp.Body)
		return nil
	}

	return &Error{Message: "unexpected non-JSON response"}
}
