package minirag

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minirag/minirag-go/internal/credstore"
	"github.com/minirag/minirag-go/internal/types"
	"github.com/pkg/errors"
)

// Coordinator owns the credential and keeps every registered client in
// sync with it. Clients never touch the persisted store; the
// coordinator loads it once at startup, pushes token copies into each
// client on every change, and is the only component that performs the
// forced-logout side effect when a refresh fails.
type Coordinator struct {
	store   *credstore.Store
	clients []*Client
	logger  Logger

	mu    sync.RWMutex
	cred  Credential
	state SessionState
}

// CoordinatorOptions configures the coordinator
type CoordinatorOptions struct {
	// StoreDir overrides the credential store location
	StoreDir string

	// Logger for debug logging
	Logger Logger
}

// NewCoordinator creates a coordinator over the given clients and
// registers itself as each client's refresh listener. Call Hydrate
// before gating on State.
func NewCoordinator(opts *CoordinatorOptions, clients ...*Client) *Coordinator {
	if opts == nil {
		opts = &CoordinatorOptions{}
	}
	if opts.StoreDir == "" {
		opts.StoreDir = credstore.DefaultDir()
	}

	c := &Coordinator{
		store:   credstore.New(opts.StoreDir, opts.Logger),
		clients: clients,
		logger:  opts.Logger,
		state:   SessionStateUnknown,
	}

	for _, client := range clients {
		client.SetRefreshListener(c)
	}

	return c
}

// Hydrate reads the persisted credential once and pushes it into every
// client. Until it runs, State reports SessionStateUnknown so callers
// can hold off redirect decisions.
func (c *Coordinator) Hydrate() {
	stored := c.store.Load()

	c.mu.Lock()
	c.cred = fromStored(stored)
	if c.cred.AccessToken != "" {
		c.state = SessionStateAuthenticated
	} else {
		c.state = SessionStateAnonymous
	}
	access, refresh := c.cred.AccessToken, c.cred.RefreshToken
	c.mu.Unlock()

	c.pushTokens(access, refresh)

	if c.logger != nil {
		c.logger.Debug("Session hydrated", "state", c.State().String())
	}
}

// Login authenticates against the backend and, on success, persists
// the returned token pair and fans it out to every client. On failure
// nothing is mutated.
func (c *Coordinator) Login(ctx context.Context, email, password string) error {
	client, err := c.primaryClient()
	if err != nil {
		return err
	}

	resp, err := client.Auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	cred := Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         &User{Email: email},
	}
	if err := c.install(cred); err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info("Login successful", "email", email)
	}
	return nil
}

// Register creates an account and installs the returned session the
// same way Login does.
func (c *Coordinator) Register(ctx context.Context, params *RegisterParams) error {
	client, err := c.primaryClient()
	if err != nil {
		return err
	}

	resp, err := client.Auth.Register(ctx, params)
	if err != nil {
		return err
	}

	cred := Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         &User{ID: resp.UserID, Email: resp.Email},
	}
	if err := c.install(cred); err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info("Registration successful", "email", resp.Email)
	}
	return nil
}

// Logout clears the persisted store and pushes an absent token pair
// into every client. It never calls the network.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	c.cred = Credential{}
	c.state = SessionStateAnonymous
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil && c.logger != nil {
		c.logger.Warn("Failed to clear credential store", "error", err)
	}

	c.pushTokens("", "")
}

// OnTokenRefreshed implements RefreshListener. A non-empty token means
// a refresh succeeded: the access token is updated and persisted, the
// refresh token left untouched. An empty token means the refresh failed
// and the session is torn down; tearing down an already-empty session
// is a no-op.
func (c *Coordinator) OnTokenRefreshed(newToken string) {
	if newToken == "" {
		c.mu.RLock()
		alreadyEmpty := c.cred.Empty()
		c.mu.RUnlock()
		if alreadyEmpty {
			return
		}

		if c.logger != nil {
			c.logger.Warn("Session refresh failed, logging out")
		}
		c.Logout()
		return
	}

	c.mu.Lock()
	c.cred.AccessToken = newToken
	c.state = SessionStateAuthenticated
	stored := toStored(c.cred)
	c.mu.Unlock()

	if err := c.store.Save(stored); err != nil && c.logger != nil {
		c.logger.Warn("Failed to persist refreshed token", "error", err)
	}

	for _, client := range c.clients {
		client.SetAccessToken(newToken)
	}
}

// Credential returns a read-only snapshot of the current credential.
func (c *Coordinator) Credential() Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cred := c.cred
	if cred.User != nil {
		user := *cred.User
		cred.User = &user
	}
	return cred
}

// State returns the three-valued session readiness.
func (c *Coordinator) State() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// TokenExpiresAt reports the access token's exp claim, when the token
// is a JWT carrying one. The token is not verified; this is display
// information, not an authorization decision.
func (c *Coordinator) TokenExpiresAt() (time.Time, bool) {
	c.mu.RLock()
	token := c.cred.AccessToken
	c.mu.RUnlock()

	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// install persists a fresh credential and fans its tokens out.
func (c *Coordinator) install(cred Credential) error {
	if err := c.store.Save(toStored(cred)); err != nil {
		return errors.Wrap(err, "failed to persist credential")
	}

	c.mu.Lock()
	c.cred = cred
	c.state = SessionStateAuthenticated
	c.mu.Unlock()

	c.pushTokens(cred.AccessToken, cred.RefreshToken)
	return nil
}

func (c *Coordinator) pushTokens(access, refresh string) {
	for _, client := range c.clients {
		client.SetAccessToken(access)
		client.SetRefreshToken(refresh)
	}
}

func (c *Coordinator) primaryClient() (*Client, error) {
	if len(c.clients) == 0 {
		return nil, ErrNoClients
	}
	return c.clients[0], nil
}

func toStored(cred Credential) types.Credential {
	stored := types.Credential{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	}
	if cred.User != nil {
		stored.User = &types.User{ID: cred.User.ID, Email: cred.User.Email}
	}
	return stored
}

func fromStored(stored types.Credential) Credential {
	cred := Credential{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
	}
	if stored.User != nil {
		cred.User = &User{ID: stored.User.ID, Email: stored.User.Email}
	}
	return cred
}
