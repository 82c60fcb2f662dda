package minirag

import (
	"context"

	"github.com/pkg/errors"
)

// authService implements the AuthService interface. These endpoints are
// unauthenticated: they still run through the request pipeline, but the
// Coordinator owns installing the tokens they return.
type authService struct {
	client *Client
}

// Register creates an account and returns its initial token pair
func (s *authService) Register(ctx context.Context, params *RegisterParams) (*RegisterResponse, error) {
	var result RegisterResponse
	if err := s.client.postJSON(ctx, routeAuthRegister, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to register")
	}
	return &result, nil
}

// Login exchanges credentials for a token pair
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResponse
	if err := s.client.postJSON(ctx, routeAuthLogin, payload, &result); err != nil {
		return nil, errors.Wrap(err, "failed to login")
	}

	if result.AccessToken == "" {
		return nil, ErrLoginFailed
	}

	return &result, nil
}

// Refresh mints a new access token from a refresh token. Unlike the
// pipeline's internal refresh, this does not mutate the client's token
// copies.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	payload := map[string]string{"refresh_token": refreshToken}

	var result RefreshResponse
	if err := s.client.postJSON(ctx, routeAuthRefresh, payload, &result); err != nil {
		return nil, errors.Wrap(err, "failed to refresh token")
	}
	return &result, nil
}
