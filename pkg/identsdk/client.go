// Package identsdk is a typed Go client for the identity service. It covers
// the public surface (login, registration, social login, password recovery)
// and, via Session, the authenticated surface with automatic token refresh.
package identsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the identity service's unauthenticated endpoints and mints
// authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with email and password and returns an authenticated
// session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	data, err := doJSON[AuthData](ctx, c, http.MethodPost, "/v1/users/login", LoginRequest{
		Email:    email,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// Register creates an account and returns a session for it.
func (c *Client) Register(ctx context.Context, email, name, password string) (*Session, error) {
	data, err := doJSON[AuthData](ctx, c, http.MethodPost, "/v1/users/register", RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// SocialLogin exchanges a provider assertion for a session. provider is one
// of "google", "facebook", "linkedin", "apple".
func (c *Client) SocialLogin(ctx context.Context, provider, assertion string) (*Session, error) {
	req := SocialLoginRequest{AccessToken: assertion}
	if provider == "apple" {
		req = SocialLoginRequest{IDToken: assertion}
	}
	data, err := doJSON[AuthData](ctx, c, http.MethodPost, "/v1/users/social/"+provider, req, "")
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// Refresh exchanges a refresh token for a fresh pair without an existing
// Session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenData, error) {
	return doJSON[TokenData](ctx, c, http.MethodPost, "/v1/users/refresh-token", RefreshRequest{
		RefreshToken: refreshToken,
	}, "")
}

// ForgotPassword requests a password reset email. It succeeds whether or not
// the email belongs to an account.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := doJSON[json.RawMessage](ctx, c, http.MethodPost, "/v1/users/forgot-password", ForgotPasswordRequest{
		Email: email,
	}, "")
	return err
}

// ResetPassword consumes a reset token from the emailed link.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	_, err := doJSON[json.RawMessage](ctx, c, http.MethodPost, "/v1/users/reset-password", ResetPasswordRequest{
		Token:           token,
		Password:        password,
		ConfirmPassword: password,
	}, "")
	return err
}

// AcceptInvitation consumes an invite token, sets the password, and returns a
// session for the activated account.
func (c *Client) AcceptInvitation(ctx context.Context, token, password string) (*Session, error) {
	data, err := doJSON[AuthData](ctx, c, http.MethodPost, "/v1/users/verify-invitation", AcceptInvitationRequest{
		Token:           token,
		Password:        password,
		ConfirmPassword: password,
	}, "")
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz checks the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return HealthResponse{}, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return HealthResponse{}, err
	}
	defer resp.Body.Close()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return HealthResponse{}, fmt.Errorf("decode health response: %w", err)
	}
	return health, nil
}

// doJSON performs a JSON request and unwraps the uniform envelope. A non-2xx
// status becomes an *APIError carrying the envelope's message and code.
func doJSON[T any](
	ctx context.Context,
	c *Client,
	method, path string,
	body any,
	bearer string,
) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var envelope Envelope[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		return zero, &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
			Code:       envelope.Code,
			Fields:     envelope.Errors,
		}
	}

	return envelope.Data, nil
}
