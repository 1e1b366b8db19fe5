package identsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer is how long before expiry the session proactively refreshes.
const refreshBuffer = 30 * time.Second

// ErrSessionExpired is returned when both the access and refresh tokens are
// no longer usable. The caller must log in again.
var ErrSessionExpired = errors.New("identsdk: session expired, login required")

// Session is an authenticated handle on the identity service. Access tokens
// are refreshed transparently shortly before they expire.
type Session struct {
	client *Client

	mu           sync.Mutex
	user         User
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *Client, data AuthData) *Session {
	return &Session{
		client:       c,
		user:         data.User,
		accessToken:  data.AccessToken,
		refreshToken: data.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(data.ExpiresIn) * time.Second),
	}
}

// User returns the account this session was opened for, as of login.
func (s *Session) User() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Tokens returns the current token pair, refreshing first if needed. Useful
// for persisting a session across process restarts.
func (s *Session) Tokens(ctx context.Context) (access, refresh string, err error) {
	access, err = s.validToken(ctx)
	if err != nil {
		return "", "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return access, s.refreshToken, nil
}

func (s *Session) validToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Until(s.expiresAt) > refreshBuffer {
		return s.accessToken, nil
	}

	data, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", ErrSessionExpired
		}
		return "", err
	}

	s.accessToken = data.AccessToken
	s.refreshToken = data.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(data.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

func sessionDo[T any](ctx context.Context, s *Session, method, path string, body any) (T, error) {
	var zero T
	token, err := s.validToken(ctx)
	if err != nil {
		return zero, err
	}
	return doJSON[T](ctx, s.client, method, path, body, token)
}

// Me fetches the current account's profile.
func (s *Session) Me(ctx context.Context) (User, error) {
	return sessionDo[User](ctx, s, http.MethodGet, "/v1/users/me", nil)
}

// Logout revokes the session server-side.
func (s *Session) Logout(ctx context.Context) error {
	_, err := sessionDo[json.RawMessage](ctx, s, http.MethodPost, "/v1/users/logout", nil)
	return err
}

// ChangePassword swaps the account password. The server revokes the current
// session, so the caller should log in again afterwards. Social-only accounts
// pass an empty current password to set their first one.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	_, err := sessionDo[json.RawMessage](ctx, s, http.MethodPost, "/v1/users/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
		ConfirmPassword: next,
	})
	return err
}

// InviteUser creates an inactive account and emails an invitation. Requires
// the ADMIN role.
func (s *Session) InviteUser(ctx context.Context, email, name, role string) (User, error) {
	return sessionDo[User](ctx, s, http.MethodPost, "/v1/users/invite", InviteRequest{
		Email: email,
		Name:  name,
		Role:  role,
	})
}

// ListUsers returns every account. Requires the ADMIN role.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	return sessionDo[[]User](ctx, s, http.MethodGet, "/v1/users", nil)
}

// GetUser fetches one account by id. Requires the ADMIN role.
func (s *Session) GetUser(ctx context.Context, id string) (User, error) {
	return sessionDo[User](ctx, s, http.MethodGet, "/v1/users/"+id, nil)
}

// UpdateUser applies an admin edit to another account. Requires the ADMIN
// role.
func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	return sessionDo[User](ctx, s, http.MethodPut, "/v1/users/"+id, req)
}

// DeleteUser removes another account. Requires the ADMIN role.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	_, err := sessionDo[json.RawMessage](ctx, s, http.MethodDelete, "/v1/users/"+id, nil)
	return err
}
