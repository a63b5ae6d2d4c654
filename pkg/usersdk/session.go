package usersdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// Session is a logged-in client. It is safe for concurrent use.
type Session struct {
	client *Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func newSession(c *Client, tok *TokenResponse) *Session {
	s := &Session{client: c}
	s.set(tok)
	return s
}

func (s *Session) set(tok *TokenResponse) {
	s.accessToken = tok.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is the client-side estimate of the access token expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Refresh replaces the access token through POST /v1/auth/refresh.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx, s.accessToken)
}

// refreshLocked skips the call when another goroutine already replaced stale.
func (s *Session) refreshLocked(ctx context.Context, stale string) error {
	if s.accessToken != stale {
		return nil
	}
	tok, err := s.client.Refresh(ctx, stale)
	if err != nil {
		return err
	}
	s.set(tok)
	return nil
}

// do runs an authenticated request, refreshing and retrying once when the
// server reports the access token as expired.
func (s *Session) do(ctx context.Context, method, path string, in, out any, want int) error {
	token := s.AccessToken()
	err := s.client.do(ctx, method, path, token, in, out, want)

	var apiErr *httpx.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusRequestTimeout {
		return err
	}

	s.mu.Lock()
	rerr := s.refreshLocked(ctx, token)
	s.mu.Unlock()
	if rerr != nil {
		return rerr
	}
	return s.client.do(ctx, method, path, s.AccessToken(), in, out, want)
}

// Me returns the logged-in user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var user UserResponse
	if err := s.do(ctx, http.MethodGet, "/v1/users", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the non-nil fields of req.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	var user UserResponse
	if err := s.do(ctx, http.MethodPut, "/v1/users", req, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword also ends the server-side session, so the session can no
// longer refresh afterwards.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	return s.do(ctx, http.MethodPut, "/v1/users/password",
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, http.StatusNoContent)
}

// DeleteAccount removes the logged-in user.
func (s *Session) DeleteAccount(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, "/v1/users", nil, nil, http.StatusNoContent)
}

// Logout ends the server-side session.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent)
}
