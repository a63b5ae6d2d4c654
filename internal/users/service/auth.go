package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/metrics"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AuthService runs the login, refresh and logout flows on top of the token
// issuer and the session store.
type AuthService struct {
	Store    store.Store
	Issuer   *jwtx.Issuer
	Sessions *SessionService
	Hasher   cryptox.PasswordHasher
	Metrics  *metrics.Metrics
}

// Login checks the credentials and opens a new session, replacing any session
// the user already had.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		l.Info("login failed", "reason", "unknown_email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("login failed", "reason", "bad_password", slogx.KeyUserID, u.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	pair, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Upsert(ctx, u.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	l.Info("login succeeded", slogx.KeyUserID, u.ID)
	return pair, nil
}

// Refresh trades an access token, expired or not, for a new pair. The
// signature must still verify. The stored refresh token decides whether the
// login may be extended; once it has expired the session is dropped and the
// user has to log in again.
func (s *AuthService) Refresh(ctx context.Context, accessToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Issuer.ParseClaims(accessToken)
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}
	userID, err := jwtx.ExtractIdentity(claims)
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}
	if err := jwtx.RequireUse(claims, jwtx.UseAccess); err != nil {
		s.reject(ctx, err)
		return nil, err
	}

	current, err := s.Sessions.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.checkRefresh(current, userID); err != nil {
		l.Info("refresh token rejected", slogx.KeyUserID, userID, "kind", jwtx.KindOf(err))
		s.Metrics.TokenRejected(string(jwtx.KindOf(err)))
		if rerr := s.Sessions.Revoke(ctx, userID); rerr != nil {
			l.Error("revoke session", slogx.KeyUserID, userID, "err", rerr)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	pair, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Rotate(ctx, userID, current, pair.RefreshToken); err != nil {
		return nil, err
	}

	s.Metrics.SessionRefreshed()
	l.Info("session refreshed", slogx.KeyUserID, userID)
	return pair, nil
}

func (s *AuthService) checkRefresh(token, userID string) error {
	if err := s.Issuer.Validate(token); err != nil {
		return err
	}
	claims, err := s.Issuer.ParseClaims(token)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return jwtx.ErrIdentityMissing
	}
	return jwtx.RequireUse(claims, jwtx.UseRefresh)
}

// Logout drops the user's session. Access tokens already handed out stay
// valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.Sessions.Revoke(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", slogx.KeyUserID, userID)
	return nil
}

// Authenticate validates an access token and returns the user id it carries.
// Refresh tokens are refused.
func (s *AuthService) Authenticate(token string) (string, error) {
	if err := s.Issuer.Validate(token); err != nil {
		s.Metrics.TokenRejected(string(jwtx.KindOf(err)))
		return "", err
	}
	claims, err := s.Issuer.ParseClaims(token)
	if err != nil {
		s.Metrics.TokenRejected(string(jwtx.KindOf(err)))
		return "", err
	}
	id, err := jwtx.ExtractIdentity(claims)
	if err == nil {
		err = jwtx.RequireUse(claims, jwtx.UseAccess)
	}
	if err != nil {
		s.Metrics.TokenRejected(string(jwtx.KindOf(err)))
		return "", err
	}
	return id, nil
}

func (s *AuthService) issue(u domain.User) (*domain.TokenPair, error) {
	now := s.Issuer.Now()

	access, err := s.Issuer.IssueAccessToken(jwtx.Principal{
		ID:       u.ID,
		Email:    u.Email,
		NickName: u.NickName,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	s.Metrics.TokenIssued(metrics.TokenAccess)

	refresh, err := s.Issuer.IssueRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	s.Metrics.TokenIssued(metrics.TokenRefresh)

	return &domain.TokenPair{
		GrantType:    domain.GrantTypeBearer,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.Issuer.AccessTTL()).Truncate(time.Second),
	}, nil
}

func (s *AuthService) reject(ctx context.Context, err error) {
	kind := jwtx.KindOf(err)
	slogx.FromContext(ctx).Info("access token rejected", "kind", kind)
	s.Metrics.TokenRejected(string(kind))
}
