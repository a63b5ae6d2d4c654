package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes, overridable through Config.
const (
	// DefaultAccessTokenTTL is short so a leaked access token ages out quickly.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL bounds how long a login can be silently renewed.
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// TokenUse tells access tokens and refresh tokens apart. Both kinds are
// signed with the same key.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Principal is the identity embedded in an access token.
type Principal struct {
	ID       string
	Email    string
	NickName string
}

// Claims is the flat claim set shared by access and refresh tokens. Refresh
// tokens only carry Use, UserID and the expiry.
type Claims struct {
	jwt.RegisteredClaims

	Use TokenUse `json:"token_use,omitempty"`

	UserID   string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	NickName string `json:"nickName,omitempty"`
}

// Principal returns the identity fields of the claims.
func (c Claims) Principal() Principal {
	return Principal{
		ID:       c.UserID,
		Email:    c.Email,
		NickName: c.NickName,
	}
}

// Expiry returns the exp claim, or the zero time when absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IsEmpty reports whether the payload carried none of the claims we issue.
func (c Claims) IsEmpty() bool {
	return c.Use == "" &&
		c.UserID == "" &&
		c.Email == "" &&
		c.NickName == "" &&
		c.ExpiresAt == nil
}

// ExtractIdentity returns the id claim, the subject every downstream
// authorization decision is keyed on.
func ExtractIdentity(c Claims) (string, error) {
	if c.UserID == "" {
		return "", ErrIdentityMissing
	}
	return c.UserID, nil
}

// RequireUse fails with ErrUnsupportedFormat unless the token was issued for
// want.
func RequireUse(c Claims, want TokenUse) error {
	if c.Use != want {
		return fmt.Errorf("%w: token_use %q, want %q", ErrUnsupportedFormat, c.Use, want)
	}
	return nil
}
