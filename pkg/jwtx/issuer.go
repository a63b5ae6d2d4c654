package jwtx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the smallest HS256 secret accepted, 256 bits.
const MinSecretLength = 32

// Config is the immutable input of an Issuer. It is copied at construction,
// later changes to the caller's slice have no effect.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now for both issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// Issuer mints and verifies HS256 access and refresh tokens. It holds no
// mutable state after construction and is safe for concurrent use.
type Issuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	strict  *jwt.Parser
	lenient *jwt.Parser
}

// NewIssuer validates cfg and builds an Issuer.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, ErrInvalidTTL
	}

	i := &Issuer{
		key:        bytes.Clone(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	// Strict decoding rejects segments with non-zero trailing bits, otherwise
	// two different signature strings decode to the same bytes.
	i.strict = jwt.NewParser(
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	i.lenient = jwt.NewParser(
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	return i, nil
}

// Now is the issuer's clock.
func (i *Issuer) Now() time.Time { return i.now() }

// AccessTTL is the lifetime given to access tokens.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL is the lifetime given to refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccessToken signs the principal's id, email and nickname with an
// expiry of now + AccessTTL.
func (i *Issuer) IssueAccessToken(p Principal) (string, error) {
	if p.ID == "" {
		return "", ErrIdentityMissing
	}
	return i.sign(Claims{
		Use:      UseAccess,
		UserID:   p.ID,
		Email:    p.Email,
		NickName: p.NickName,
	}, i.accessTTL)
}

// IssueRefreshToken signs only the user id with an expiry of now + RefreshTTL.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrIdentityMissing
	}
	return i.sign(Claims{Use: UseRefresh, UserID: userID}, i.refreshTTL)
}

func (i *Issuer) sign(c Claims, ttl time.Duration) (string, error) {
	c.ExpiresAt = jwt.NewNumericDate(i.now().Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Validate returns nil only when the token is well signed and unexpired.
// Every other outcome is one of the package's failure kinds.
func (i *Issuer) Validate(token string) error {
	_, err := i.parse(i.strict, token)
	return err
}

// ParseClaims verifies the signature and returns the claims without checking
// the expiry, so an expired token still yields the identity it was issued for.
// Malformed, tampered or non-HS256 tokens fail.
func (i *Issuer) ParseClaims(token string) (Claims, error) {
	return i.parse(i.lenient, token)
}

func (i *Issuer) parse(p *jwt.Parser, token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrEmptyClaims
	}

	var c Claims
	if _, err := p.ParseWithClaims(token, &c, i.keyFunc); err != nil {
		return Claims{}, classify(err, c)
	}
	if c.IsEmpty() {
		return Claims{}, ErrEmptyClaims
	}
	return c, nil
}

func (i *Issuer) keyFunc(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("%w: alg %q", ErrUnsupportedFormat, t.Method.Alg())
	}
	return i.key, nil
}

// classify folds the jwt library's error tree into one failure kind. Claims
// validation only runs after the signature checked out, so c is trustworthy
// when err carries jwt.ErrTokenInvalidClaims.
func classify(err error, c Claims) error {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return err
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		if c.IsEmpty() {
			return ErrEmptyClaims
		}
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
