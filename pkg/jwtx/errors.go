package jwtx

import "errors"

// Failure kinds reported by Validate and ParseClaims. Callers branch on these
// with errors.Is (or KindOf when a stable label is needed).
var (
	ErrInvalidSignature  = errors.New("jwtx: invalid token")
	ErrExpired           = errors.New("jwtx: token expired")
	ErrUnsupportedFormat = errors.New("jwtx: unsupported token")
	ErrEmptyClaims       = errors.New("jwtx: token claims are empty")
	ErrIdentityMissing   = errors.New("jwtx: token carries no identity")

	ErrWeakSecret = errors.New("jwtx: signing secret must be at least 32 bytes")
	ErrInvalidTTL = errors.New("jwtx: token lifetime must not be negative")
)

// Kind is a stable label for a token failure, used for metrics and responses.
type Kind string

const (
	KindNone             Kind = ""
	KindInvalidSignature Kind = "invalid_signature"
	KindExpired          Kind = "expired"
	KindUnsupported      Kind = "unsupported_format"
	KindEmptyClaims      Kind = "empty_claims"
	KindIdentityMissing  Kind = "identity_missing"
	KindUnknown          Kind = "unknown"
)

// KindOf maps an error returned by this package to its Kind. A nil error
// yields KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupported
	case errors.Is(err, ErrEmptyClaims):
		return KindEmptyClaims
	case errors.Is(err, ErrIdentityMissing):
		return KindIdentityMissing
	default:
		return KindUnknown
	}
}
