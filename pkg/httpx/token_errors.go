package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// TokenError maps a jwtx failure to its response. Expired tokens use 408 so
// clients know to call the refresh endpoint rather than log in again.
func TokenError(err error) *APIError {
	switch jwtx.KindOf(err) {
	case jwtx.KindExpired:
		return NewAPIError(http.StatusRequestTimeout, CodeTokenExpired, "access token has expired")
	case jwtx.KindUnsupported:
		return NewAPIError(http.StatusForbidden, CodeUnsupportedToken, "unsupported token format")
	case jwtx.KindEmptyClaims:
		return NewAPIError(http.StatusPreconditionFailed, CodeEmptyClaims, "token claims are empty")
	case jwtx.KindIdentityMissing:
		return NewAPIError(http.StatusUnauthorized, CodeInvalidToken, "token carries no user id")
	case jwtx.KindInvalidSignature:
		return NewAPIError(http.StatusUnauthorized, CodeInvalidToken, "invalid token")
	default:
		return ErrServerError
	}
}
