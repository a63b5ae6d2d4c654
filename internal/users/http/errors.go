package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

var (
	errUserNotFound = httpx.NewAPIError(http.StatusNotFound, httpx.CodeNotFound, "user not found")
	errConflict     = httpx.NewAPIError(http.StatusConflict, httpx.CodeConflict, "user already exists")
	errBadLogin     = httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeInvalidCredential, "email or password is incorrect")
	errBadPassword  = httpx.NewAPIError(http.StatusBadRequest, httpx.CodeInvalidCredential, "current password is incorrect")
	errNoSession    = httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeUnauthorized, "no active session, log in again")
	errBadRefresh   = httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeUnauthorized, "session has expired, log in again")
)

// apiError maps a service error to its response. The second return is false
// for errors that should be logged as failures.
func apiError(err error) (*httpx.APIError, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return httpx.ErrInvalidRequest.WithMessage(err.Error()), true
	case errors.Is(err, service.ErrUserNotFound):
		return errUserNotFound, true
	case errors.Is(err, service.ErrDuplicateID):
		return errConflict.WithMessage("id is already taken"), true
	case errors.Is(err, service.ErrDuplicateEmail):
		return errConflict.WithMessage("email is already taken"), true
	case errors.Is(err, service.ErrDuplicateNickName):
		return errConflict.WithMessage("nickname is already taken"), true
	case errors.Is(err, store.ErrAlreadyExists):
		return errConflict, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return errBadLogin, true
	case errors.Is(err, service.ErrInvalidPassword):
		return errBadPassword, true
	case errors.Is(err, service.ErrSessionNotFound):
		return errNoSession, true
	// before the token kinds: a rejected refresh token wraps ErrExpired but
	// must not send the client back to the refresh endpoint.
	case errors.Is(err, service.ErrInvalidRefresh):
		return errBadRefresh, true
	case jwtx.KindOf(err) != jwtx.KindUnknown:
		return httpx.TokenError(err), true
	default:
		return httpx.ErrServerError, false
	}
}
