package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/usersdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Login
//	@Description	Checks email and password and opens a session. Any earlier session of the user is replaced.
//	@Description	Only the access token is returned; the refresh token stays on the server.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	usersdk.TokenResponse
//	@Failure		400		{object}	httpx.APIError
//	@Failure		401		{object}	httpx.APIError	"email or password is incorrect"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req usersdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Email == "" || req.Password == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.tokenResponse(pair))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh
//	@Description	Exchanges the access token in the Authorization header for a new one. The access token
//	@Description	may be expired but must carry a valid signature. Fails with 401 once the session is gone
//	@Description	or its refresh token has expired.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	usersdk.TokenResponse
//	@Failure		401	{object}	httpx.APIError	"invalid token or no active session"
//	@Failure		403	{object}	httpx.APIError	"unsupported token format"
//	@Failure		412	{object}	httpx.APIError	"token claims are empty"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, "refresh", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.tokenResponse(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Logout
//	@Description	Deletes the caller's session. Access tokens already issued stay valid until they expire.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.APIError
//	@Failure		408	{object}	httpx.APIError
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, r, "logout", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) tokenResponse(pair *domain.TokenPair) usersdk.TokenResponse {
	return usersdk.TokenResponse{
		GrantType:   pair.GrantType,
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(h.AuthService.Issuer.AccessTTL().Seconds()),
	}
}
