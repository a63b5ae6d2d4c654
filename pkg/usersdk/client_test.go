package usersdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestTakenChecks(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/nickName/{nick}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("nick") == "Ace" {
			httpx.NewAPIError(http.StatusBadRequest, httpx.CodeAlreadyTaken, "nickname is taken").WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, AvailabilityResponse{Available: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/")

	taken, err := c.IsNickNameTaken(t.Context(), "Ace")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = c.IsNickNameTaken(t.Context(), "Bee")
	require.NoError(t, err)
	require.False(t, taken)
}

func TestErrorParsing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeInvalidCredential, "bad credentials").WriteError(w)
		default:
			http.Error(w, "gateway down", http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)

	_, err := c.Login(t.Context(), "u1@x.com", "nope")
	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, httpx.CodeInvalidCredential, apiErr.Code)

	_, err = c.GetLiveness(t.Context())
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "gateway down", apiErr.Message)
}

func TestSessionRefreshesOnExpiredToken(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email != "u1@x.com" {
			httpx.ErrInvalidRequest.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, TokenResponse{GrantType: "Bearer", AccessToken: "tok-1", ExpiresIn: 60})
	})
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if tok, _ := httpx.BearerToken(r); tok != "tok-1" {
			httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeInvalidToken, "unexpected token").WriteError(w)
			return
		}
		refreshes.Add(1)
		httpx.WriteJSON(w, http.StatusOK, TokenResponse{GrantType: "Bearer", AccessToken: "tok-2", ExpiresIn: 60})
	})
	mux.HandleFunc("GET /v1/users", func(w http.ResponseWriter, r *http.Request) {
		tok, _ := httpx.BearerToken(r)
		if tok != "tok-2" {
			httpx.NewAPIError(http.StatusRequestTimeout, httpx.CodeTokenExpired, "access token has expired").WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, UserResponse{ID: "u1", NickName: "Ace"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s, err := NewClient(srv.URL).Login(t.Context(), "u1@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok-1", s.AccessToken())

	me, err := s.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, "Ace", me.NickName)
	require.Equal(t, "tok-2", s.AccessToken())
	require.EqualValues(t, 1, refreshes.Load())

	_, err = s.Me(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, refreshes.Load())
}

func TestSessionRefreshFailureSurfaces(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		httpx.NewAPIError(http.StatusUnauthorized, httpx.CodeUnauthorized, "no active session").WriteError(w)
	})
	mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		httpx.NewAPIError(http.StatusRequestTimeout, httpx.CodeTokenExpired, "access token has expired").WriteError(w)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := newSession(NewClient(srv.URL), &TokenResponse{AccessToken: "stale", ExpiresIn: 1})

	err := s.Logout(t.Context())
	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "stale", s.AccessToken())
}
