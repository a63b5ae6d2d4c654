package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	usershttp "github.com/aussiebroadwan/accounts/internal/users/http"
	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/internal/users/store/drivers/memory"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/metrics"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/aussiebroadwan/accounts/pkg/usersdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testServer struct {
	handler http.Handler
	clock   *clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clk := &clock{t: time.Now().UTC().Truncate(time.Second)}
	issuer, err := jwtx.NewIssuer(jwtx.Config{
		Secret:     testSecret,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, jwtx.WithClock(clk.Now))
	require.NoError(t, err)

	st := memory.NewStore()
	m := metrics.New()
	hasher := cryptox.PasswordHasher{Pepper: "pepper"}
	sessions := &service.SessionService{Store: st, Metrics: m, Now: clk.Now}

	r := usershttp.NewRouter("test", st, slogx.Discard(), m)
	r.UserService = &service.UserService{Store: st, Hasher: hasher, Now: clk.Now}
	r.AuthService = &service.AuthService{
		Store:    st,
		Issuer:   issuer,
		Sessions: sessions,
		Hasher:   hasher,
		Metrics:  m,
	}
	r.ApplyRoutes()

	return &testServer{handler: r, clock: clk}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[httpx.APIError](t, rec)
	require.Equal(t, code, body.Code)
}

var ace = usersdk.RegisterRequest{
	ID:       "u1",
	Name:     "User One",
	Password: "hunter2",
	Email:    "u1@x.com",
	NickName: "Ace",
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/users", "", ace)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", usersdk.LoginRequest{Email: ace.Email, Password: ace.Password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[usersdk.TokenResponse](t, rec).AccessToken
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/users", "", ace)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[usersdk.UserResponse](t, rec)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Ace", user.NickName)
	require.Equal(t, 1, user.Level)
	require.NotContains(t, rec.Body.String(), "password")
	require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

	rec = s.do(t, http.MethodPost, "/v1/users", "", ace)
	requireError(t, rec, http.StatusConflict, httpx.CodeConflict)

	bad := ace
	bad.ID, bad.NickName, bad.Email = "u2", "Bee", "nope"
	rec = s.do(t, http.MethodPost, "/v1/users", "", bad)
	requireError(t, rec, http.StatusBadRequest, httpx.CodeInvalidRequest)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"id":"u3","bogus":true}`))
	raw := httptest.NewRecorder()
	s.handler.ServeHTTP(raw, req)
	requireError(t, raw, http.StatusBadRequest, httpx.CodeInvalidRequest)
}

func TestAvailabilityChecks(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/users", "", ace).Code)

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/users/id/u1", http.StatusBadRequest},
		{"/v1/users/id/u2", http.StatusOK},
		{"/v1/users/nickName/Ace", http.StatusBadRequest},
		{"/v1/users/nickName/Bee", http.StatusOK},
		{"/v1/users/email/u1@x.com", http.StatusBadRequest},
		{"/v1/users/email/u2@x.com", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "", nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusBadRequest {
				requireError(t, rec, tt.status, httpx.CodeAlreadyTaken)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/users", "", ace).Code)

	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", usersdk.LoginRequest{Email: ace.Email, Password: "wrong"})
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeInvalidCredential)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", usersdk.LoginRequest{Email: "ghost@x.com", Password: "pw"})
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeInvalidCredential)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", usersdk.LoginRequest{Email: ace.Email})
	requireError(t, rec, http.StatusBadRequest, httpx.CodeInvalidRequest)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(t, http.MethodGet, "/v1/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1@x.com", decode[usersdk.UserResponse](t, rec).Email)

	nick, exp := "King", 40
	rec = s.do(t, http.MethodPut, "/v1/users", token, usersdk.UpdateProfileRequest{NickName: &nick, Exp: &exp})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decode[usersdk.UserResponse](t, rec)
	require.Equal(t, "King", user.NickName)
	require.Equal(t, 40, user.Exp)
	require.Equal(t, 1, user.Level)

	rec = s.do(t, http.MethodPut, "/v1/users/password", token,
		usersdk.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new"})
	requireError(t, rec, http.StatusBadRequest, httpx.CodeInvalidCredential)

	rec = s.do(t, http.MethodPut, "/v1/users/password", token,
		usersdk.ChangePasswordRequest{CurrentPassword: ace.Password, NewPassword: "new"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the password change ended the session
	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", token, nil)
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeUnauthorized)

	rec = s.do(t, http.MethodDelete, "/v1/users", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/users", token, nil)
	requireError(t, rec, http.StatusNotFound, httpx.CodeNotFound)
}

func TestBearerFailures(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	sign := func(m jwt.SigningMethod, claims jwt.MapClaims) string {
		t.Helper()
		raw, err := jwt.NewWithClaims(m, claims).SignedString(testSecret)
		require.NoError(t, err)
		return raw
	}
	exp := jwt.NewNumericDate(s.clock.Now().Add(time.Hour))

	rec := s.do(t, http.MethodGet, "/v1/users", "", nil)
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeInvalidToken)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"tampered", tampered, http.StatusUnauthorized, httpx.CodeInvalidToken},
		{"garbage", "garbage", http.StatusUnauthorized, httpx.CodeInvalidToken},
		{"hs512", sign(jwt.SigningMethodHS512, jwt.MapClaims{"id": "u1", "exp": exp}), http.StatusForbidden, httpx.CodeUnsupportedToken},
		{"empty claims", sign(jwt.SigningMethodHS256, jwt.MapClaims{}), http.StatusPreconditionFailed, httpx.CodeEmptyClaims},
		{"no identity", sign(jwt.SigningMethodHS256, jwt.MapClaims{"email": "u1@x.com", "exp": exp}), http.StatusUnauthorized, httpx.CodeInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/v1/users", tt.token, nil)
			requireError(t, rec, tt.status, tt.code)
		})
	}
}

func TestExpiredTokenRefreshFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	s.clock.Advance(90 * time.Minute)

	rec := s.do(t, http.MethodGet, "/v1/users", token, nil)
	requireError(t, rec, http.StatusRequestTimeout, httpx.CodeTokenExpired)

	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := decode[usersdk.TokenResponse](t, rec)
	require.Equal(t, "Bearer", next.GrantType)
	require.Equal(t, 3600, next.ExpiresIn)

	rec = s.do(t, http.MethodGet, "/v1/users", next.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/logout", next.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", next.AccessToken, nil)
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeUnauthorized)

	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", "", nil)
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeInvalidToken)
}

func TestRefreshAfterSessionExpiry(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	s.clock.Advance(25 * time.Hour)

	rec := s.do(t, http.MethodPost, "/v1/auth/refresh", token, nil)
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeUnauthorized)
}

func TestSystemEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[usersdk.HealthResponse](t, rec).Version)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[usersdk.HealthResponse](t, rec)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `accounts_http_requests_total{method="GET",route="GET /livez",status="200"} 1`)
}
