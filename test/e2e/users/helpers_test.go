package users_test

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/app"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/usersdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * End-to-end tests run the full service in process against a throwaway
 * PostgreSQL container and talk to it through usersdk.
 */

const (
	jwtSecret = "e2e-secret-e2e-secret-e2e-secret"

	testID       = "u1"
	testName     = "User One"
	testEmail    = "u1@x.com"
	testNickName = "Ace"
	testPassword = "Hunter2!"
)

type serviceOptions struct {
	accessTTL time.Duration
}

// setupService starts postgres and the accounts service, returning an SDK
// client pointed at it.
func setupService(t *testing.T, opts serviceOptions) *usersdk.Client {
	t.Helper()

	if opts.accessTTL == 0 {
		opts.accessTTL = time.Minute
	}

	dir := t.TempDir()
	application, err := app.New(t.Context(), app.Config{
		JWTSecret:     jwtSecret,
		AccessTTL:     opts.accessTTL,
		RefreshTTL:    time.Hour,
		DBDriver:      app.DriverPostgres,
		DBDSN:         setupPostgres(t),
		PepperFile:    filepath.Join(dir, "pepper"),
		Env:           "test",
		LogLevel:      "error",
		LogFormat:     "json",
		ShutdownGrace: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return usersdk.NewClient(srv.URL)
}

func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "accounts",
				"POSTGRES_PASSWORD": "accounts",
				"POSTGRES_DB":       "accounts",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://accounts:accounts@%s:%s/accounts?sslmode=disable", host, port.Port())
}

// registerTestUser creates the default test user.
func registerTestUser(t *testing.T, client *usersdk.Client) *usersdk.UserResponse {
	t.Helper()

	user, err := client.Register(t.Context(), usersdk.RegisterRequest{
		ID:       testID,
		Name:     testName,
		Password: testPassword,
		Email:    testEmail,
		NickName: testNickName,
	})
	require.NoError(t, err)
	return user
}

// performLogin logs the default test user in.
func performLogin(t *testing.T, client *usersdk.Client) *usersdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken())
	return session
}

// requireAPIError asserts err is an *httpx.APIError with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
