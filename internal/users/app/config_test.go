package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"JWT_SECRET", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "DB_DRIVER", "DB_DSN", "DB_FILE", "PORT", "SHUTDOWN_GRACE_PERIOD"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, 30*time.Minute, cfg.AccessTTL)
	require.Equal(t, 14*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGrace)
	require.Contains(t, cfg.sqliteDSN(), "file:accounts.db?")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("JWT_REFRESH_TTL", "90") // minutes
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_DSN", "postgres://u:p@localhost/accounts")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, secret, cfg.JWTSecret)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 90*time.Minute, cfg.RefreshTTL)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWTSecret:  secret,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		DBDriver:   DriverMemory,
		Port:       8080,
	}
	require.NoError(t, valid.Validate())

	tests := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"missing secret":   {func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		"short secret":     {func(c *Config) { c.JWTSecret = "short" }, "at least 32 bytes"},
		"zero access ttl":  {func(c *Config) { c.AccessTTL = 0 }, "JWT_ACCESS_TTL"},
		"refresh < access": {func(c *Config) { c.RefreshTTL = time.Second }, "JWT_REFRESH_TTL"},
		"unknown driver":   {func(c *Config) { c.DBDriver = "mysql" }, `"mysql"`},
		"postgres no dsn":  {func(c *Config) { c.DBDriver = DriverPostgres }, "DB_DSN"},
		"bad port":         {func(c *Config) { c.Port = 70000 }, "PORT"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		err := Config{DBDriver: "mysql"}.Validate()
		require.Error(t, err)
		require.GreaterOrEqual(t, len(strings.Split(err.Error(), "\n")), 3)
	})
}
