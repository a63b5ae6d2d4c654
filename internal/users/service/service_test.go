package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/internal/users/store/drivers/memory"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/metrics"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    store.Store
	clock    *fakeClock
	metrics  *metrics.Metrics
	issuer   *jwtx.Issuer
	users    *service.UserService
	sessions *service.SessionService
	auth     *service.AuthService
}

func newFixture(t *testing.T, accessTTL, refreshTTL time.Duration) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := jwtx.NewIssuer(jwtx.Config{
		Secret:     []byte(testSecret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	st := memory.NewStore()
	m := metrics.New()
	hasher := cryptox.PasswordHasher{Pepper: "pepper"}
	sessions := &service.SessionService{Store: st, Metrics: m, Now: clock.Now}

	return &fixture{
		store:    st,
		clock:    clock,
		metrics:  m,
		issuer:   issuer,
		sessions: sessions,
		users:    &service.UserService{Store: st, Hasher: hasher, Now: clock.Now},
		auth: &service.AuthService{
			Store:    st,
			Issuer:   issuer,
			Sessions: sessions,
			Hasher:   hasher,
			Metrics:  m,
		},
	}
}

func (f *fixture) register(t *testing.T, id, email, nick, password string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), service.RegisterInput{
		ID:       id,
		Name:     "Name " + id,
		Password: password,
		Email:    email,
		NickName: nick,
	})
	require.NoError(t, err)
}
