// Package storetest is a conformance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated and empty store.
type Factory func(t *testing.T) store.Store

// Run executes the suite. Each subtest gets its own store.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := map[string]func(*testing.T, store.Store){
		"CreateAndGetUser":           testCreateAndGetUser,
		"DuplicateUser":              testDuplicateUser,
		"Exists":                     testExists,
		"UpdateUser":                 testUpdateUser,
		"DeleteUser":                 testDeleteUser,
		"SessionLifecycle":           testSessionLifecycle,
		"SessionUniquePerUser":       testSessionUniquePerUser,
		"SessionRequiresUser":        testSessionRequiresUser,
		"DeleteUserCascadesSessions": testDeleteUserCascades,
		"TxRollback":                 testTxRollback,
		"TxCommit":                   testTxCommit,
		"ConcurrentReplace":          testConcurrentReplace,
		"ConcurrentLogins":           testConcurrentLogins,
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

// NewUser builds a valid user whose unique columns derive from id.
func NewUser(id string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		ID:           id,
		Name:         "Name " + id,
		Email:        id + "@x.com",
		NickName:     "nick-" + id,
		PasswordHash: "$argon2id$hash-" + id,
		Level:        domain.DefaultLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newSession(userID, token string) domain.Session {
	return domain.Session{
		ID:           idx.New().String(),
		UserID:       userID,
		RefreshToken: token,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func testCreateAndGetUser(t *testing.T, st store.Store) {
	ctx := t.Context()
	u := NewUser("u1")
	u.ProfileImage = "https://img/u1.png"
	u.Exp = 42

	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Name, got.Name)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.NickName, got.NickName)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, u.ProfileImage, got.ProfileImage)
	require.Equal(t, u.Level, got.Level)
	require.Equal(t, u.Exp, got.Exp)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", u.CreatedAt, got.CreatedAt)

	byEmail, err := st.Users().GetUserByEmail(ctx, "u1@x.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)

	_, err = st.Users().GetUserByID(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByEmail(ctx, "ghost@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDuplicateUser(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	sameID := NewUser("u1")
	sameID.Email, sameID.NickName = "other@x.com", "other"
	require.ErrorIs(t, st.Users().CreateUser(ctx, sameID), store.ErrAlreadyExists)

	sameEmail := NewUser("u2")
	sameEmail.Email = "u1@x.com"
	require.ErrorIs(t, st.Users().CreateUser(ctx, sameEmail), store.ErrAlreadyExists)

	sameNick := NewUser("u3")
	sameNick.NickName = "nick-u1"
	require.ErrorIs(t, st.Users().CreateUser(ctx, sameNick), store.ErrAlreadyExists)
}

func testExists(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	checks := []struct {
		fn   func(context.Context, string) (bool, error)
		arg  string
		want bool
	}{
		{st.Users().ExistsByID, "u1", true},
		{st.Users().ExistsByID, "u2", false},
		{st.Users().ExistsByEmail, "u1@x.com", true},
		{st.Users().ExistsByEmail, "u2@x.com", false},
		{st.Users().ExistsByNickName, "nick-u1", true},
		{st.Users().ExistsByNickName, "nick-u2", false},
	}
	for _, c := range checks {
		got, err := c.fn(ctx, c.arg)
		require.NoError(t, err)
		require.Equal(t, c.want, got, c.arg)
	}
}

func testUpdateUser(t *testing.T, st store.Store) {
	ctx := t.Context()
	u := NewUser("u1")
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u2")))

	u.NickName = "renamed"
	u.PasswordHash = "$argon2id$new"
	u.ProfileImage = "https://img/new.png"
	u.Level = 3
	u.Exp = 1200
	u.UpdatedAt = u.UpdatedAt.Add(time.Minute)
	require.NoError(t, st.Users().UpdateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "renamed", got.NickName)
	require.Equal(t, "$argon2id$new", got.PasswordHash)
	require.Equal(t, "https://img/new.png", got.ProfileImage)
	require.Equal(t, 3, got.Level)
	require.Equal(t, 1200, got.Exp)
	require.Equal(t, "u1@x.com", got.Email)
	require.True(t, u.UpdatedAt.Equal(got.UpdatedAt))

	clash := got
	clash.NickName = "nick-u2"
	require.ErrorIs(t, st.Users().UpdateUser(ctx, clash), store.ErrAlreadyExists)

	require.ErrorIs(t, st.Users().UpdateUser(ctx, NewUser("ghost")), store.ErrNotFound)
}

func testDeleteUser(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	require.NoError(t, st.Users().DeleteUser(ctx, "u1"))
	_, err := st.Users().GetUserByID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, st.Users().DeleteUser(ctx, "u1"), store.ErrNotFound)
}

func testSessionLifecycle(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	_, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	s := newSession("u1", "refresh-1")
	require.NoError(t, st.Sessions().CreateSession(ctx, s))

	got, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, "refresh-1", got.RefreshToken)
	require.True(t, s.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, st.Sessions().DeleteSessionByUserID(ctx, "u1"))
	_, err = st.Sessions().GetSessionByUserID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Idempotent.
	require.NoError(t, st.Sessions().DeleteSessionByUserID(ctx, "u1"))
	require.NoError(t, st.Sessions().DeleteSessionByUserID(ctx, "ghost"))
}

func testSessionUniquePerUser(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))
	require.NoError(t, st.Sessions().CreateSession(ctx, newSession("u1", "refresh-1")))

	err := st.Sessions().CreateSession(ctx, newSession("u1", "refresh-2"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", got.RefreshToken)
}

func testSessionRequiresUser(t *testing.T, st store.Store) {
	err := st.Sessions().CreateSession(t.Context(), newSession("ghost", "refresh"))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteUserCascades(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))
	require.NoError(t, st.Sessions().CreateSession(ctx, newSession("u1", "refresh-1")))

	require.NoError(t, st.Users().DeleteUser(ctx, "u1"))

	_, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// The user id can be reused with a clean slate.
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))
	require.NoError(t, st.Sessions().CreateSession(ctx, newSession("u1", "refresh-2")))
}

var errAbort = errors.New("abort")

func testTxRollback(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))
	require.NoError(t, st.Sessions().CreateSession(ctx, newSession("u1", "refresh-1")))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Sessions().DeleteSessionByUserID(ctx, "u1"))
		require.NoError(t, tx.Sessions().CreateSession(ctx, newSession("u1", "refresh-2")))
		require.NoError(t, tx.Users().CreateUser(ctx, NewUser("u2")))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", got.RefreshToken)

	exists, err := st.Users().ExistsByID(ctx, "u2")
	require.NoError(t, err)
	require.False(t, exists)
}

func testTxCommit(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSessionByUserID(ctx, "u1"); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, newSession("u1", "refresh-1"))
	})
	require.NoError(t, err)

	got, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", got.RefreshToken)

	// Nested transactions are refused.
	err = st.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err)
}

// Concurrent delete-then-insert transactions for one user must leave exactly
// one row, holding one of the written tokens.
func testConcurrentReplace(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.WithTx(ctx, func(tx store.Tx) error {
				if err := tx.Sessions().DeleteSessionByUserID(ctx, "u1"); err != nil {
					return err
				}
				return tx.Sessions().CreateSession(ctx, newSession("u1", fmt.Sprintf("refresh-%d", i)))
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := st.Sessions().GetSessionByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Regexp(t, `^refresh-\d$`, got.RefreshToken)
}

// Logins racing for one user all succeed and leave a single session holding
// one of their tokens. Other users' sessions are untouched.
func testConcurrentLogins(t *testing.T, st store.Store) {
	ctx := t.Context()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u1")))
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("u2")))

	sessions := &service.SessionService{Store: st}
	require.NoError(t, sessions.Upsert(ctx, "u2", "bystander"))

	const logins = 16
	written := make(map[string]bool, logins)
	var wg sync.WaitGroup
	errs := make(chan error, logins)
	for i := range logins {
		token := fmt.Sprintf("login-%02d", i)
		written[token] = true

		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- sessions.Upsert(ctx, "u1", token)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := sessions.Lookup(ctx, "u1")
	require.NoError(t, err)
	require.True(t, written[got], "unexpected token %q", got)

	require.NoError(t, sessions.Revoke(ctx, "u1"))
	_, err = sessions.Lookup(ctx, "u1")
	require.ErrorIs(t, err, service.ErrSessionNotFound, "more than one row was left for u1")

	other, err := sessions.Lookup(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, "bystander", other)
}
