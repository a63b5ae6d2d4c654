package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()

	u, err := f.users.Register(ctx, service.RegisterInput{
		ID:       " u1 ",
		Name:     "User One",
		Password: "s3cret",
		Email:    "u1@x.com",
		NickName: "Ace",
	})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, domain.DefaultLevel, u.Level)
	require.Zero(t, u.Exp)
	require.NotEqual(t, "s3cret", u.PasswordHash)
	require.Equal(t, f.clock.Now(), u.CreatedAt)

	got, err := f.users.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1@x.com", got.Email)
	require.Equal(t, "Ace", got.NickName)
}

func TestRegisterDuplicates(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	f.register(t, "u1", "u1@x.com", "Ace", "pw")

	tests := []struct {
		name string
		in   service.RegisterInput
		want error
	}{
		{"id", service.RegisterInput{ID: "u1", Name: "n", Password: "pw", Email: "other@x.com", NickName: "Other"}, service.ErrDuplicateID},
		{"email", service.RegisterInput{ID: "u2", Name: "n", Password: "pw", Email: "u1@x.com", NickName: "Other"}, service.ErrDuplicateEmail},
		{"nickname", service.RegisterInput{ID: "u2", Name: "n", Password: "pw", Email: "u2@x.com", NickName: "Ace"}, service.ErrDuplicateNickName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	valid := service.RegisterInput{ID: "u1", Name: "n", Password: "pw", Email: "u1@x.com", NickName: "Ace"}

	tests := map[string]func(*service.RegisterInput){
		"missing id":       func(in *service.RegisterInput) { in.ID = "  " },
		"missing name":     func(in *service.RegisterInput) { in.Name = "" },
		"missing nickname": func(in *service.RegisterInput) { in.NickName = "" },
		"missing password": func(in *service.RegisterInput) { in.Password = "" },
		"bad email":        func(in *service.RegisterInput) { in.Email = "not-an-email" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := f.users.Register(context.Background(), in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestTakenChecks(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	f.register(t, "u1", "u1@x.com", "Ace", "pw")

	taken, err := f.users.IsIDTaken(ctx, "u1")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = f.users.IsEmailTaken(ctx, "u1@x.com")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = f.users.IsNickNameTaken(ctx, "Ace")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = f.users.IsNickNameTaken(ctx, "Bee")
	require.NoError(t, err)
	require.False(t, taken)
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)

	_, err := f.users.GetUser(context.Background(), "ghost")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	f.register(t, "u1", "u1@x.com", "Ace", "pw")
	f.register(t, "u2", "u2@x.com", "Bee", "pw")

	f.clock.Advance(time.Minute)
	nick, img, level := "King", "https://img/u1.png", 3
	u, err := f.users.UpdateProfile(ctx, "u1", service.ProfileUpdate{
		NickName:     &nick,
		ProfileImage: &img,
		Level:        &level,
	})
	require.NoError(t, err)
	require.Equal(t, "King", u.NickName)
	require.Equal(t, img, u.ProfileImage)
	require.Equal(t, 3, u.Level)
	require.Zero(t, u.Exp)
	require.Equal(t, "u1@x.com", u.Email)
	require.True(t, u.UpdatedAt.After(u.CreatedAt))

	got, err := f.users.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "King", got.NickName)

	t.Run("same nickname is not a clash", func(t *testing.T) {
		_, err := f.users.UpdateProfile(ctx, "u1", service.ProfileUpdate{NickName: &nick})
		require.NoError(t, err)
	})

	t.Run("nickname clash", func(t *testing.T) {
		taken := "Bee"
		_, err := f.users.UpdateProfile(ctx, "u1", service.ProfileUpdate{NickName: &taken})
		require.ErrorIs(t, err, service.ErrDuplicateNickName)
	})

	t.Run("invalid values", func(t *testing.T) {
		neg := -1
		_, err := f.users.UpdateProfile(ctx, "u1", service.ProfileUpdate{Exp: &neg})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.users.UpdateProfile(ctx, "ghost", service.ProfileUpdate{})
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	f.register(t, "u1", "u1@x.com", "Ace", "old-pw")

	_, err := f.auth.Login(ctx, "u1@x.com", "old-pw")
	require.NoError(t, err)

	err = f.users.ChangePassword(ctx, "u1", "wrong", "new-pw")
	require.ErrorIs(t, err, service.ErrInvalidPassword)

	require.NoError(t, f.users.ChangePassword(ctx, "u1", "old-pw", "new-pw"))

	_, err = f.sessions.Lookup(ctx, "u1")
	require.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = f.auth.Login(ctx, "u1@x.com", "old-pw")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "u1@x.com", "new-pw")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	f.register(t, "u1", "u1@x.com", "Ace", "pw")

	require.NoError(t, f.users.DeleteUser(ctx, "u1"))
	require.ErrorIs(t, f.users.DeleteUser(ctx, "u1"), service.ErrUserNotFound)

	_, err := f.users.GetUser(ctx, "u1")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
