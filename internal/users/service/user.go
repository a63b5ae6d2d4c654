package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

type UserService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Now    func() time.Time
}

type RegisterInput struct {
	ID       string
	Name     string
	Password string
	Email    string
	NickName string
}

// ProfileUpdate lists the mutable profile fields. Nil fields are left alone;
// email and name never change after registration.
type ProfileUpdate struct {
	NickName     *string
	ProfileImage *string
	Level        *int
	Exp          *int
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Register creates a user after checking that id, email and nickname are all
// free.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.NickName = strings.TrimSpace(in.NickName)

	if err := validateRegister(in); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           in.ID,
		Name:         in.Name,
		Email:        in.Email,
		NickName:     in.NickName,
		PasswordHash: hash,
		Level:        domain.DefaultLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkFree(ctx, tx.Users().ExistsByID, u.ID, ErrDuplicateID); err != nil {
			return err
		}
		if err := checkFree(ctx, tx.Users().ExistsByEmail, u.Email, ErrDuplicateEmail); err != nil {
			return err
		}
		if err := checkFree(ctx, tx.Users().ExistsByNickName, u.NickName, ErrDuplicateNickName); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, u)
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slogx.KeyUserID, u.ID)
	return u, nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case in.NickName == "":
		return fmt.Errorf("%w: nickName is required", ErrInvalidInput)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
	}
	return nil
}

func checkFree(ctx context.Context, exists func(context.Context, string) (bool, error), v string, taken error) error {
	found, err := exists(ctx, v)
	if err != nil {
		return err
	}
	if found {
		return taken
	}
	return nil
}

func (s *UserService) IsIDTaken(ctx context.Context, id string) (bool, error) {
	return s.Store.Users().ExistsByID(ctx, id)
}

func (s *UserService) IsNickNameTaken(ctx context.Context, nickName string) (bool, error) {
	return s.Store.Users().ExistsByNickName(ctx, nickName)
}

func (s *UserService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return s.Store.Users().ExistsByEmail(ctx, email)
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies the non-nil fields of p and returns the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (domain.User, error) {
	if err := validateProfile(p); err != nil {
		return domain.User{}, err
	}

	var out domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if p.NickName != nil {
			nick := strings.TrimSpace(*p.NickName)
			if nick != u.NickName {
				if err := checkFree(ctx, tx.Users().ExistsByNickName, nick, ErrDuplicateNickName); err != nil {
					return err
				}
				u.NickName = nick
			}
		}
		if p.ProfileImage != nil {
			u.ProfileImage = strings.TrimSpace(*p.ProfileImage)
		}
		if p.Level != nil {
			u.Level = *p.Level
		}
		if p.Exp != nil {
			u.Exp = *p.Exp
		}
		u.UpdatedAt = s.now()

		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

func validateProfile(p ProfileUpdate) error {
	if p.NickName != nil && strings.TrimSpace(*p.NickName) == "" {
		return fmt.Errorf("%w: nickName must not be empty", ErrInvalidInput)
	}
	if p.Level != nil && *p.Level < 1 {
		return fmt.Errorf("%w: level must be at least 1", ErrInvalidInput)
	}
	if p.Exp != nil && *p.Exp < 0 {
		return fmt.Errorf("%w: exp must not be negative", ErrInvalidInput)
	}
	return nil
}

// ChangePassword checks current against the stored hash and stores a hash of
// next. The user's session is revoked in the same transaction, so the next
// refresh requires a fresh login.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrMismatch) {
				return ErrInvalidPassword
			}
			return fmt.Errorf("verify password: %w", err)
		}

		hash, err := s.Hasher.Hash(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
		u.UpdatedAt = s.now()

		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		return tx.Sessions().DeleteSessionByUserID(ctx, id)
	})
}

// DeleteUser removes the user; the session row goes with it.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.Store.Users().DeleteUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user deleted", slogx.KeyUserID, id)
	return nil
}
