package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/metrics"
)

// SessionService keeps exactly one refresh token per user. Rows are never
// updated in place: every write deletes the old row and inserts a new one in
// the same transaction.
type SessionService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Upsert replaces whatever session userID had with refreshToken.
func (s *SessionService) Upsert(ctx context.Context, userID, refreshToken string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.replace(ctx, tx, userID, refreshToken)
	})
	if err != nil {
		return err
	}
	s.Metrics.SessionReplaced()
	return nil
}

// Rotate swaps current for next, but only while current is still the stored
// token. A concurrent login or logout in between makes it fail with
// ErrSessionNotFound instead of resurrecting a stale session.
func (s *SessionService) Rotate(ctx context.Context, userID, current, next string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetSessionByUserID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && sess.RefreshToken != current) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		return s.replace(ctx, tx, userID, next)
	})
	if err != nil {
		return err
	}
	s.Metrics.SessionReplaced()
	return nil
}

func (s *SessionService) replace(ctx context.Context, tx store.Tx, userID, refreshToken string) error {
	if err := tx.Sessions().DeleteSessionByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	err := tx.Sessions().CreateSession(ctx, domain.Session{
		ID:           idx.New().String(),
		UserID:       userID,
		RefreshToken: refreshToken,
		CreatedAt:    s.now().UTC(),
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case err != nil:
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Lookup returns the stored refresh token for userID.
func (s *SessionService) Lookup(ctx context.Context, userID string) (string, error) {
	sess, err := s.Store.Sessions().GetSessionByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return sess.RefreshToken, nil
}

// Revoke deletes the user's session. Revoking a missing session is not an error.
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	if err := s.Store.Sessions().DeleteSessionByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.Metrics.SessionRevoked()
	return nil
}
