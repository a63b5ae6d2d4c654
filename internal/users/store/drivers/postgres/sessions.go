package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
)

type sessionsRepo struct {
	q    querier
	inTx bool
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.RefreshToken, s.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByUserID(ctx context.Context, userID string) (domain.Session, error) {
	if err := r.lockUser(ctx, userID); err != nil {
		return domain.Session{}, err
	}

	var s domain.Session
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, refresh_token, created_at FROM sessions WHERE user_id = $1`, userID,
	).Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSessionByUserID(ctx context.Context, userID string) error {
	if err := r.lockUser(ctx, userID); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// lockUser takes the user row lock inside a transaction. Every session write
// path goes through it first, so locks are always acquired user then session.
func (r *sessionsRepo) lockUser(ctx context.Context, userID string) error {
	if !r.inTx {
		return nil
	}
	var id string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}
