package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.UserID, s.RefreshToken, s.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByUserID(ctx context.Context, userID string) (domain.Session, error) {
	var (
		s         domain.Session
		createdAt time.Time
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, refresh_token, created_at FROM sessions WHERE user_id = ?`, userID,
	).Scan(&s.ID, &s.UserID, &s.RefreshToken, &createdAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = createdAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSessionByUserID(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}
