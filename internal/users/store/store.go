package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers (sqlite, postgres, memory)
// implement it. Repositories hang off it as methods so a transaction scoped
// Store hands out transaction scoped repositories, and nested transactions are
// impossible to start by accident.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations(ctx context.Context) error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user. A clash on id, email or nickname
	// returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByNickName(ctx context.Context, nickName string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateUser writes the mutable columns (nickname, password hash,
	// profile image, level, exp, updated_at) of u.ID.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to the user's session (per schema).
	DeleteUser(ctx context.Context, id string) error
}

// Sessions rows are only ever created, read by user and deleted by user.
// There is no update.
type Sessions interface {
	// CreateSession inserts a row. A second row for the same user violates
	// UNIQUE(user_id) and returns ErrAlreadyExists; an unknown user returns
	// ErrNotFound.
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByUserID(ctx context.Context, userID string) (domain.Session, error)

	// DeleteSessionByUserID is a no-op when the user has no session.
	DeleteSessionByUserID(ctx context.Context, userID string) error
}
