// Package memory is an in-process Store. Transactions work on a copy of the
// data that replaces the live copy on commit, and are serialised by a mutex.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/store"
)

var errTxDone = errors.New("memory: transaction already committed or rolled back")

type data struct {
	users    map[string]domain.User
	sessions map[string]domain.Session // keyed by user id
}

func newData() *data {
	return &data{
		users:    make(map[string]domain.User),
		sessions: make(map[string]domain.Session),
	}
}

func (d *data) clone() *data {
	return &data{
		users:    maps.Clone(d.users),
		sessions: maps.Clone(d.sessions),
	}
}

type Store struct {
	mu   sync.Mutex // held for single operations and for the whole of a tx
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

func (s *Store) Users() store.Users       { return &usersRepo{view: s.locked} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{view: s.locked} }

// locked runs fn against the live data under the store mutex.
func (s *Store) locked(fn func(*data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) ApplyMigrations(context.Context) error { return nil }
func (s *Store) Close() error                          { return nil }
func (s *Store) Ping(context.Context) error            { return nil }

// Tx locks the store until Commit or Rollback.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &txStore{parent: s, work: s.data.clone()}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type txStore struct {
	parent *Store
	work   *data
	done   bool
}

func (t *txStore) view(fn func(*data) error) error {
	if t.done {
		return errTxDone
	}
	return fn(t.work)
}

func (t *txStore) Users() store.Users       { return &usersRepo{view: t.view} }
func (t *txStore) Sessions() store.Sessions { return &sessionsRepo{view: t.view} }

func (t *txStore) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.parent.data = t.work
	t.parent.mu.Unlock()
	return nil
}

func (t *txStore) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.parent.mu.Unlock()
	return nil
}

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, errTxDone }

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error { return errTxDone }

func (t *txStore) ApplyMigrations(context.Context) error { return nil }
func (t *txStore) Close() error                          { return nil }
func (t *txStore) Ping(context.Context) error            { return nil }
