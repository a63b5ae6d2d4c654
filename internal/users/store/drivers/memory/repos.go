package memory

import (
	"context"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/store"
)

type usersRepo struct {
	view func(func(*data) error) error
}

func (r *usersRepo) CreateUser(_ context.Context, u domain.User) error {
	return r.view(func(d *data) error {
		if _, ok := d.users[u.ID]; ok {
			return store.ErrAlreadyExists
		}
		for _, other := range d.users {
			if other.Email == u.Email || other.NickName == u.NickName {
				return store.ErrAlreadyExists
			}
		}
		d.users[u.ID] = u
		return nil
	})
}

func (r *usersRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	var out domain.User
	err := r.view(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return store.ErrNotFound
		}
		out = u
		return nil
	})
	return out, err
}

func (r *usersRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	var out domain.User
	err := r.view(func(d *data) error {
		for _, u := range d.users {
			if u.Email == email {
				out = u
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (r *usersRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.view(func(d *data) error {
		_, found = d.users[id]
		return nil
	})
	return found, err
}

func (r *usersRepo) ExistsByNickName(_ context.Context, nickName string) (bool, error) {
	return r.any(func(u domain.User) bool { return u.NickName == nickName })
}

func (r *usersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.any(func(u domain.User) bool { return u.Email == email })
}

func (r *usersRepo) any(match func(domain.User) bool) (bool, error) {
	var found bool
	err := r.view(func(d *data) error {
		for _, u := range d.users {
			if match(u) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *usersRepo) UpdateUser(_ context.Context, u domain.User) error {
	return r.view(func(d *data) error {
		cur, ok := d.users[u.ID]
		if !ok {
			return store.ErrNotFound
		}
		for id, other := range d.users {
			if id != u.ID && other.NickName == u.NickName {
				return store.ErrAlreadyExists
			}
		}
		cur.NickName = u.NickName
		cur.PasswordHash = u.PasswordHash
		cur.ProfileImage = u.ProfileImage
		cur.Level = u.Level
		cur.Exp = u.Exp
		cur.UpdatedAt = u.UpdatedAt
		d.users[u.ID] = cur
		return nil
	})
}

func (r *usersRepo) DeleteUser(_ context.Context, id string) error {
	return r.view(func(d *data) error {
		if _, ok := d.users[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.users, id)
		delete(d.sessions, id) // ON DELETE CASCADE
		return nil
	})
}

type sessionsRepo struct {
	view func(func(*data) error) error
}

func (r *sessionsRepo) CreateSession(_ context.Context, s domain.Session) error {
	return r.view(func(d *data) error {
		if _, ok := d.users[s.UserID]; !ok {
			return store.ErrNotFound
		}
		if _, ok := d.sessions[s.UserID]; ok {
			return store.ErrAlreadyExists
		}
		d.sessions[s.UserID] = s
		return nil
	})
}

func (r *sessionsRepo) GetSessionByUserID(_ context.Context, userID string) (domain.Session, error) {
	var out domain.Session
	err := r.view(func(d *data) error {
		s, ok := d.sessions[userID]
		if !ok {
			return store.ErrNotFound
		}
		out = s
		return nil
	})
	return out, err
}

func (r *sessionsRepo) DeleteSessionByUserID(_ context.Context, userID string) error {
	return r.view(func(d *data) error {
		delete(d.sessions, userID)
		return nil
	})
}
