package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/internal/util"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{
		users:           make(map[uuid.UUID]dao.User),
		byUsernameIndex: make(map[string]uuid.UUID),
	}
}

type UsersRepository struct {
	users           map[uuid.UUID]dao.User
	byUsernameIndex map[string]uuid.UUID
}

func (r *UsersRepository) Close() error { return nil }

func (r *UsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	user.ID = newUUID

	if _, ok := r.byUsernameIndex[user.Username]; ok {
		return dao.User{}, dao.ErrConstraintViolation
	}

	user.LastLogoutTime = time.Now()
	user.Created = time.Now()

	r.users[user.ID] = user
	r.byUsernameIndex[user.Username] = user.ID

	return user, nil
}

func (r *UsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	all := make([]dao.User, 0, len(r.users))
	for k := range r.users {
		all = append(all, r.users[k])
	}

	all = util.SortBy(all, func(l, rt dao.User) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	existing, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	if user.Username != existing.Username {
		if _, ok := r.byUsernameIndex[user.Username]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
	} else if user.ID != id {
		if _, ok := r.users[user.ID]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
	}

	r.users[user.ID] = user
	r.byUsernameIndex[user.Username] = user.ID
	if user.ID != id {
		delete(r.users, id)
	}

	return user, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	return user, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	userID, ok := r.byUsernameIndex[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	return r.users[userID], nil
}

func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	delete(r.byUsernameIndex, user.Username)
	delete(r.users, user.ID)

	return user, nil
}
