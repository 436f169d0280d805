package memory

import (
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria del puerto UserRepository.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el repositorio sobre el backend dado.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *UserRepo) Create(user *entity.User) error {
	if _, ok := r.store.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.store.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.store.users[user.ID] = cloneUser(user)
	return nil
}
