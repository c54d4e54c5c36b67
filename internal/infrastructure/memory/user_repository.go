package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	guard
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	stored := *u
	stored.ID = strings.Clone(u.ID)
	stored.Email = strings.Clone(u.Email)
	stored.Name = strings.Clone(u.Name)
	r.s.users[stored.ID] = stored
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.rlock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.rlock()()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	defer r.rlock()()
	all := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, u)
	}
	sortByName(all, func(u entity.User) string { return u.Email }, func(u entity.User) string { return u.ID })
	from, to := paginate(len(all), limit, offset)
	out := make([]*entity.User, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, &all[i])
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	existing, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name = strings.Clone(u.Name)
	existing.Role = strings.Clone(u.Role)
	existing.Status = strings.Clone(u.Status)
	existing.UpdatedAt = u.UpdatedAt
	r.s.users[existing.ID] = existing
	return nil
}
