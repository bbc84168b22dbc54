package memory

import (
	"context"
	"sort"
	"strings"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"
)

type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == user.ID || u.Email == user.Email || strings.EqualFold(u.Username, user.Username) {
			return repository.ErrConflict
		}
	}
	stamp(&user.CreatedAt)
	user.UpdatedAt = user.CreatedAt
	r.db.users = append(r.db.users, *user)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.userByID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) UpdateImage(_ context.Context, id, image string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.users {
		if r.db.users[i].ID == id {
			r.db.users[i].Image = image
			return nil
		}
	}
	return nil
}

func (r *UserRepository) Search(_ context.Context, query, excludeID string, limit int) ([]model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	q := strings.ToLower(query)
	var out []model.User
	for _, u := range r.db.users {
		if u.ID != excludeID && strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepository) ListExcept(_ context.Context, excludeID string, limit int) ([]model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.User
	for i := len(r.db.users) - 1; i >= 0; i-- {
		if r.db.users[i].ID != excludeID {
			out = append(out, r.db.users[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepository) FindAccount(_ context.Context, provider, providerAccountID string) (*model.Account, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, a := range r.db.accounts {
		if a.Provider == provider && a.ProviderAccountID == providerAccountID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) CreateAccount(_ context.Context, account *model.Account) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.ID == account.ID || (a.Provider == account.Provider && a.ProviderAccountID == account.ProviderAccountID) {
			return repository.ErrConflict
		}
	}
	stamp(&account.CreatedAt)
	account.UpdatedAt = account.CreatedAt
	r.db.accounts = append(r.db.accounts, *account)
	return nil
}
