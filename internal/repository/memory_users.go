package repository

import (
	"context"
	"sort"
	"sync"

	"dcmonitor/internal/domain"
)

// MemoryUsersRepo used when DB is disabled
type MemoryUsersRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func NewMemoryUsersRepo(seed []domain.User) *MemoryUsersRepo {
	r := &MemoryUsersRepo{users: map[string]domain.User{}}
	for _, u := range seed {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func (r *MemoryUsersRepo) ListUsers(_ context.Context, filter UserFilters) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.User{}
	for _, u := range r.users {
		if filter.match(&u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryUsersRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

// usernameTaken must be called with the lock held.
func (r *MemoryUsersRepo) usernameTaken(username, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (r *MemoryUsersRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists || r.usernameTaken(user.Username, "") {
		return ErrConflict
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUsersRepo) UpdateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	if r.usernameTaken(user.Username, user.ID) {
		return ErrConflict
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUsersRepo) DeleteUser(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
