package repository

import (
	"context"
	"strings"

	"dcmonitor/internal/domain"
)

// UserFilters optional filters; Search matches username or email, case-insensitively
type UserFilters struct {
	Role   domain.UserRole
	Status domain.UserStatus
	Search string
}

func (f UserFilters) match(u *domain.User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q)
	}
	return true
}

// UsersRepository dashboard accounts
type UsersRepository interface {
	ListUsers(ctx context.Context, filter UserFilters) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// CreateUser fails with ErrConflict when the username is taken
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}
