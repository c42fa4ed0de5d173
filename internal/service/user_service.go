package service

import (
	"context"
	"strings"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserInput editable account fields; empty Status means active on create
type UserInput struct {
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     domain.UserRole   `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

type UserService interface {
	List(ctx context.Context, filter repository.UserFilters) ([]domain.User, error)
	Create(ctx context.Context, in UserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	repo   repository.UsersRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewUserService(repo repository.UsersRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger, now: time.Now, newID: uuid.NewString}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilters) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, filter)
}

func (s *userService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	u := &domain.User{
		ID:        s.newID(),
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		Role:      in.Role,
		Status:    in.Status,
		CreatedAt: s.now().UTC(),
	}
	if u.Status == "" {
		u.Status = domain.UserActive
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User created", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Update overwrites the given fields; empty fields keep their stored value.
func (s *userService) Update(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = v
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Status != "" {
		u.Status = in.Status
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User updated", zap.String("user_id", id))
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}

func (s *userService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == domain.UserActive {
		u.Status = domain.UserInactive
	} else {
		u.Status = domain.UserActive
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User status toggled", zap.String("user_id", id), zap.String("status", string(u.Status)))
	return u, nil
}
