package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// UserRole dashboard role; informational only, no access control is enforced
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)

// UserStatus account state
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User dashboard account
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, u.Email)
	}
	switch u.Role {
	case RoleAdmin, RoleOperator, RoleViewer:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}
	switch u.Status {
	case UserActive, UserInactive:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrValidation, u.Status)
	}
	return nil
}
