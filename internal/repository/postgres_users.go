package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dcmonitor/internal/domain"
)

type PostgresUsersRepo struct {
	db *sql.DB
}

var _ UsersRepository = (*PostgresUsersRepo)(nil)

func NewPostgresUsersRepo(db *sql.DB) *PostgresUsersRepo {
	return &PostgresUsersRepo{db: db}
}

const userColumns = `id, username, email, role, status, last_login, created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Status, &lastLogin, &u.CreatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func (r *PostgresUsersRepo) ListUsers(ctx context.Context, filter UserFilters) ([]domain.User, error) {
	where := []string{}
	args := []any{}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, username`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *PostgresUsersRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *PostgresUsersRepo) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Username, u.Email, string(u.Role), string(u.Status), nullTime(u.LastLogin), u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepo) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = $2, email = $3, role = $4, status = $5, last_login = $6
		WHERE id = $1
	`, u.ID, u.Username, u.Email, string(u.Role), string(u.Status), nullTime(u.LastLogin))
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresUsersRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(res)
}
