// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*User, error)
	SetTokenHash(ctx context.Context, id, tokenHash string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, password_hash, role, token_hash, created_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &user.CreatedAt, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
	)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return fmt.Errorf("create user: %w", dup)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByLogin(
	ctx context.Context,
	login string,
) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		ORDER BY LOWER(username) = LOWER($1) DESC
		LIMIT 1`

	var user User
	err := r.db.GetContext(ctx, &user, query, login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by login: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token_hash = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by token: %w", err)
	}

	return &user, nil
}

func (r *repository) SetTokenHash(
	ctx context.Context,
	id, tokenHash string,
) error {
	query := `UPDATE users SET token_hash = $2 WHERE id = $1`

	return r.execOne(ctx, "set token hash", query, id, tokenHash)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return fmt.Errorf("%s: %w", op, dup)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

// duplicateKeyError maps a unique violation to the field that collided.
func duplicateKeyError(err error) error {
	constraint, ok := core.UniqueViolation(err)
	if !ok {
		return nil
	}

	switch constraint {
	case "users_username_lower_key":
		return ErrUsernameExists
	case "users_email_lower_key":
		return ErrEmailExists
	default:
		return core.ErrDuplicateKey
	}
}
