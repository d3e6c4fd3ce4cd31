// Package postgres provides the PostgreSQL implementation of the users repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/users"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// Repository implements the users.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, user_name, name, full_name, password, birth_date, role, enabled, created_at`

// Create inserts a new user. The unique constraint on user_name is the
// authoritative uniqueness guard.
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_name, name, full_name, password, birth_date, role, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.UserName,
		user.Name,
		user.FullName,
		user.Password,
		user.BirthDate,
		user.Role,
		user.Enabled,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrUserNameExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetByUserName retrieves a user by username.
func (r *Repository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_name = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// ExistsByUserName reports whether a username is already taken.
func (r *Repository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_name = $1)`,
		userName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

// List retrieves all users ordered by id.
func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	list := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return list, nil
}

// Update overwrites all mutable fields of an existing user.
func (r *Repository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET user_name = $2, name = $3, full_name = $4, password = $5,
		    birth_date = $6, role = $7, enabled = $8
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query,
		user.ID,
		user.UserName,
		user.Name,
		user.FullName,
		user.Password,
		user.BirthDate,
		user.Role,
		user.Enabled,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrUserNameExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Addresses are removed by the FK cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.UserName,
		&user.Name,
		&user.FullName,
		&user.Password,
		&user.BirthDate,
		&user.Role,
		&user.Enabled,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
