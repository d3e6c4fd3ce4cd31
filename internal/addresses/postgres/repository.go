// Package postgres provides the PostgreSQL implementation of the addresses repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trajefino/api/internal/addresses"
	"github.com/trajefino/api/internal/domain"
)

// Repository implements the addresses.Repository interface using PostgreSQL.
//
// Mutations that mark an address as default run inside a transaction that
// first demotes the owner's other addresses, so the partial unique index on
// (user_id) WHERE is_default never sees two defaults.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const addressColumns = `id, street, number, complement, neighborhood, city, state,
	zip_code, country, address_type, is_default, user_id, created_at, updated_at`

// Create inserts a new address, demoting sibling defaults first when needed.
func (r *Repository) Create(ctx context.Context, address *domain.Address) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if address.IsDefault {
		if err := clearDefaults(ctx, tx, address.UserID, 0); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO addresses (street, number, complement, neighborhood, city,
			state, zip_code, country, address_type, is_default, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		address.Street,
		address.Number,
		address.Complement,
		address.Neighborhood,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.AddressType,
		address.IsDefault,
		address.UserID,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create address: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an address by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	address, err := scanAddress(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, addresses.ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address by id: %w", err)
	}
	return address, nil
}

// GetDefaultByUser retrieves the default address of a user.
func (r *Repository) GetDefaultByUser(ctx context.Context, userID int64) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND is_default`

	address, err := scanAddress(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, addresses.ErrNoDefaultAddress
		}
		return nil, fmt.Errorf("get default address: %w", err)
	}
	return address, nil
}

// ListByUser retrieves all addresses of a user in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Address, 0)
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, *address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return list, nil
}

// Update overwrites all mutable fields of an existing address, demoting
// sibling defaults first when the address becomes the default.
func (r *Repository) Update(ctx context.Context, address *domain.Address) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if address.IsDefault {
		if err := clearDefaults(ctx, tx, address.UserID, address.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE addresses
		SET street = $2, number = $3, complement = $4, neighborhood = $5,
		    city = $6, state = $7, zip_code = $8, country = $9,
		    address_type = $10, is_default = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, query,
		address.ID,
		address.Street,
		address.Number,
		address.Complement,
		address.Neighborhood,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.AddressType,
		address.IsDefault,
	).Scan(&address.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return addresses.ErrAddressNotFound
		}
		return fmt.Errorf("update address: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete removes an address. No new default is elected.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	if result.RowsAffected() == 0 {
		return addresses.ErrAddressNotFound
	}
	return nil
}

// SetDefault atomically makes the address the single default of its owner.
func (r *Repository) SetDefault(ctx context.Context, id int64) (*domain.Address, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var userID int64
	err = tx.QueryRow(ctx, `SELECT user_id FROM addresses WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, addresses.ErrAddressNotFound
		}
		return nil, fmt.Errorf("lock address: %w", err)
	}

	if err := clearDefaults(ctx, tx, userID, id); err != nil {
		return nil, err
	}

	query := `
		UPDATE addresses
		SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + addressColumns

	address, err := scanAddress(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return address, nil
}

func clearDefaults(ctx context.Context, tx pgx.Tx, userID, keepID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE addresses
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_default AND id <> $2
	`, userID, keepID)
	if err != nil {
		return fmt.Errorf("clear default addresses: %w", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID,
		&a.Street,
		&a.Number,
		&a.Complement,
		&a.Neighborhood,
		&a.City,
		&a.State,
		&a.ZipCode,
		&a.Country,
		&a.AddressType,
		&a.IsDefault,
		&a.UserID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
