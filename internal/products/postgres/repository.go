// Package postgres provides the PostgreSQL implementation of the products repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/products"
)

const uniqueViolation = "23505"

// Repository implements the products.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const productColumns = `id, name, description, price_cents, stock, category,
	brand, barcode, active, created_at, updated_at`

// Create inserts a new product. The partial unique index on barcode is the
// authoritative uniqueness guard.
func (r *Repository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price_cents, stock, category,
			brand, barcode, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.Name,
		product.Description,
		int64(product.Price),
		product.Stock,
		product.Category,
		product.Brand,
		product.Barcode,
		product.Active,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return products.ErrBarcodeExists
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, products.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// List retrieves all products ordered by id.
func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// ListActive retrieves all active products ordered by id.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE active ORDER BY id`)
}

// ListByCategory retrieves all products in a category ordered by id.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY id`,
		category,
	)
}

// SearchByName retrieves products whose name contains the substring,
// case-insensitive.
func (r *Repository) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE name ILIKE '%' || $1 || '%'`,
		name,
	)
}

// ExistsByBarcode reports whether another product already uses the barcode.
func (r *Repository) ExistsByBarcode(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE barcode = $1 AND id <> $2)`,
		barcode, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check barcode exists: %w", err)
	}
	return exists, nil
}

// Update overwrites all mutable fields of an existing product.
func (r *Repository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, stock = $5,
		    category = $6, brand = $7, barcode = $8, active = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		int64(product.Price),
		product.Stock,
		product.Category,
		product.Brand,
		product.Barcode,
		product.Active,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return products.ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return products.ErrBarcodeExists
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return products.ErrProductNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return list, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var priceCents int64
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&priceCents,
		&p.Stock,
		&p.Category,
		&p.Brand,
		&p.Barcode,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Price = domain.Cents(priceCents)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
