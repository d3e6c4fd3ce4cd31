package products

import (
	"context"

	"github.com/trajefino/api/internal/domain"
)

// Repository defines the interface for product data operations.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchByName(ctx context.Context, name string) ([]domain.Product, error)
	ExistsByBarcode(ctx context.Context, barcode string, excludeID int64) (bool, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}
