package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/trajefino/api/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service implements product catalog business logic.
type Service struct {
	repo     Repository
	collator *collate.Collator
}

// NewService creates a new product service. Search results are ordered with
// Brazilian Portuguese collation so accented names sort where users expect.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		collator: collate.New(language.BrazilianPortuguese, collate.IgnoreCase),
	}
}

// CreateProductInput holds data for creating or replacing a product. Stock
// and Active distinguish omitted from explicit zero values.
type CreateProductInput struct {
	Name        string
	Description string
	Price       domain.Cents
	Stock       *int
	Category    string
	Brand       string
	Barcode     string
	Active      *bool
}

// UpdateProductInput holds data for a partial update. Nil fields are left
// untouched; blank strings are treated as omitted.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *domain.Cents
	Stock       *int
	Category    *string
	Brand       *string
	Barcode     *string
	Active      *bool
}

// Create validates and persists a new product. Stock defaults to 0 and
// active to true when unspecified.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if err := s.checkBarcode(ctx, input.Barcode, 0); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Brand:       input.Brand,
		Barcode:     input.Barcode,
		Active:      true,
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	// The partial unique index on barcode remains the authoritative guard;
	// checkBarcode above only produces a friendlier fast-path rejection.
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Replace overwrites all fields of an existing product.
func (s *Service) Replace(ctx context.Context, id int64, input CreateProductInput) (*domain.Product, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkBarcode(ctx, input.Barcode, id); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.Brand = input.Brand
	product.Barcode = input.Barcode
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	product.Active = true
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// PartialUpdate copies only the provided fields onto the existing record,
// applying the same per-field constraints as Create.
func (s *Service) PartialUpdate(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if provided(input.Name) {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if provided(input.Category) {
		product.Category = *input.Category
	}
	if provided(input.Brand) {
		product.Brand = *input.Brand
	}
	if provided(input.Barcode) {
		if *input.Barcode != product.Barcode {
			if err := s.checkBarcode(ctx, *input.Barcode, id); err != nil {
				return nil, err
			}
		}
		product.Barcode = *input.Barcode
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product unconditionally.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Deactivate marks a product inactive without deleting it.
func (s *Service) Deactivate(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Active = false
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID returns a single product.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// ListActive returns all active products.
func (s *Service) ListActive(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListActive(ctx)
}

// ListByCategory returns all products in a category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// SearchByName returns products whose name contains the given substring,
// case-insensitive, ordered by name with pt-BR collation.
func (s *Service) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	list, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}

	s.collator.Sort(byName(list))
	return list, nil
}

func (s *Service) checkBarcode(ctx context.Context, barcode string, excludeID int64) error {
	if strings.TrimSpace(barcode) == "" {
		return nil
	}

	exists, err := s.repo.ExistsByBarcode(ctx, barcode, excludeID)
	if err != nil {
		return fmt.Errorf("check barcode: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrBarcodeExists, barcode)
	}
	return nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func provided(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// byName adapts a product slice to collate.Sort.
type byName []domain.Product

func (b byName) Len() int           { return len(b) }
func (b byName) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b byName) Bytes(i int) []byte { return []byte(b[i].Name) }
