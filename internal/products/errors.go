package products

import "errors"

// Service errors.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrBarcodeExists   = errors.New("barcode already in use")
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidStock    = errors.New("stock cannot be negative")
)
