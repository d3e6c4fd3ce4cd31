// Package products provides the product catalog service and its HTTP handlers.
package products

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/pkg/httputil"
)

// Handler handles HTTP requests for the products module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new products handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterRoutes registers product routes. All of them require an
// authenticated caller; no role restriction beyond that.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/active", h.ListActiveProducts)
		r.Get("/search", h.SearchProducts)
		r.Get("/category/{category}", h.ListByCategory)
		r.Get("/{id}", h.GetProduct)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.ReplaceProduct)
		r.Patch("/{id}", h.PatchProduct)
		r.Patch("/{id}/deactivate", h.DeactivateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// ProductRequest represents the request body for creating or replacing a
// product.
type ProductRequest struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Price       domain.Cents `json:"price" validate:"required,gt=0"`
	Stock       *int         `json:"stock" validate:"omitempty,gte=0"`
	Category    string       `json:"category"`
	Brand       string       `json:"brand"`
	Barcode     string       `json:"barcode"`
	Active      *bool        `json:"active"`
}

// ToInput converts the request to a service input.
func (r *ProductRequest) ToInput() CreateProductInput {
	return CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Brand:       r.Brand,
		Barcode:     r.Barcode,
		Active:      r.Active,
	}
}

// PatchProductRequest represents a partial update body.
type PatchProductRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *domain.Cents `json:"price"`
	Stock       *int          `json:"stock"`
	Category    *string       `json:"category"`
	Brand       *string       `json:"brand"`
	Barcode     *string       `json:"barcode"`
	Active      *bool         `json:"active"`
}

// errorMappings translates service errors into HTTP responses.
var errorMappings = []httputil.ErrorMapping{
	{Error: ErrProductNotFound, Status: http.StatusNotFound},
	{Error: ErrBarcodeExists, Status: http.StatusBadRequest},
	{Error: ErrNameRequired, Status: http.StatusBadRequest},
	{Error: ErrInvalidPrice, Status: http.StatusBadRequest},
	{Error: ErrInvalidStock, Status: http.StatusBadRequest},
}

// ListProducts handles GET /product.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// ListActiveProducts handles GET /product/active.
func (h *Handler) ListActiveProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActive(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// SearchProducts handles GET /product/search?name=.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.FieldErrors(w, map[string]string{"name": "required"})
		return
	}

	list, err := h.service.SearchByName(r.Context(), name)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// ListByCategory handles GET /product/category/{category}.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// GetProduct handles GET /product/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.JSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// ReplaceProduct handles PUT /product/{id}.
func (h *Handler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.Replace(r.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// PatchProduct handles PATCH /product/{id}.
func (h *Handler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req PatchProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	product, err := h.service.PartialUpdate(r.Context(), id, UpdateProductInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// DeactivateProduct handles PATCH /product/{id}/deactivate.
func (h *Handler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	product, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /product/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
