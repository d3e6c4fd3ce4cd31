// Package addresses provides the address service and its HTTP handlers.
package addresses

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/trajefino/api/internal/pkg/httputil"
)

// Handler handles HTTP requests for the addresses module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new addresses handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterRoutes registers address routes. All of them require an
// authenticated caller; no role restriction beyond that.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/address", func(r chi.Router) {
		r.Post("/", h.CreateAddress)
		r.Get("/user/{userId}", h.ListByUser)
		r.Get("/user/{userId}/default", h.GetDefault)
		r.Get("/{id}", h.GetAddress)
		r.Put("/{id}", h.ReplaceAddress)
		r.Patch("/{id}", h.PatchAddress)
		r.Patch("/{id}/set-default", h.SetDefault)
		r.Delete("/{id}", h.DeleteAddress)
	})
}

// AddressRequest represents the request body for creating or replacing an
// address.
type AddressRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,len=2"`
	ZipCode      string `json:"zipCode" validate:"required"`
	Country      string `json:"country"`
	AddressType  string `json:"addressType"`
	IsDefault    bool   `json:"isDefault"`
	UserID       int64  `json:"userId" validate:"required"`
}

// ToInput converts the request to a service input.
func (r *AddressRequest) ToInput() CreateAddressInput {
	return CreateAddressInput{
		Street:       r.Street,
		Number:       r.Number,
		Complement:   r.Complement,
		Neighborhood: r.Neighborhood,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
		Country:      r.Country,
		AddressType:  r.AddressType,
		IsDefault:    r.IsDefault,
		UserID:       r.UserID,
	}
}

// PatchAddressRequest represents a partial update body.
type PatchAddressRequest struct {
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zipCode"`
	Country      *string `json:"country"`
	AddressType  *string `json:"addressType"`
	IsDefault    *bool   `json:"isDefault"`
}

// errorMappings translates service errors into HTTP responses.
var errorMappings = []httputil.ErrorMapping{
	{Error: ErrAddressNotFound, Status: http.StatusNotFound},
	{Error: ErrUserNotFound, Status: http.StatusNotFound},
	{Error: ErrNoDefaultAddress, Status: http.StatusNotFound},
	{Error: ErrStreetRequired, Status: http.StatusBadRequest},
	{Error: ErrCityRequired, Status: http.StatusBadRequest},
	{Error: ErrZipCodeRequired, Status: http.StatusBadRequest},
	{Error: ErrUserIDRequired, Status: http.StatusBadRequest},
	{Error: ErrStateLength, Status: http.StatusBadRequest},
}

// CreateAddress handles POST /address.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	address, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// ListByUser handles GET /address/user/{userId}.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.int64Param(w, r, "userId")
	if !ok {
		return
	}

	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, list)
}

// GetDefault handles GET /address/user/{userId}/default.
func (h *Handler) GetDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.int64Param(w, r, "userId")
	if !ok {
		return
	}

	address, err := h.service.GetDefault(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// GetAddress handles GET /address/{id}.
func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.int64Param(w, r, "id")
	if !ok {
		return
	}

	address, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// ReplaceAddress handles PUT /address/{id}.
func (h *Handler) ReplaceAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.int64Param(w, r, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	address, err := h.service.Replace(r.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// PatchAddress handles PATCH /address/{id}.
func (h *Handler) PatchAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.int64Param(w, r, "id")
	if !ok {
		return
	}

	var req PatchAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	address, err := h.service.PartialUpdate(r.Context(), id, UpdateAddressInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// SetDefault handles PATCH /address/{id}/set-default.
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := h.int64Param(w, r, "id")
	if !ok {
		return
	}

	address, err := h.service.SetDefault(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, address)
}

// DeleteAddress handles DELETE /address/{id}.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
