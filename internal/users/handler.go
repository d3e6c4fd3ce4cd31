// Package users provides the user account service and its HTTP handlers.
package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/pkg/httputil"
)

// Handler handles HTTP requests for the users module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterOperatorRoutes registers routes available to operators and admins.
func (h *Handler) RegisterOperatorRoutes(r chi.Router) {
	r.Get("/user", h.ListUsers)
}

// RegisterAdminRoutes registers routes restricted to admins.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/user", h.CreateUser)
	r.Get("/user/{id}", h.GetUser)
	r.Put("/user/{id}", h.ReplaceUser)
	r.Patch("/user/{id}", h.PatchUser)
	r.Delete("/user/{id}", h.DeleteUser)
}

// UserRequest represents the request body for creating or replacing a user.
type UserRequest struct {
	UserName  string `json:"userName" validate:"required"`
	Name      string `json:"name"`
	FullName  string `json:"fullName" validate:"required"`
	Password  string `json:"password" validate:"required"`
	BirthDate string `json:"birthDate"`
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN OPERATOR CUSTOMER"`
}

// ToInput converts the request to a service input.
func (r *UserRequest) ToInput() CreateUserInput {
	return CreateUserInput{
		UserName:  r.UserName,
		Name:      r.Name,
		FullName:  r.FullName,
		Password:  r.Password,
		BirthDate: r.BirthDate,
		Role:      domain.Role(r.Role),
	}
}

// PatchUserRequest represents a partial update body. Omitted fields keep
// their current values.
type PatchUserRequest struct {
	UserName  *string `json:"userName"`
	Name      *string `json:"name"`
	FullName  *string `json:"fullName"`
	Password  *string `json:"password"`
	BirthDate *string `json:"birthDate"`
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN OPERATOR CUSTOMER"`
}

// ListUsers handles GET /user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// GetUser handles GET /user/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

// CreateUser handles POST /user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// ReplaceUser handles PUT /user/{id}.
func (h *Handler) ReplaceUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.Replace(r.Context(), id, req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// PatchUser handles PATCH /user/{id}.
func (h *Handler) PatchUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req PatchUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := UpdateUserInput{
		UserName:  req.UserName,
		Name:      req.Name,
		FullName:  req.FullName,
		Password:  req.Password,
		BirthDate: req.BirthDate,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.service.PartialUpdate(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /user/{id}. Owned addresses go with the user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
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

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, ErrUserNameExists),
		errors.Is(err, ErrUserNameRequired),
		errors.Is(err, ErrFullNameRequired),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrInvalidRole):
		httputil.Message(w, http.StatusBadRequest, err.Error())
	default:
		httputil.Internal(r.Context(), w, err)
	}
}
