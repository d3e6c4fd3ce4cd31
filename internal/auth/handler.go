// Package auth provides credential login, registration and JWT issuance.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/pkg/httputil"
	"github.com/trajefino/api/internal/users"
)

// Handler handles HTTP requests for the auth module.
type Handler struct {
	service   *Service
	validator *validator.Validate
	loginRate func(http.Handler) http.Handler
}

// NewHandler creates a new auth handler. loginRate is applied to the
// login endpoint only; pass nil to disable throttling.
func NewHandler(service *Service, loginRate func(http.Handler) http.Handler) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
		loginRate: loginRate,
	}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.loginRate != nil {
				r.Use(h.loginRate)
			}
			r.Post("/login", h.Login)
		})
		r.Post("/register", h.Register)
	})
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the self-registration request body. The
// account is always created as a customer.
type RegisterRequest struct {
	UserName  string `json:"userName" validate:"required"`
	Name      string `json:"name"`
	FullName  string `json:"fullName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	BirthDate string `json:"birthDate"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, session)
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	session, err := h.service.Register(r.Context(), users.CreateUserInput{
		UserName:  req.UserName,
		Name:      req.Name,
		FullName:  req.FullName,
		Password:  req.Password,
		BirthDate: req.BirthDate,
		Role:      domain.RoleCustomer,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, session)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUserDisabled):
		httputil.Message(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, users.ErrUserNameExists),
		errors.Is(err, users.ErrUserNameRequired),
		errors.Is(err, users.ErrFullNameRequired),
		errors.Is(err, users.ErrPasswordRequired),
		errors.Is(err, users.ErrInvalidRole):
		httputil.Message(w, http.StatusBadRequest, err.Error())
	default:
		httputil.Internal(r.Context(), w, err)
	}
}
