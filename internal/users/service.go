package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/trajefino/api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Service implements user account business logic.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUserInput holds data for creating or replacing a user.
type CreateUserInput struct {
	UserName  string
	Name      string
	FullName  string
	Password  string
	BirthDate string
	Role      domain.Role
}

// UpdateUserInput holds data for a partial update. Nil fields are left
// untouched; blank strings are treated as omitted.
type UpdateUserInput struct {
	UserName  *string
	Name      *string
	FullName  *string
	Password  *string
	BirthDate *string
	Role      *domain.Role
}

// Register creates a new account. The username must be unused; the role
// defaults to CUSTOMER when unspecified.
func (s *Service) Register(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUserName(ctx, input.UserName)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrUserNameExists
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	user := &domain.User{
		UserName:  input.UserName,
		Name:      input.Name,
		FullName:  input.FullName,
		Password:  hash,
		BirthDate: input.BirthDate,
		Role:      role,
		Enabled:   true,
	}

	// The unique constraint on user_name remains the authoritative guard;
	// the pre-check above only produces a friendlier fast-path rejection.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Create persists a full new user record. Same contract as Register.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	return s.Register(ctx, input)
}

// Replace overwrites all mutable fields of an existing user.
func (s *Service) Replace(ctx context.Context, id int64, input CreateUserInput) (*domain.User, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.UserName != user.UserName {
		exists, err := s.repo.ExistsByUserName(ctx, input.UserName)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if exists {
			return nil, ErrUserNameExists
		}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	user.UserName = input.UserName
	user.Name = input.Name
	user.FullName = input.FullName
	user.Password = hash
	user.BirthDate = input.BirthDate
	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// PartialUpdate copies only the provided non-blank fields onto the existing
// record. The password is re-hashed when present.
func (s *Service) PartialUpdate(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if provided(input.UserName) && *input.UserName != user.UserName {
		exists, err := s.repo.ExistsByUserName(ctx, *input.UserName)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if exists {
			return nil, ErrUserNameExists
		}
		user.UserName = *input.UserName
	}
	if provided(input.Name) {
		user.Name = *input.Name
	}
	if provided(input.FullName) {
		user.FullName = *input.FullName
	}
	if provided(input.BirthDate) {
		user.BirthDate = *input.BirthDate
	}
	if input.Role != nil && *input.Role != "" {
		if !input.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if provided(input.Password) {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single user.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUserName returns a single user looked up by username.
func (s *Service) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return s.repo.GetByUserName(ctx, userName)
}

// Delete removes a user. Owned addresses are removed by the FK cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// CheckPassword compares a plain text password against the stored hash.
func (s *Service) CheckPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func validateCreateInput(input CreateUserInput) error {
	if strings.TrimSpace(input.UserName) == "" {
		return ErrUserNameRequired
	}
	if strings.TrimSpace(input.FullName) == "" {
		return ErrFullNameRequired
	}
	if strings.TrimSpace(input.Password) == "" {
		return ErrPasswordRequired
	}
	if input.Role != "" && !input.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

func provided(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
