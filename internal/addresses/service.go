package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/users"
)

// Service implements address business logic.
type Service struct {
	repo  Repository
	users UserResolver
}

// NewService creates a new address service.
func NewService(repo Repository, users UserResolver) *Service {
	return &Service{repo: repo, users: users}
}

// CreateAddressInput holds data for creating or replacing an address.
type CreateAddressInput struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
	Country      string
	AddressType  string
	IsDefault    bool
	UserID       int64
}

// UpdateAddressInput holds data for a partial update. Nil fields are left
// untouched; blank strings are treated as omitted (except IsDefault, where
// an explicit false is honored).
type UpdateAddressInput struct {
	Street       *string
	Number       *string
	Complement   *string
	Neighborhood *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	AddressType  *string
	IsDefault    *bool
}

// Create validates and persists a new address for an existing user. When the
// address is marked default, the repository demotes the user's other
// addresses in the same transaction.
func (s *Service) Create(ctx context.Context, input CreateAddressInput) (*domain.Address, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if err := s.resolveUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = domain.DefaultCountry
	}

	address := &domain.Address{
		Street:       input.Street,
		Number:       input.Number,
		Complement:   input.Complement,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Country:      country,
		AddressType:  input.AddressType,
		IsDefault:    input.IsDefault,
		UserID:       input.UserID,
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// Replace overwrites all mutable fields of an existing address. The owning
// user is never changed.
func (s *Service) Replace(ctx context.Context, id int64, input CreateAddressInput) (*domain.Address, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	address, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	address.Street = input.Street
	address.Number = input.Number
	address.Complement = input.Complement
	address.Neighborhood = input.Neighborhood
	address.City = input.City
	address.State = input.State
	address.ZipCode = input.ZipCode
	address.Country = input.Country
	address.AddressType = input.AddressType
	address.IsDefault = input.IsDefault

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// PartialUpdate copies only the provided non-blank fields onto the existing
// record. A provided state must have exactly 2 characters.
func (s *Service) PartialUpdate(ctx context.Context, id int64, input UpdateAddressInput) (*domain.Address, error) {
	address, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if provided(input.Street) {
		address.Street = *input.Street
	}
	if input.Number != nil {
		address.Number = *input.Number
	}
	if input.Complement != nil {
		address.Complement = *input.Complement
	}
	if provided(input.Neighborhood) {
		address.Neighborhood = *input.Neighborhood
	}
	if provided(input.City) {
		address.City = *input.City
	}
	if provided(input.State) {
		if len(*input.State) != 2 {
			return nil, ErrStateLength
		}
		address.State = *input.State
	}
	if provided(input.ZipCode) {
		address.ZipCode = *input.ZipCode
	}
	if provided(input.Country) {
		address.Country = *input.Country
	}
	if provided(input.AddressType) {
		address.AddressType = *input.AddressType
	}
	if input.IsDefault != nil {
		address.IsDefault = *input.IsDefault
	}

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes an address unconditionally. No new default is elected.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// SetDefault makes the address the single default for its owner.
func (s *Service) SetDefault(ctx context.Context, id int64) (*domain.Address, error) {
	return s.repo.SetDefault(ctx, id)
}

// GetByID returns a single address.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	return s.repo.GetByID(ctx, id)
}

// GetDefault returns the default address of a user.
func (s *Service) GetDefault(ctx context.Context, userID int64) (*domain.Address, error) {
	return s.repo.GetDefaultByUser(ctx, userID)
}

// ListByUser returns all addresses owned by an existing user, in insertion
// order.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	if err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) resolveUser(ctx context.Context, userID int64) error {
	_, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return nil
	}
	if errors.Is(err, users.ErrUserNotFound) {
		return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	return fmt.Errorf("resolve user %d: %w", userID, err)
}

func validateCreateInput(input CreateAddressInput) error {
	if strings.TrimSpace(input.Street) == "" {
		return ErrStreetRequired
	}
	if strings.TrimSpace(input.City) == "" {
		return ErrCityRequired
	}
	if len(strings.TrimSpace(input.State)) != 2 {
		return ErrStateLength
	}
	if strings.TrimSpace(input.ZipCode) == "" {
		return ErrZipCodeRequired
	}
	if input.UserID == 0 {
		return ErrUserIDRequired
	}
	return nil
}

func provided(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
