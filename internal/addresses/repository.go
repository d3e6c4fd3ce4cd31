package addresses

import (
	"context"

	"github.com/trajefino/api/internal/domain"
)

// Repository defines the interface for address data operations.
//
// Create, Update and SetDefault must clear the default flag on the owner's
// other addresses in the same transaction whenever they mark an address as
// default, so the one-default-per-user invariant holds under concurrency.
type Repository interface {
	Create(ctx context.Context, address *domain.Address) error
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
	GetDefaultByUser(ctx context.Context, userID int64) (*domain.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Address, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) (*domain.Address, error)
}

// UserResolver checks that the owning user exists. Implemented by the users
// service.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
