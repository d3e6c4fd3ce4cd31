package users

import (
	"context"

	"github.com/trajefino/api/internal/domain"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
