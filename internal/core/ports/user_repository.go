package ports

import (
	"context"

	"github.com/aegis-id/auth-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user records. Email
// uniqueness is enforced by the store; Create surfaces a duplicate as
// domain.ErrEmailTaken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.User, error)
}
