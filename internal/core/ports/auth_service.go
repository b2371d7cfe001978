package ports

import (
	"context"

	"github.com/aegis-id/auth-service/internal/core/domain"
	"github.com/aegis-id/auth-service/internal/core/token"
)

// TokenPair bundles the two credentials returned by a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService covers the credential lifecycle: registration, login, token
// refresh and (when a denylist is configured) logout.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, claims *token.Claims) error
}

// UserService covers account administration and self-service reads.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
