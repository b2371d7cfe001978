package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-id/auth-service/internal/core/domain"
	"github.com/aegis-id/auth-service/internal/core/password"
	"github.com/aegis-id/auth-service/internal/core/ports"
	"github.com/aegis-id/auth-service/internal/core/token"
)

const minPasswordLength = 8

// AuthService implements registration, login, refresh and logout.
type AuthService struct {
	repo     ports.UserRepository
	hasher   *password.Hasher
	tokens   *token.Service
	denylist ports.TokenDenylist
	logger   zerolog.Logger
}

// NewAuthService wires the credential store, hasher and token service
// together. denylist may be nil, in which case logout is a no-op and tokens
// remain valid until expiry.
func NewAuthService(repo ports.UserRepository, hasher *password.Hasher, tokens *token.Service, denylist ports.TokenDenylist, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, denylist: denylist, logger: logger}
}

// Register creates a new account with role user. The role is fixed here, at
// the service boundary: no field of the inbound request can influence it, so
// a payload smuggling "role": "admin" still produces a regular user.
func (s *AuthService) Register(ctx context.Context, name, email, pass string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}
	if len(pass) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and, on success, issues an access/refresh
// token pair carrying the user's current id and role.
//
// Unknown email and wrong password are deliberately indistinguishable: both
// return domain.ErrInvalidCredentials, and the unknown-email path burns a
// bcrypt comparison so the two failures cost the same time.
func (s *AuthService) Login(ctx context.Context, email, pass string) (ports.TokenPair, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			s.hasher.DummyVerify(pass)
			return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return ports.TokenPair{}, nil, err
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	access, err := s.tokens.Issue(user.ID, user.Role, token.KindAccess, now)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}
	refresh, err := s.tokens.Issue(user.ID, user.Role, token.KindRefresh, now)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token. The store
// is not consulted: the new token carries the role snapshot from the old
// claims, so a promotion or demotion only takes effect at the next login.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, error) {
	now := time.Now().UTC()

	if s.denylist != nil {
		claims, err := s.tokens.Validate(raw, now)
		if err != nil {
			return "", err
		}
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("denylist check: %w", err)
		}
		if revoked {
			return "", domain.ErrTokenRevoked
		}
	}

	return s.tokens.Refresh(raw, now)
}

// Logout denylists the presented token's jti for its remaining lifetime.
// Without a configured denylist the service stays fully stateless and
// logout has no server-side effect.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	if s.denylist == nil || claims == nil {
		return nil
	}
	ttl := claims.RemainingTTL(time.Now().UTC())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("user_id", claims.UserID()).Msg("token revoked")
	return nil
}

// EnsureAdmin creates an initial admin account when none exists for the
// given email. Called once at startup from configuration; this is the only
// path besides ChangeRole that produces an admin role.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, pass string) error {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !isNotFound(err) {
		return err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("bootstrap admin created")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound)
}
