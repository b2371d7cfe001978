package ports

import (
	"context"
	"time"
)

// TokenDenylist records revoked token ids until their natural expiry. The
// base token path is stateless; the denylist is an optional hardening that
// gives logout real teeth. A nil denylist disables revocation entirely.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
