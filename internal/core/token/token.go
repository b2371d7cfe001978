// Package token issues and validates the signed bearer tokens that carry a
// user's identity and role. Tokens are HS256 JWTs signed with a single
// process-wide secret; nothing is persisted, so a token is valid exactly as
// long as its signature holds and its expiry has not passed.
//
// Every operation takes the current time explicitly. The package never reads
// the wall clock itself, which keeps expiry behaviour fully testable.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aegis-id/auth-service/internal/core/domain"
)

// Kind distinguishes short-lived access tokens from the longer-lived
// refresh tokens that can mint them.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the facts embedded in a token. Role is a snapshot taken at
// issuance time and can be stale relative to the store.
type Claims struct {
	Role domain.Role `json:"role"`
	Kind Kind        `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string { return c.Subject }

// RemainingTTL returns how long the token stays valid from now.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// Service signs and verifies tokens with a fixed secret and per-kind TTLs.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService constructs a token Service. TTLs that are zero or negative
// fall back to 15 minutes for access and 24 hours for refresh tokens.
func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs a token of the given kind for userID. issued-at is now,
// expires-at is now plus the kind's TTL, and the jti is a fresh uuid.
func (s *Service) Issue(userID string, role domain.Role, kind Kind, now time.Time) (string, error) {
	ttl := s.accessTTL
	if kind == KindRefresh {
		ttl = s.refreshTTL
	}

	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks raw in order: structure, signature, expiry against now.
// The returned error wraps exactly one of domain.ErrTokenMalformed,
// domain.ErrTokenBadSignature or domain.ErrTokenExpired.
func (s *Service) Validate(raw string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

// Refresh validates raw and, when it is a currently valid refresh token,
// issues a brand-new access token carrying the same subject and role with a
// fresh issued-at/expires-at pair.
//
// The old token must still be valid: an expired refresh token fails with
// ErrTokenExpired rather than being honoured within a grace window, since a
// grace window would let an attacker extend a session indefinitely. The role
// copied into the new token is the snapshot from the old claims; the store
// is deliberately not consulted.
func (s *Service) Refresh(raw string, now time.Time) (string, error) {
	claims, err := s.Validate(raw, now)
	if err != nil {
		return "", err
	}
	if claims.Kind != KindRefresh {
		return "", domain.ErrTokenWrongType
	}
	return s.Issue(claims.Subject, claims.Role, KindAccess, now)
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}

// classify maps jwt parse failures onto the domain token error taxonomy.
// Structural problems win over signature problems, which win over expiry,
// matching the order the checks run in.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", domain.ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}
