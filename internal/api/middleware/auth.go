package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aegis-id/auth-service/internal/api/metrics"
	"github.com/aegis-id/auth-service/internal/core/accesscontrol"
	"github.com/aegis-id/auth-service/internal/core/domain"
	"github.com/aegis-id/auth-service/internal/core/ports"
	"github.com/aegis-id/auth-service/internal/core/token"
)

// Context keys set by Authenticate and read by Require and the handlers.
const (
	ctxSecurityContext = "security_context"
	ctxClaims          = "auth_claims"
	ctxAuthFailure     = "auth_failure"
)

// Failure kinds recorded on the request when a presented token is rejected.
const (
	FailureMalformed    = "malformed"
	FailureBadSignature = "bad_signature"
	FailureExpired      = "expired"
	FailureRevoked      = "revoked"
)

// Authenticate extracts and validates the bearer token on every request.
//
// A missing or malformed Authorization header means anonymous, not an error:
// whether anonymity is acceptable is decided per route by Require. A token
// that fails validation likewise leaves the request anonymous, with the
// failure kind annotated so the deny path can tell "log in" from "refresh".
func Authenticate(tokens *token.Service, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return next(c)
			}

			claims, err := tokens.Validate(raw, time.Now().UTC())
			if err != nil {
				kind := failureKind(err)
				c.Set(ctxAuthFailure, kind)
				metrics.TokenValidationsTotal.WithLabelValues(kind).Inc()
				return next(c)
			}

			if denylist != nil {
				revoked, derr := denylist.IsRevoked(c.Request().Context(), claims.ID)
				if derr != nil {
					return derr
				}
				if revoked {
					c.Set(ctxAuthFailure, FailureRevoked)
					metrics.TokenValidationsTotal.WithLabelValues(FailureRevoked).Inc()
					return next(c)
				}
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			c.Set(ctxClaims, claims)
			c.Set(ctxSecurityContext, &accesscontrol.SecurityContext{
				UserID: claims.UserID(),
				Role:   claims.Role,
				Token:  raw,
			})
			return next(c)
		}
	}
}

// SecurityContextFrom returns the request's security context, or nil when
// the request is anonymous.
func SecurityContextFrom(c echo.Context) *accesscontrol.SecurityContext {
	sc, _ := c.Get(ctxSecurityContext).(*accesscontrol.SecurityContext)
	return sc
}

// ClaimsFrom returns the validated token claims, or nil when anonymous.
func ClaimsFrom(c echo.Context) *token.Claims {
	claims, _ := c.Get(ctxClaims).(*token.Claims)
	return claims
}

// AuthFailureFrom returns the recorded validation failure kind, or "".
func AuthFailureFrom(c echo.Context) string {
	kind, _ := c.Get(ctxAuthFailure).(string)
	return kind
}

// bearerToken parses an Authorization header value. Only the literal
// "Bearer <token>" shape yields a token; anything else reads as no token.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}
	return tok, true
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, domain.ErrTokenBadSignature):
		return FailureBadSignature
	default:
		return FailureMalformed
	}
}
