package domain

import "errors"

var (
	// ErrInvalidInput covers empty or malformed registration fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is the single externally visible login failure.
	// Unknown email and wrong password both map here so responses cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken signals a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound signals a lookup miss by id.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden signals a valid identity with insufficient privilege.
	ErrForbidden = errors.New("access forbidden")
	// ErrUnauthenticated signals a missing or unusable identity.
	ErrUnauthenticated = errors.New("authentication required")
)

// Token validation failures. Callers react differently to each kind:
// expired prompts a refresh, the other two a re-login.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrTokenWrongType    = errors.New("wrong token type")
)
