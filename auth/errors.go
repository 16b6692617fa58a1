package auth

import "errors"

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and expired tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnauthenticated is returned when a request carries no usable bearer token.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrForbidden is returned when an authenticated caller fails a self or role check.
	ErrForbidden = errors.New("auth: forbidden")
)

const (
	msgUnauthorizedAccess = "unauthorized access"
	msgForbiddenAccess    = "forbidden access"
)
