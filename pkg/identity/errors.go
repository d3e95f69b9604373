package identity

import "errors"

var (
	ErrMissingToken      = errors.New("identity: missing bearer token")
	ErrInvalidToken      = errors.New("identity: invalid token")
	ErrExpiredToken      = errors.New("identity: token expired")
	ErrInvalidClaims     = errors.New("identity: invalid claims")
	ErrInvalidSigningKey = errors.New("identity: signing key must be at least 32 bytes")
)
