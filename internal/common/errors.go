// Package common defines shared constants and sentinel errors used across
// the falconusers server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation error")

	// Credential hashing failure (entropy or resource exhaustion).
	ErrHashing = errors.New("password hashing failed")

	// Auth errors (invalid, malformed or wrongly signed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is always reported together with ErrInvalidToken, so
	// errors.Is(err, ErrInvalidToken) holds for expired tokens as well.
	ErrTokenExpired = errors.New("token expired")
)
