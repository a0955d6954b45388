// Package common defines shared constants and sentinel errors used across
// client and server layers of the time capsule service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Crypto errors.
	ErrEmptyPassword        = errors.New("empty password")
	ErrInvalidKeyLength     = errors.New("invalid key length")
	ErrInvalidNonce         = errors.New("invalid nonce")
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
