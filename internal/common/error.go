// Package common defines shared constants and sentinel errors used across
// the StickerFind services. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors are raised before any mutation.
	ErrorValidation = errors.New("validation error")

	// Conflict errors. A lost claim race and a duplicate signup email are
	// distinguishable from ErrorNotFound so callers can report
	// "already taken" rather than "invalid code".
	ErrorAlreadyClaimed = errors.New("qr code already claimed")
	ErrorEmailExists    = errors.New("email already registered")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
