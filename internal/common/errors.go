// Package common defines shared constants and sentinel errors used across
// the server layers of jobscreen. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors.
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateUsername = errors.New("username already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Classification backend errors.
	ErrModelUnavailable = errors.New("no classifier backend available")

	// Persistence errors. Never retried automatically.
	ErrStoreIO = errors.New("store i/o error")

	// Archive export is not configured.
	ErrArchiveDisabled = errors.New("archive export is not configured")
)
