// Package common defines shared constants and sentinel errors used across
// the layers of the hacking service. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")
	ErrStorage  = errors.New("storage failure")
	ErrExternal = errors.New("external failure")

	// Request shape / authorization errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Hack-session errors.
	ErrNoActiveSession        = errors.New("no active session")
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
