// Package common defines shared constants and sentinel errors used across
// the airtime server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Engine lifecycle errors.
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")

	// Authorization errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Catalog / order flow errors.
	ErrPackageNotFound = errors.New("package not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyGranted  = errors.New("order already granted")
	ErrNotCredited     = errors.New("order not credited")

	// Payment errors. ErrInsufficientBalance is surfaced by the payment
	// processor, never generated by the engine itself.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
