// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist (or belongs to another identity).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation in the store.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUsernameTaken indicates a registered identity already uses the username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials indicates unknown username or wrong password. The two are never distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPersistence indicates the record store failed to complete an operation.
	ErrPersistence = errors.New("persistence failure")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidArgument indicates malformed input rejected before reaching the store.
	ErrInvalidArgument = errors.New("invalid argument")
)
