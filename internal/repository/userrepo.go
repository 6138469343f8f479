// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/fittrack/internal/model"
)

// UserRepository provides access to identities, guest and registered.
type UserRepository interface {
	// GetUser loads an identity by id. Returns errs.ErrNotFound if missing.
	GetUser(ctx context.Context, id string) (model.Identity, error)
	// GetUserByUsername loads a registered identity by username. Guests are never returned.
	GetUserByUsername(ctx context.Context, username string) (model.Identity, error)
	// CreateUser inserts an identity with a caller-assigned id.
	// Returns errs.ErrAlreadyExists on id collision or a taken registered username.
	CreateUser(ctx context.Context, u model.Identity) (model.Identity, error)
}
