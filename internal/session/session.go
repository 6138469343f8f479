// Package session persists the per-client session state: which identity the client is and whether it is a guest.
//
// The state travels as an opaque ticket. A backend either keeps the state server-side
// and hands out a random ticket (Redis, Memory) or encodes the state in a signed ticket (Token).
package session

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultTTL bounds how long an idle session survives.
const DefaultTTL = 30 * 24 * time.Hour

// State is the whole session payload.
type State struct {
	IdentityID string `json:"identityId"`
	IsGuest    bool   `json:"isGuest"`
}

// Empty reports whether the state names no identity.
func (s State) Empty() bool { return s.IdentityID == "" }

// Store loads and saves session state by ticket.
type Store interface {
	// Load returns the state for ticket. Unknown, expired or malformed tickets yield an empty State and no error.
	Load(ctx context.Context, ticket string) (State, error)
	// Save persists st and returns the ticket the client must present next time.
	Save(ctx context.Context, ticket string, st State) (string, error)
	// Destroy discards the state behind ticket.
	Destroy(ctx context.Context, ticket string) error
}

func newTicket() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
