package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ticketClaims struct {
	Guest bool `json:"guest"`
	jwt.RegisteredClaims
}

// TokenStore encodes the state into an HS256-signed ticket. Nothing is kept server-side,
// so Destroy only relies on the client dropping its ticket.
type TokenStore struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

var _ Store = (*TokenStore)(nil)

// NewTokenStore constructs a signed-ticket store. ttl <= 0 means DefaultTTL.
func NewTokenStore(signKey []byte, ttl time.Duration) (*TokenStore, error) {
	if len(signKey) == 0 {
		return nil, errors.New("session: empty signing key")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenStore{key: signKey, ttl: ttl, now: time.Now}, nil
}

// Load verifies ticket and returns the state it carries.
func (s *TokenStore) Load(_ context.Context, ticket string) (State, error) {
	if ticket == "" {
		return State{}, nil
	}
	var c ticketClaims
	_, err := jwt.ParseWithClaims(ticket, &c, func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || c.Subject == "" {
		return State{}, nil
	}
	return State{IdentityID: c.Subject, IsGuest: c.Guest}, nil
}

// Save signs st into a fresh ticket; the old ticket is not consulted.
func (s *TokenStore) Save(_ context.Context, _ string, st State) (string, error) {
	now := s.now()
	c := ticketClaims{
		Guest: st.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   st.IdentityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
}

// Destroy is a no-op.
func (s *TokenStore) Destroy(context.Context, string) error { return nil }
