package grpcserver

import (
	"context"

	"github.com/and161185/fittrack/internal/session"
)

type ctxKey string

const (
	scopeKey   ctxKey = "ft.scope"
	carrierKey ctxKey = "ft.session"
)

// Scope is the identity a request acts as.
type Scope struct {
	IdentityID string
	IsGuest    bool
	Username   string // registered identities only
}

// WithScope stores the resolved identity in context.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// ScopeFromCtx fetches the resolved identity from context.
func ScopeFromCtx(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey).(Scope)
	return s, ok && s.IdentityID != ""
}

// carrier collects the session changes of one call; the session interceptor persists them afterwards.
type carrier struct {
	ticket  string
	loaded  session.State
	next    *session.State
	destroy bool
}

func withCarrier(ctx context.Context, c *carrier) context.Context {
	return context.WithValue(ctx, carrierKey, c)
}

func carrierFromCtx(ctx context.Context) *carrier {
	c, _ := ctx.Value(carrierKey).(*carrier)
	return c
}

// setSession schedules st to be written to the caller's session.
func setSession(ctx context.Context, st session.State) {
	if c := carrierFromCtx(ctx); c != nil {
		c.next, c.destroy = &st, false
	}
}

// clearSession schedules the caller's session for removal.
func clearSession(ctx context.Context) {
	if c := carrierFromCtx(ctx); c != nil {
		c.next, c.destroy = nil, true
	}
}
