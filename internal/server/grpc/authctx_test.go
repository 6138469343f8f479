package grpcserver

import (
	"context"
	"testing"

	"github.com/and161185/fittrack/internal/session"
)

func TestWithScope_And_ScopeFromCtx(t *testing.T) {
	t.Parallel()

	if _, ok := ScopeFromCtx(context.Background()); ok {
		t.Fatalf("expected no scope in empty ctx")
	}

	want := Scope{IdentityID: "guest_1", IsGuest: true}
	got, ok := ScopeFromCtx(WithScope(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("mismatch: got %+v, want %+v", got, want)
	}

	if _, ok := ScopeFromCtx(WithScope(context.Background(), Scope{})); ok {
		t.Fatalf("empty identity must not count as scope")
	}

	bad := context.WithValue(context.Background(), scopeKey, "not-a-scope")
	if _, ok := ScopeFromCtx(bad); ok {
		t.Fatalf("expected miss on wrong typed value")
	}
}

func TestSessionChanges(t *testing.T) {
	t.Parallel()

	// no carrier: no panic
	setSession(context.Background(), session.State{IdentityID: "x"})
	clearSession(context.Background())

	c := &carrier{}
	ctx := withCarrier(context.Background(), c)
	setSession(ctx, session.State{IdentityID: "u-1"})
	if c.next == nil || c.next.IdentityID != "u-1" || c.destroy {
		t.Fatalf("set: %+v", c)
	}
	clearSession(ctx)
	if c.next != nil || !c.destroy {
		t.Fatalf("clear: %+v", c)
	}
	setSession(ctx, session.State{IdentityID: "u-2"})
	if c.destroy {
		t.Fatalf("set after clear must cancel destroy")
	}
}
