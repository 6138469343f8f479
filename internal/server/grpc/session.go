package grpcserver

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/and161185/fittrack/internal/api"
	"github.com/and161185/fittrack/internal/service"
	"github.com/and161185/fittrack/internal/session"
)

// Resolver maps session state to the identity a request acts as.
type Resolver interface {
	EnsureIdentity(ctx context.Context, st session.State) (service.Resolution, error)
}

var (
	// publicMethods need no session at all.
	publicMethods = map[string]bool{
		api.FullMethod(api.MethodListExercises):  true,
		api.FullMethod(api.MethodCreateExercise): true,
	}
	// unresolvedMethods read and write the session but never mint a guest.
	unresolvedMethods = map[string]bool{
		api.FullMethod(api.MethodLogin):  true,
		api.FullMethod(api.MethodLogout): true,
	}
)

var errSession = status.Error(codes.Internal, "session error")

// SessionUnary loads the caller's session, resolves it to an identity placed in the context
// as a Scope, and after the handler persists any session change. A changed ticket is sent
// back in the x-session response header.
func SessionUnary(store session.Store, res Resolver, log *zap.Logger) grpc.UnaryServerInterceptor {
	prefix := "/" + api.ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) || publicMethods[info.FullMethod] {
			return next(ctx, req)
		}

		ticket := ticketFromMD(ctx)
		st, err := store.Load(ctx, ticket)
		if err != nil {
			log.Error("load session", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, errSession
		}
		c := &carrier{ticket: ticket, loaded: st}
		ctx = withCarrier(ctx, c)

		if !unresolvedMethods[info.FullMethod] {
			r, err := res.EnsureIdentity(ctx, st)
			if err != nil {
				log.Error("resolve identity", zap.String("method", info.FullMethod), zap.Error(err))
				return nil, errSession
			}
			c.next = r.Patch
			scope := Scope{IdentityID: r.IdentityID, IsGuest: r.IsGuest}
			if r.User != nil {
				scope.Username = r.User.Username
			}
			ctx = WithScope(ctx, scope)
		}

		resp, herr := next(ctx, req)
		if err := commit(ctx, store, c); err != nil {
			log.Error("save session", zap.String("method", info.FullMethod), zap.Error(err))
			if herr == nil {
				return nil, errSession
			}
		}
		return resp, herr
	}
}

// commit writes the scheduled change. The client's ticket is kept only while it maps to the
// same identity; any other change is stored under a fresh ticket. A destroyed ticket simply
// stops resolving, so no header is sent for it.
func commit(ctx context.Context, store session.Store, c *carrier) error {
	var (
		ticket string
		err    error
	)
	switch {
	case c.destroy:
		if c.ticket == "" {
			return nil
		}
		return store.Destroy(ctx, c.ticket)
	case c.next == nil:
		return nil
	case !c.loaded.Empty() && c.next.IdentityID == c.loaded.IdentityID:
		ticket, err = store.Save(ctx, c.ticket, *c.next)
	default:
		if !c.loaded.Empty() {
			if err := store.Destroy(ctx, c.ticket); err != nil {
				return err
			}
		}
		ticket, err = store.Save(ctx, "", *c.next)
	}
	if err != nil {
		return err
	}
	return grpc.SetHeader(ctx, metadata.Pairs(api.SessionHeader, ticket))
}

func ticketFromMD(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(api.SessionHeader) {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
