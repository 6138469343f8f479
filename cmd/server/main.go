// Command fittrack-server starts the FitTrack gRPC server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/fittrack/internal/api"
	"github.com/and161185/fittrack/internal/config"
	"github.com/and161185/fittrack/internal/events"
	"github.com/and161185/fittrack/internal/limiter"
	"github.com/and161185/fittrack/internal/migrate"
	"github.com/and161185/fittrack/internal/repository"
	"github.com/and161185/fittrack/internal/repository/memory"
	"github.com/and161185/fittrack/internal/repository/postgres"
	grpcserver "github.com/and161185/fittrack/internal/server/grpc"
	"github.com/and161185/fittrack/internal/server/ops"
	"github.com/and161185/fittrack/internal/service"
	"github.com/and161185/fittrack/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, prepares storage and starts the gRPC and ops listeners.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// flag already printed usage for parse errors
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store),
		zap.String("sessions", cfg.Session.Backend),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]ops.Check{}

	// Records and limiter
	var (
		store repository.Store
		lim   limiter.Limiter
	)
	switch cfg.Store {
	case config.StorePostgres:
		if err := migrate.Up(ctx, cfg.DSN, logger); err != nil {
			logger.Fatal("migrate up", zap.Error(err))
		}
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			logger.Fatal("pgxpool.New", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewStore(&postgres.DB{Pool: pool})
		lim = limiter.NewPG(pool, limiter.DefaultPolicy())
		checks["postgres"] = pool.Ping
	default:
		store = memory.New()
		lim = limiter.NewMemory(limiter.DefaultPolicy())
	}

	// Sessions
	var sessions session.Store
	switch cfg.Session.Backend {
	case config.SessionRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	case config.SessionToken:
		ts, err := session.NewTokenStore([]byte(cfg.Session.Key), cfg.Session.TTL)
		if err != nil {
			logger.Fatal("token sessions", zap.Error(err))
		}
		sessions = ts
	default:
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	// Events
	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers)
		logger.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers))
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
	}()

	// Services
	ids := service.NewIdentityService(store, lim, pub, logger.Named("identity"))
	fit := service.NewFitnessService(store, pub, logger.Named("fitness"))
	fit.UseLocation(cfg.Location)

	if n, err := service.SeedCatalog(ctx, store); err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	} else if n > 0 {
		logger.Info("seeded exercise catalog", zap.Int("exercises", n))
	}
	if cfg.SeedDemo {
		created, err := service.SeedDemo(ctx, store, cfg.DemoPassword, time.Now().In(cfg.Location))
		if err != nil {
			logger.Fatal("seed demo", zap.Error(err))
		}
		logger.Info("demo user", zap.String("username", service.DemoUsername), zap.Bool("created", created))
	}

	// gRPC server with interceptors
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
			grpcserver.SessionUnary(sessions, ids, logger.Named("session")),
		),
	}
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled, serving plaintext")
	}
	s := grpc.NewServer(opts...)
	api.RegisterFitTrackServer(s, grpcserver.New(ids, fit))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	// Listen
	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSCert != ""))
		errCh <- s.Serve(lis)
	}()

	var opsSrv *http.Server
	if cfg.OpsAddr != "" {
		opsSrv = &http.Server{
			Addr:              cfg.OpsAddr,
			Handler:           ops.NewRouter(prometheus.DefaultGatherer, checks),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("ops listening", zap.String("addr", cfg.OpsAddr))
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
		hs.Shutdown()
		shutdown(s, opsSrv, logger)
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		shutdown(s, opsSrv, logger)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// shutdown stops gracefully, forcing after 5s.
func shutdown(s *grpc.Server, opsSrv *http.Server, log *zap.Logger) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.Stop()
	}

	if opsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := opsSrv.Shutdown(ctx); err != nil {
			log.Warn("ops shutdown", zap.Error(err))
		}
	}
}
