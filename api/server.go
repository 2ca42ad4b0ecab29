package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drblury/swiftmove/config"
	"github.com/drblury/swiftmove/store"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	writeGrace        = 5 * time.Second
)

// Serve connects to the database, then serves the API until ctx is cancelled
// and in-flight requests have drained. A database that cannot be reached at
// startup is fatal.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	storeCfg, err := cfg.Store()
	if err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	db, err := store.Open(ctx, storeCfg, store.WithLogger(logger))
	if err != nil {
		logger.Error("database connection failed",
			"driver", cfg.Database.Driver,
			"dsn", cfg.Database.Redacted(),
			"error", err)
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn("closing database", "error", cerr)
		}
	}()

	handler, err := NewHandler(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	srv := newHTTPServer(cfg, handler)
	logger.Info("server config",
		slog.String("address", srv.Addr),
		slog.String("env", cfg.Env),
		slog.String("driver", cfg.Database.Driver),
		slog.Any("corsOrigins", cfg.CORSOrigins),
		slog.Float64("rateLimit", cfg.RateLimit),
		slog.Int("rateLimitBurst", cfg.RateLimitBurst),
		slog.Bool("validateRequests", cfg.ValidateRequests),
		slog.Duration("requestTimeout", cfg.RequestTimeout),
		slog.Duration("shutdownTimeout", cfg.ShutdownTimeout),
	)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return run(ctx, srv, ln, cfg.ShutdownTimeout, logger)
}

func newHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	var writeTimeout time.Duration
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + writeGrace
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// run serves on ln until ctx is done, then shuts srv down within
// shutdownTimeout.
func run(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", "timeout", shutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
