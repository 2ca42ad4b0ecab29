package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/drblury/swiftmove/config"
	"github.com/drblury/swiftmove/entity"
	"github.com/drblury/swiftmove/info"
	"github.com/drblury/swiftmove/probe"
	"github.com/drblury/swiftmove/responder"
	"github.com/drblury/swiftmove/router"
	"github.com/drblury/swiftmove/store"
)

const (
	title       = "SwiftMove Logistics API"
	banner      = "SwiftMove Logistics API is running"
	description = "CRUD access to the drivers, customers, orders, payments, communications and driver performance records of the SwiftMove logistics platform."

	validationPrefix = "/api/"
	readinessQuery   = "SELECT 1"
)

var (
	quietRoutes   = []string{"/healthz", "/readyz", "/metrics"}
	hiddenHeaders = []string{"Authorization", "Cookie"}
)

// Backend is the database session the API runs on. *store.DB satisfies it.
type Backend interface {
	store.Gateway
	probe.DBPinger
}

// NewHandler composes the complete HTTP surface: the entity routes, the
// documentation and probe routes, /metrics, and the middleware chain around
// them.
func NewHandler(ctx context.Context, cfg config.Config, backend Backend, logger *slog.Logger) (http.Handler, error) {
	if backend == nil {
		return nil, errors.New("api: backend is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := info.BuildOpenAPI(ctx, entity.All(), info.DocumentOptions{
		Title:        title,
		Version:      version,
		Description:  description,
		ServerURL:    cfg.PublicURL,
		ContactName:  "SwiftMove Engineering",
		ContactEmail: "contact@swiftmove.com",
	})
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}

	resp := responder.NewResponder(
		responder.WithLogger(logger),
		responder.WithDevelopment(cfg.Development()),
		responder.WithTraceIDFunc(func(r *http.Request) string {
			return router.RequestID(r.Context())
		}),
	)

	app := http.NewServeMux()
	entity.Register(app, backend, resp, entity.All()...)

	infoHandler := info.NewInfoHandler(
		info.WithInfoResponder(resp),
		info.WithBanner(banner),
		info.WithDocsTitle(title),
		info.WithDocument(doc),
		info.WithInfoProvider(func() any { return Build() }),
		info.WithReadinessChecks(
			probe.NewDBPingProbe(cfg.Database.Driver, backend),
			probe.NewQueryProbe(cfg.Database.Driver, probe.QuerierFunc(
				func(ctx context.Context, statement string, args ...any) error {
					_, err := backend.Query(ctx, statement, args...)
					return err
				}), readinessQuery),
		),
	)
	infoHandler.Register(app)
	app.Handle("GET /metrics", router.MetricsHandler())

	cors := router.DefaultCORSConfig()
	cors.Origins = cfg.CORSOrigins

	opts := []router.Option{
		router.WithLogger(logger),
		router.WithConfig(router.Config{
			Timeout:          cfg.RequestTimeout,
			CORS:             cors,
			QuietdownRoutes:  quietRoutes,
			HideHeaders:      hiddenHeaders,
			RateLimit:        cfg.RateLimit,
			RateLimitBurst:   cfg.RateLimitBurst,
			ValidationPrefix: validationPrefix,
		}),
	}
	if cfg.ValidateRequests {
		opts = append(opts, router.WithSwagger(doc.Spec))
	}

	return router.New(app, opts...), nil
}
