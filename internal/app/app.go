// AngelaMos | 2026
// app.go

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alwaysdemon/storefront/internal/admin"
	"github.com/alwaysdemon/storefront/internal/auth"
	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/contact"
	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/health"
	"github.com/alwaysdemon/storefront/internal/inquiry"
	"github.com/alwaysdemon/storefront/internal/metrics"
	"github.com/alwaysdemon/storefront/internal/middleware"
	"github.com/alwaysdemon/storefront/internal/product"
	"github.com/alwaysdemon/storefront/internal/provision"
	"github.com/alwaysdemon/storefront/internal/store"
	"github.com/alwaysdemon/storefront/internal/user"
)

const jwksPath = "/.well-known/jwks.json"

// App holds every long-lived dependency of the API process.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	redis     *core.Redis
	telemetry *core.Telemetry
	registry  *prometheus.Registry
	issuer    auth.TokenIssuer

	Users     *user.Service
	Auth      *auth.Service
	Products  *product.Service
	Contacts  *contact.Service
	Inquiries *inquiry.Service
	Health    *health.Handler
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		tel, _ = core.NewTelemetry(ctx, config.OtelConfig{}, cfg.App) //nolint:errcheck // disabled telemetry cannot fail
	} else if tel.Exporting() {
		logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = st.Close() //nolint:errcheck // cleanup on startup failure
		return nil, err
	}
	if rdb != nil {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		redis:     rdb,
		telemetry: tel,
		registry:  metrics.NewRegistry(),
	}

	a.Users = user.NewService(st.Users)

	a.issuer, err = auth.NewIssuer(cfg, a.Users)
	if err != nil {
		_ = a.Close(ctx) //nolint:errcheck // cleanup on startup failure
		return nil, err
	}

	a.Auth = auth.NewService(a.Users, a.issuer)
	a.Products = product.NewService(st.Products, cfg.Catalog)
	a.Contacts = contact.NewService(st.Contacts, contact.DefaultsFromConfig(cfg.Contacts))
	a.Inquiries = inquiry.NewService(
		st.Inquiries,
		a.Products,
		metrics.NewInquiryMetrics(a.registry),
		cfg.Inquiries.MaxEntries,
	)

	checks := []health.NamedChecker{st.Checker()}
	if rdb != nil {
		checks = append(checks, health.NamedChecker{Name: "redis", Checker: rdb, Optional: true})
	}
	a.Health = health.NewHandler(checks...)

	return a, nil
}

// Provision seeds the starter catalog and, when configured for startup,
// the bootstrap admin.
func (a *App) Provision(ctx context.Context) error {
	if a.cfg.Bootstrap.OnStartup {
		if err := provision.Admin(ctx, a.cfg.Bootstrap, a.Auth, a.logger); err != nil {
			return err
		}
	}
	return provision.Catalog(ctx, a.cfg.Catalog, a.Products, a.logger)
}

// Mount installs the middleware stack and every route on r. Domain routes
// are served both at the root and under /api.
func (a *App) Mount(r chi.Router) {
	httpMetrics := metrics.NewHTTPMetrics(a.registry)

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(a.telemetry.Tracer()))
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics.Middleware)
	r.Use(middleware.SecurityHeaders(a.cfg.IsProduction()))
	r.Use(middleware.CORS(a.cfg.CORS))
	if a.cfg.RateLimit.Requests > 0 {
		r.Use(middleware.NewRateLimiter(a.redis.RedisClient(), middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				a.cfg.RateLimit.Requests,
				a.cfg.RateLimit.Burst,
				a.cfg.RateLimit.Window,
			),
			FailOpen: true,
			BypassFunc: middleware.BypassPaths(
				"/healthz", "/livez", "/readyz", a.cfg.Metrics.Path,
			),
		}).Handler)
	}

	a.Health.RegisterRoutes(r)

	if a.cfg.Metrics.Enabled {
		r.Handle(a.cfg.Metrics.Path, metrics.Handler(a.registry))
	}

	if jm, ok := a.issuer.(*auth.JWTManager); ok && jm.HasJWKS() {
		r.Get(jwksPath, jm.GetJWKSHandler())
	}

	a.registerDomainRoutes(r)
	r.Route("/api", a.registerDomainRoutes)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.NotFound(w, "route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.NewAppError(
			core.ErrInvalidInput,
			"method not allowed",
			http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED",
		))
	})
}

func (a *App) registerDomainRoutes(r chi.Router) {
	authenticator := middleware.Authenticator(a.issuer)
	adminOnly := middleware.RequireAdmin

	auth.NewHandler(a.Auth).RegisterRoutes(r, authenticator)
	product.NewHandler(a.Products).RegisterRoutes(r, authenticator, adminOnly)
	contact.NewHandler(a.Contacts).RegisterRoutes(r, authenticator, adminOnly)
	inquiry.NewHandler(a.Inquiries).RegisterRoutes(r, authenticator, adminOnly)
	user.NewHandler(a.Users).RegisterAdminRoutes(r, authenticator, adminOnly)

	admin.NewHandler(admin.HandlerConfig{
		Products:   a.Products,
		Users:      a.Users,
		Inquiries:  a.Inquiries,
		StoreName:  a.store.Driver,
		StorePing:  a.store.Ping,
		RedisPing:  a.redisPing(),
		DBStats:    a.store.DBStats,
		RedisStats: a.redis.PoolStats,
	}).RegisterRoutes(r, authenticator, adminOnly)
}

func (a *App) redisPing() func(context.Context) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Ping
}

func (a *App) Close(ctx context.Context) error {
	var errs []error

	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	return errors.Join(errs...)
}
