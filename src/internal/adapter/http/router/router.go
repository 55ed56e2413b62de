package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

// RouteRegistrar mounts a controller's authenticated routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// PublicRouteRegistrar mounts routes that bypass authentication.
type PublicRouteRegistrar interface {
	RegisterPublicRoutes(r chi.Router)
}

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	AuthMiddleware func(http.Handler) http.Handler
	Gatherer       prometheus.Gatherer
	Health         HealthCheck
	Public         []PublicRouteRegistrar
	Protected      []RouteRegistrar
}

func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	registerSwaggerRoutes(r)
	r.Get("/health", healthHandler(opts.Health))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, registrar := range opts.Public {
		if registrar != nil {
			registrar.RegisterPublicRoutes(r)
		}
	}

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}
		for _, registrar := range opts.Protected {
			if registrar != nil {
				registrar.RegisterRoutes(r)
			}
		}
	})

	return r
}

func healthHandler(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.Error("health check failed", err, logger.Fields{"path": r.URL.Path})
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
