package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"personalinfo/internal/platform/metrics"
	"personalinfo/internal/platform/middleware"
	"personalinfo/internal/prefs"
)

// Registrar is a module that mounts its routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// Health is pinged by /healthz; nil reports healthy.
	Health prefs.Pinger
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// HTTPMetrics records per-route request metrics when set.
	HTTPMetrics *metrics.Metrics
}

// NewRouter wires middleware, operational endpoints and module routes. The router
// stays free of business logic; modules delegate to their services.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", healthHandler(cfg.Health))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}

func healthHandler(p prefs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				}
			}
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
