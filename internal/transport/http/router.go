// Package http assembles the API router from the feature handlers and the
// shared middleware chain.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fraudhandler "lynx/internal/fraud/handler"
	graphhandler "lynx/internal/graph/handler"
	invhandler "lynx/internal/investigation/handler"
	"lynx/internal/platform/metrics"
	"lynx/internal/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Graph         *graphhandler.Handler
	Fraud         *fraudhandler.Handler
	Investigation *invhandler.Handler
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Health        func() error
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		deps.Graph.Register(api)
		deps.Fraud.Register(api)
		deps.Investigation.Register(api)
	})

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
