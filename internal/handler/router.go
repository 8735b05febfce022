/*
Package handler provides the ops HTTP surface of the relay bot.

The surface is internal: health, counters for dashboards, Prometheus metrics, and a manual
roster refresh. Chat traffic never goes through it.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"relaybot/internal/pkg/limiter"
	"relaybot/internal/pkg/logx"
	"relaybot/internal/pkg/resp"
)

const (
	RefreshRate  = 0.1
	RefreshBurst = 3
)

// Router builds the ops routing table. The returned throttle guards POST /roster/refresh;
// callers run its cleanup loop.
func Router(deps *AppDeps) (http.Handler, *limiter.IPThrottle) {
	refreshThrottle := limiter.NewIPThrottle(rate.Limit(RefreshRate), RefreshBurst)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Relay Bot",
		})
	})

	r.Get("/stats", HandleStats(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.With(refreshThrottle.Middleware).Post("/roster/refresh", HandleRosterRefresh(deps))

	return r, refreshThrottle
}
