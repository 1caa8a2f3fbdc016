package app

import (
	"context"
	"net/http"
	"time"

	auditservice "github.com/Black-And-White-Club/sportsday/app/modules/audit/application"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Router builds the HTTP handler: health and metrics endpoints at the root,
// the module routes under /api.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(httpx.AccessLog(a.Obs.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	if a.Obs.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.Obs.Registry, promhttp.HandlerOpts{Registry: a.Obs.Registry}))
	}

	r.Route("/api", func(api chi.Router) {
		if rps := a.Config.HTTP.RateLimitRPS; rps > 0 {
			limiter := httpx.NewIPRateLimiter(rate.Limit(rps), a.Config.HTTP.RateLimitBurst)
			api.Use(httpx.RateLimit(limiter))
		}
		if a.Config.JWT.Secret != "" {
			api.Use(httpx.ProtectWrites(httpx.RequireBearer(a.Tokens(), auditservice.WithActor)))
		}

		a.Modules.Registry.Mount(api)
		a.Modules.Entry.Mount(api)
		a.Modules.Standings.Mount(api)
		a.Modules.Audit.Mount(api)
	})
	return r
}

// Tokens returns the bearer token signer for the configured secret.
func (a *App) Tokens() *httpx.Tokens {
	return httpx.NewTokens(a.Config.JWT.Secret, a.Config.JWT.Issuer)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.DB.PingContext(ctx); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
