package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Query and on-demand sync routes are public, matching the upstream consumer
// contract; the full-matrix sweep requires bearer auth since it hammers the
// provider for every country. Rate limiting is applied globally: 60 requests
// per minute per IP.
func NewRouter(handlers *Handlers, token string, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/", handlers.Root)
	r.Get("/api/health", HealthHandlerFunc(db, redisClient, log))
	r.Get("/api/holidays", handlers.GetHolidays)
	r.Get("/api/request_holidays", handlers.RequestHolidays)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))
		r.Post("/api/sync_all", handlers.SyncAllHolidays)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
