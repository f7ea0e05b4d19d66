package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/owl-calendar-service/internal/http/handlers"
	"github.com/preston-bernstein/owl-calendar-service/internal/http/middleware"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
)

// RouterConfig holds the handlers and shared collaborators for NewRouter.
type RouterConfig struct {
	Handler  *handlers.Handler
	Admin    *handlers.AdminHandler
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

// NewRouter registers HTTP routes. The admin route is mounted only when an admin handler is set.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(cfg.Logger, cfg.Recorder))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodHead, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Cache-Control", "Expires"},
		MaxAge:         300,
	}))

	h := cfg.Handler
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/sources", h.Sources)
	r.Get("/calendar", h.Calendar)
	r.Head("/calendar", h.Calendar)
	r.Get("/calendar.ics", h.Calendar)
	r.Head("/calendar.ics", h.Calendar)
	if cfg.Admin != nil {
		r.Post("/admin/refresh", cfg.Admin.RefreshSources)
	}
	return r
}
