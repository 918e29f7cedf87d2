package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cybershield/internal/api/handlers"
	"cybershield/internal/api/middleware"
	"cybershield/internal/config"
	"cybershield/internal/infrastructure/cache"
	"cybershield/pkg/logger"
)

// NewRouter builds the HTTP routing tree
func NewRouter(cfg *config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.WithComponent("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Liveness and readiness stay public
	r.Get("/health", h.Health.Check)
	r.Get("/ready", h.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(middleware.APIKeyAuth(cfg.Auth.APIKey))
		}
		if cfg.RateLimit.Enabled && c != nil {
			r.Use(middleware.RateLimiter(c, cfg.RateLimit))
		}

		r.Post("/analyze", h.Analyze.Analyze)

		r.Route("/url", func(r chi.Router) {
			r.Post("/check", h.URL.Check)
		})

		r.Route("/message", func(r chi.Router) {
			r.Post("/analyze", h.Message.Analyze)
		})

		r.Route("/password", func(r chi.Router) {
			r.Post("/check", h.Password.Check)
			r.Post("/breach", h.Password.CheckBreach)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", h.Dashboard.Metrics)
			r.Get("/trends", h.Dashboard.Trends)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History.List)
			r.Get("/{id}", h.History.Get)
		})

		r.Post("/feedback", h.Feedback.Submit)
	})

	return r
}
