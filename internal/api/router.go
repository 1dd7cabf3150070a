package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/seawatts/nugget-sub007/internal/api/middleware"
	"github.com/seawatts/nugget-sub007/internal/handlers"
	"github.com/seawatts/nugget-sub007/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler, pg store.DataStore, redisStore *store.RedisStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(16 * 1024)) // 16KB max body
	r.Use(middleware.RequireJSON)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(redisStore.Client(), logger)
	r.Use(limiter.Middleware)

	// CORS - web and mobile clients call from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	auth := middleware.NewAuthMiddleware(pg, redisStore)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes (no auth required)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/login", h.Login)

	// Authenticated routes (require session)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Post("/logout", h.Logout)

		r.Get("/children", h.ListChildren)
		r.Post("/children", h.CreateChild)
		r.Get("/children/{id}/timeline", h.Timeline)
		r.Post("/children/{id}/activities", h.CreateActivity)
		r.Post("/children/{id}/milestones", h.CreateMilestone)
		r.Post("/children/{id}/milestones/{mid}/achieve", h.AchieveMilestone)
		r.Post("/children/{id}/threads", h.CreateThread)

		r.Get("/threads/{id}/messages", h.GetThreadMessages)
		r.Post("/threads/{id}/messages", h.PostMessage)
	})

	return r
}
