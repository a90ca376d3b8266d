package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/foundry-social/foundry/internal/api/auth"
	connhttp "github.com/foundry-social/foundry/internal/api/connections"
	ideahttp "github.com/foundry-social/foundry/internal/api/ideas"
	"github.com/foundry-social/foundry/internal/api/middleware"
	notifhttp "github.com/foundry-social/foundry/internal/api/notifications"
	profilehttp "github.com/foundry-social/foundry/internal/api/profiles"
	"github.com/foundry-social/foundry/internal/connections"
	"github.com/foundry-social/foundry/internal/notifications"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Create JWT service
	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.AccessTokenTTL)

	// Create rate limiters
	ipLimiter := middleware.NewRateLimiter(s.config.RateLimitPerIP)
	userLimiter := middleware.NewRateLimiter(s.config.RateLimitPerUser)

	// Domain services
	connService := connections.NewService(
		s.storage.Users(),
		s.storage.Ideas(),
		s.storage.Connections(),
		s.notifier,
	)
	notifService := notifications.NewService(s.storage.Notifications())

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.Recoverer)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public, IP rate limited)
		r.Route("/auth", func(r chi.Router) {
			authHandler := auth.NewHandler(s.storage.Users(), jwtService)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(ipLimiter))
				r.Post("/login", authHandler.Login)
			})
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))
			r.Use(middleware.RateLimitByUser(userLimiter))

			r.Route("/connections", func(r chi.Router) {
				h := connhttp.NewHandler(connService)
				r.Post("/", h.Create)
				r.Get("/", h.List)
				r.Patch("/{id}", h.Respond)
			})

			r.Route("/notifications", func(r chi.Router) {
				h := notifhttp.NewHandler(notifService)
				r.Get("/", h.List)
				r.Patch("/", h.MarkRead)
				r.Post("/read-all", h.MarkAllRead)
				r.Delete("/", h.Delete)
			})

			r.Route("/ideas", func(r chi.Router) {
				h := ideahttp.NewHandler(s.storage.Ideas(), s.storage.Profiles(), s.storage.Connections())
				r.Post("/", h.Create)
				r.Get("/", h.List)
				r.Get("/{id}", h.GetByID)
			})

			r.Route("/profile", func(r chi.Router) {
				h := profilehttp.NewHandler(s.storage.Profiles())
				r.Get("/", h.Get)
				r.Put("/", h.Update)
			})
		})
	})

	// Health checks (public, no rate limit)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)

	return r
}
