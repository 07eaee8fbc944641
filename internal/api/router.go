package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mduret/dvdtheque-api/internal/api/handlers"
	"github.com/mduret/dvdtheque-api/internal/api/middleware"
	"github.com/mduret/dvdtheque-api/internal/auth"
	"github.com/mduret/dvdtheque-api/internal/config"
	"github.com/mduret/dvdtheque-api/internal/ratelimit"
	"github.com/mduret/dvdtheque-api/internal/service"
)

// RateLimits groups the limiter instances per endpoint class. Each class
// counts independently, so hammering login does not lock an IP out of
// registration.
type RateLimits struct {
	Global         ratelimit.Limiter
	Login          ratelimit.Limiter
	Register       ratelimit.Limiter
	ForgotPassword ratelimit.Limiter
}

func DefaultRateLimits() *RateLimits {
	return &RateLimits{
		Global:         ratelimit.NewWindow(15*time.Minute, 100),
		Login:          ratelimit.NewWindow(15*time.Minute, 5),
		Register:       ratelimit.NewWindow(60*time.Minute, 3),
		ForgotPassword: ratelimit.NewWindow(15*time.Minute, 3),
	}
}

func NewRouter(services *service.Services, tokens *auth.TokenManager, limits *RateLimits, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.FrontendURL))

	// Health check, outside /api so it escapes the global limiter
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	dvdHandler := handlers.NewDVDHandler(services.DVD)

	r.Route("/api", func(r chi.Router) {
		// The catch-all limiter answers with the dvd routes' error shape,
		// the per-endpoint limiters with the auth routes' message shape.
		r.Use(middleware.RateLimit(limits.Global,
			map[string]string{"error": "Trop de requetes, reessayez plus tard"}))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(limits.Register,
				map[string]string{"message": "Trop de comptes crees, reessayez plus tard"})).
				Post("/register", authHandler.Register)
			r.With(middleware.RateLimit(limits.Login,
				map[string]string{"message": "Trop de tentatives de connexion, reessayez dans 15 minutes"})).
				Post("/login", authHandler.Login)
			r.With(middleware.RateLimit(limits.ForgotPassword,
				map[string]string{"message": "Trop de demandes, reessayez dans 15 minutes"})).
				Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokens))
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/dvds", func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/", dvdHandler.List)
			r.Get("/search", dvdHandler.Search)
			r.Post("/", dvdHandler.Create)
			r.Get("/{id}", dvdHandler.Get)
			r.Put("/{id}", dvdHandler.Update)
			r.Delete("/{id}", dvdHandler.Delete)
		})
	})

	return r
}
