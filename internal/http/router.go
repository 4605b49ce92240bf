// Package http wires the router, middleware chain and server lifecycle.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seojin-ahn/todoboard/internal/http/handler"
	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/metrics"
	"github.com/seojin-ahn/todoboard/internal/middleware"
	"github.com/seojin-ahn/todoboard/internal/service"
	"github.com/seojin-ahn/todoboard/internal/session"
)

type RouterDeps struct {
	Logger *slog.Logger

	AuthService *service.AuthService
	UserService *service.UserService
	TodoService *service.TodoService

	Sessions *session.Manager
	Verifier identity.Verifier

	Metrics         *metrics.Collector
	MetricsRegistry *prometheus.Registry

	// RateLimiter guards the unauthenticated credential endpoints; nil
	// disables limiting (tests).
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the full route tree.
//
// Middleware order: recovery -> logging -> metrics, then a session gate on
// the protected groups only. The credential endpoints additionally carry a
// per-IP rate limit.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Get("/health", handler.Health)
	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsRegistry))
	}

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserService, deps.Sessions, deps.Verifier)
	todoHandler := handler.NewTodoHandler(deps.TodoService)

	r.Route("/api/auth", func(r chi.Router) {
		// Credential flows: no session, rate-limited per client IP.
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware())
			}
			r.Post("/register", authHandler.Register)
			r.Post("/confirm", authHandler.Confirm)
			r.Post("/resend-code", authHandler.ResendCode)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Sync authenticates with the bearer credential itself.
		r.Post("/sync", authHandler.Sync)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(deps.Sessions))
			r.Get("/me", authHandler.Me)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Delete("/logout", authHandler.Logout)
		})
	})

	r.Route("/api/todos", func(r chi.Router) {
		r.Use(middleware.RequireSession(deps.Sessions))
		r.Get("/", todoHandler.List)
		r.Post("/", todoHandler.Create)
		r.Put("/{id}", todoHandler.Update)
		r.Delete("/{id}", todoHandler.Delete)
	})

	return r
}
