package main

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/httpx"
	"github.com/ayush/worklog/internal/journal"
	"github.com/ayush/worklog/internal/logging"
	"github.com/ayush/worklog/internal/middleware"
	"github.com/ayush/worklog/internal/summary"
)

// routes carries everything the router needs.
type routes struct {
	authSvc        *auth.Service
	authHandler    *auth.Handler
	journalHandler *journal.Handler
	summaryHandler *summary.Handler
	limiter        *middleware.UserRateLimiter
	allowedOrigins []string
	logger         *log.Logger
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(rt.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(rt.authSvc)

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.With(requireAuth).Post("/logout", rt.authHandler.Logout)
			r.With(requireAuth).Get("/me", rt.authHandler.Me)
		})

		// Journal routes (protected)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			rt.journalHandler.Routes(r)
			r.With(rt.limiter.Middleware).Post("/generate", rt.summaryHandler.Generate)
			r.Route("/reports", rt.summaryHandler.ReportRoutes)
		})
	})

	return r
}
