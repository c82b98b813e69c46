package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/wall/backend/internal/setup"
	mw "github.com/itchan-dev/wall/shared/middleware"
	"github.com/itchan-dev/wall/shared/middleware/metrics"
)

// New creates the chi router with every route mounted.
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Config.Public
	h := deps.Handler
	authMw := deps.AuthMiddleware

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	if h.HasLocalMedia() {
		r.Get(setup.MediaRoutePrefix+"/{key}", h.Media)
	}

	r.Route("/v1", func(r chi.Router) {
		r.With(chimw.Compress(5)).Get("/submissions", h.ListPublic)
		r.Post("/submissions", h.Submit)
		r.Post("/views", h.RecordView)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Use(chimw.NoCache)

			r.Get("/session", h.Session)
			r.Get("/views", h.ViewStats)

			r.Get("/submissions", h.ListAdmin)
			r.Put("/submissions/{id}", h.UpdateSubmission)
			r.Delete("/submissions/{id}", h.DeleteSubmission)
			r.Put("/submissions/{id}/visibility", h.SetVisibility)
			r.Delete("/submissions/{id}/images", h.RemoveImage)
		})
	})

	return r
}
