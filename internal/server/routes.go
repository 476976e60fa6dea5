package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/login", s.handleLogin)
	r.Get("/callback", s.handleCallback)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/preview", s.handlePreview)
		r.Get("/preview.png", s.handlePreviewPNG)
		r.Get("/generate", s.handleGenerate)
	})

	r.Get("/static/generated/{file}", s.handleGenerated)
	return r
}
