// Package api provides the optional read-only monitor API served while the
// agent is in watch mode.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cmdshelf/cmdshelf/internal/config"
)

// Server exposes health and store statistics over HTTP. It never mutates
// the store.
type Server struct {
	cfg       *config.Config
	router    chi.Router
	version   string
	startedAt time.Time
}

// NewServer creates a monitor API server.
func NewServer(cfg *config.Config, version string) *Server {
	s := &Server{
		cfg:       cfg,
		version:   version,
		startedAt: time.Now(),
	}

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/status", s.handleStatus)
	r.Get("/categories", s.handleCategories)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
