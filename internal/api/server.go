// Package api exposes search, link resolution and history over HTTP for
// editor integrations.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Paintersrp/zortex/internal/state"
)

// Server is the HTTP API server for zortex.
type Server struct {
	router chi.Router
	state  *state.State
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(st *state.State, log *slog.Logger) *Server {
	if log == nil {
		log = st.Log
	}
	s := &Server{
		state: st,
		log:   log.With("component", "api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/resolve", s.handleResolve)
		r.Get("/link", s.handleLink)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/tags", s.handleTags)
		r.Get("/history", s.handleListHistory)
		r.Post("/history", s.handleRecordHistory)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"index":  s.state.Index.Stats(),
	})
}
