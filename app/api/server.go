// Package api serves the assembled release data over HTTP: a catalog of
// available files plus per-aggregate retrieval by domain and language pair.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	releaseDir string
	router     chi.Router
}

func (s *Server) Run(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func NewServer(releaseDir string) *Server {
	s := &Server{releaseDir: releaseDir}
	catalog := catalogService{dir: releaseDir}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.setJsonContentType)
		r.Get("/health", catalog.Health)
		r.Get("/catalog", catalog.List)
		r.Get("/{domain}/{pair}", catalog.GetAggregate)
	})

	s.router = r
	return s
}
