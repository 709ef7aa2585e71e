// Package server exposes the HTTP surface a thin UI client drives: a
// synchronous preview renderer plus template and last-used-config documents.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ebalder/wmstudio/internal/config"
	"github.com/ebalder/wmstudio/internal/store"
)

type Server struct {
	Cfg   *config.Config
	Store *store.Store
	DB    *sql.DB
}

func New(cfg *config.Config, st *store.Store, database *sql.DB) *Server {
	return &Server{Cfg: cfg, Store: st, DB: database}
}

func (s *Server) Routes(previewRL *RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.Health)

		r.Group(func(r chi.Router) {
			r.Use(previewRL.Middleware)
			r.Post("/preview", s.Preview)
		})

		r.Get("/config", s.ConfigGet)
		r.Put("/config", s.ConfigPut)

		r.Get("/templates", s.TemplateList)
		r.Get("/templates/{name}", s.TemplateGet)
		r.Put("/templates/{name}", s.TemplatePut)
		r.Delete("/templates/{name}", s.TemplateDelete)

		r.Get("/history", s.HistoryList)
		r.Get("/history/{id}", s.HistoryGet)
	})

	return r
}

// Health handles GET /api/v1/healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "error", err)
	}
}

func renderJSONError(w http.ResponseWriter, status int, code, message string) {
	renderJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
