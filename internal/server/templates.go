package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/store"
)

// ConfigGet handles GET /api/v1/config and returns the last-used config.
func (s *Server) ConfigGet(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, s.Store.LoadLast())
}

// ConfigPut handles PUT /api/v1/config. The body is merged over defaults and
// clamped before it is persisted, so the stored document is always complete.
func (s *Server) ConfigPut(w http.ResponseWriter, r *http.Request) {
	cfg, ok := decodeConfigBody(w, r)
	if !ok {
		return
	}
	if err := s.Store.SaveLast(cfg); err != nil {
		slog.Error("save last-used config", "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to save config")
		return
	}
	renderJSON(w, http.StatusOK, cfg)
}

// TemplateList handles GET /api/v1/templates.
func (s *Server) TemplateList(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List()
	if err != nil {
		slog.Error("list templates", "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list templates")
		return
	}
	if names == nil {
		names = []string{}
	}
	renderJSON(w, http.StatusOK, map[string]any{"templates": names})
}

// TemplateGet handles GET /api/v1/templates/{name}.
func (s *Server) TemplateGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg, err := s.Store.Load(name)
	if errors.Is(err, store.ErrNotFound) {
		renderJSONError(w, http.StatusNotFound, "NOT_FOUND", "template not found")
		return
	}
	if err != nil {
		slog.Error("load template", "name", name, "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load template")
		return
	}
	renderJSON(w, http.StatusOK, cfg)
}

// TemplatePut handles PUT /api/v1/templates/{name}.
func (s *Server) TemplatePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg, ok := decodeConfigBody(w, r)
	if !ok {
		return
	}
	if err := s.Store.Save(name, cfg); err != nil {
		slog.Error("save template", "name", name, "error", err)
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to save template")
		return
	}
	renderJSON(w, http.StatusCreated, cfg)
}

// TemplateDelete handles DELETE /api/v1/templates/{name}.
func (s *Server) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := s.Store.Delete(name)
	if errors.Is(err, store.ErrNotFound) {
		renderJSONError(w, http.StatusNotFound, "NOT_FOUND", "template not found")
		return
	}
	if err != nil {
		slog.Error("delete template", "name", name, "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeConfigBody(w http.ResponseWriter, r *http.Request) (model.WatermarkConfig, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read request body")
		return model.WatermarkConfig{}, false
	}
	cfg, err := model.Decode(data)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid config document")
		return model.WatermarkConfig{}, false
	}
	return cfg, true
}
