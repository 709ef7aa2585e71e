package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ebalder/wmstudio/internal/db"
	"github.com/ebalder/wmstudio/internal/model"
)

// HistoryList handles GET /api/v1/history. The n query parameter caps the
// number of batches returned, newest first.
func (s *Server) HistoryList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "n must be between 1 and 500")
			return
		}
		limit = n
	}

	batches, err := db.ListBatches(s.DB, limit)
	if err != nil {
		slog.Error("list batches", "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list batches")
		return
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	renderJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

// HistoryGet handles GET /api/v1/history/{id} and includes the batch's
// per-item failures.
func (s *Server) HistoryGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	batch, err := db.GetBatch(s.DB, id)
	if err != nil {
		slog.Error("load batch", "id", id, "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load batch")
		return
	}
	if batch == nil {
		renderJSONError(w, http.StatusNotFound, "NOT_FOUND", "batch not found")
		return
	}

	failures, err := db.ListBatchFailures(s.DB, id)
	if err != nil {
		slog.Error("load batch failures", "id", id, "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load batch")
		return
	}
	if failures == nil {
		failures = []model.BatchFailure{}
	}
	renderJSON(w, http.StatusOK, map[string]any{"batch": batch, "failures": failures})
}
