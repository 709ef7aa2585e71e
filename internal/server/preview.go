package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/watermark"
)

// Preview handles POST /api/v1/preview. The multipart form carries an "image"
// part (the base raster) and an optional "config" part (a JSON document; the
// last-used config applies when absent). The response body is the PNG
// composite, and the placed layer's bounding box rides in the X-Watermark-Rect
// header as "x,y,w,h" so a client can hit-test pointer drags against it.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.Cfg.MaxUploadBytes); err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to parse multipart form")
		return
	}

	cfg := s.Store.LoadLast()
	if raw := r.FormValue("config"); raw != "" {
		parsed, err := model.Decode([]byte(raw))
		if err != nil {
			renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid config document")
			return
		}
		cfg = parsed
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "missing image field")
		return
	}
	defer file.Close()

	base, err := imaging.Decode(file)
	if err != nil {
		renderJSONError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA", "image did not decode")
		return
	}

	composite, rect, err := watermark.Preview(cfg, base)
	if err != nil {
		slog.Error("render preview", "error", err)
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Watermark-Rect", fmt.Sprintf("%d,%d,%d,%d",
		rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy()))
	if err := imaging.Encode(w, composite, imaging.PNG); err != nil {
		slog.Error("write preview response", "error", err)
	}
}
