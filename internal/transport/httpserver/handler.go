package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/internal/viewer"
	"github.com/orgball2608/insta-stories-viewer/pkg/errors"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
)

type Handler struct {
	viewer *viewer.Service
	cache  media.Cache
	logger logger.Logger
}

func NewHandler(v *viewer.Service, cache media.Cache, log logger.Logger) *Handler {
	return &Handler{viewer: v, cache: cache, logger: log}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(recoverer(h.logger))
	r.Use(requestLogger(h.logger))
	r.Use(corsHandler())

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", h.listUsers)
		r.Get("/viewer", h.openViewer)
		if h.cache != nil {
			r.Get("/media", h.serveMedia)
		}
	})
	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int64  `json:"sessions"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, healthResponse{Status: "ok", Sessions: h.viewer.Active()})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.viewer.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, rows)
}

// serveMedia answers from the media cache only; it never fetches upstream.
func (h *Handler) serveMedia(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, h.logger, errors.WrapWithCode(media.ErrEmptyURL, errors.CodeBadRequest, "serve media"))
		return
	}
	entry, ok := h.cache.Cached(url)
	if !ok {
		writeError(w, h.logger, errors.WrapWithCode(errors.ErrNotFound, errors.CodeNotFound, "media not cached"))
		return
	}

	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(entry.Data); err != nil {
		h.logger.Warn("Failed to write media", "url", url, "error", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status, code := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "code", code, "error", err)
	}
	writeJSON(w, log, status, errorResponse{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
