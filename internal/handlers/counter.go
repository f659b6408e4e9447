// Package handlers wires the visit pipeline to HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ketig/hit-counter/internal/hits"
	"github.com/ketig/hit-counter/internal/render"
	"github.com/ketig/hit-counter/internal/store"
	"github.com/ketig/hit-counter/internal/visitor"
)

// Counter serves the counter image at the root path.
type Counter struct {
	service     *hits.Service
	defaultName string
	minWidth    int
	logger      *zap.Logger
}

// NewCounter creates the counter endpoint handler.
func NewCounter(service *hits.Service, defaultName string, minWidth int, logger *zap.Logger) *Counter {
	return &Counter{
		service:     service,
		defaultName: defaultName,
		minWidth:    minWidth,
		logger:      logger,
	}
}

// ServeHTTP runs the request pipeline and answers with a rendered PNG.
func (h *Counter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Don't respond to non-root requests, such as /favicon.ico.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, err := visitor.FromRequest(r)
	if err != nil {
		h.logger.Debug("rejected request", zap.Error(err))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = h.defaultName
	}

	result, err := h.service.Process(r.Context(), hits.Visit{
		Name:      name,
		UserAgent: info.UserAgent,
		SourceIP:  info.SourceIP,
	})
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	raster := render.Number(uint64(result.Count), h.minWidth)
	png, err := raster.PNG()
	if err != nil {
		h.logger.Error("render failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "image/png")
	header.Set("Content-Length", strconv.Itoa(len(png)))
	// Each view must re-run the pipeline and show the latest count.
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("X-Count-Name", result.Name)
	header.Set("X-Count", strconv.FormatInt(result.Count, 10))
	header.Set("X-Visit-Outcome", result.Outcome.String())

	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(png)
	}
}

// writeError maps pipeline errors onto HTTP statuses
func (h *Counter) writeError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, hits.ErrNameNotAllowed):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Error("storage unavailable", zap.String("name", name), zap.Error(err))
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("pipeline failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
