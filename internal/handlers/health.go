package handlers

import (
	"net/http"

	"github.com/ketig/hit-counter/internal/store"
)

// Health answers liveness probes. It reads a counter so a broken store
// surfaces as unhealthy rather than as failed user requests only.
type Health struct {
	store store.Store
	name  string
}

// NewHealth creates the health check handler probing the given counter name.
func NewHealth(st store.Store, name string) *Health {
	return &Health{store: st, name: name}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ReadCounter(r.Context(), h.name); err != nil {
		http.Error(w, "Store unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
