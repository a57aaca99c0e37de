package api

import (
	"net/http"

	"github.com/ayusman/gesturectl/internal/state"
)

// SnapshotSource yields the current dashboard state.
type SnapshotSource interface {
	Read() state.Snapshot
}

// SnapshotHandler serves GET /api/snapshot.
type SnapshotHandler struct {
	source SnapshotSource
}

// NewSnapshotHandler creates a SnapshotHandler reading from source.
func NewSnapshotHandler(source SnapshotSource) *SnapshotHandler {
	return &SnapshotHandler{source: source}
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.source.Read())
}
