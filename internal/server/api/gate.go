// Package api provides HTTP API handlers for the Snap2Serve gesture gate.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
)

// GateHandler exposes the gate coordinator's state and cancel control.
type GateHandler struct {
	coordinator *gate.Coordinator
}

// NewGateHandler creates a new GateHandler.
func NewGateHandler(c *gate.Coordinator) *GateHandler {
	return &GateHandler{coordinator: c}
}

// ServeHTTP routes /api/gate and /api/gate/cancel.
func (h *GateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gate")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w)
	case "cancel":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.coordinator.Cancel()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *GateHandler) status(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.coordinator.Snapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
