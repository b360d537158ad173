package api

import (
	"encoding/json"
	"net/http"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/store"
)

// SettingsHandler reads and writes the persisted gate settings.
type SettingsHandler struct {
	store *store.Store
	apply func(store.GateSettings)
}

// NewSettingsHandler creates a new SettingsHandler. apply, when non-nil, is
// called after a successful save to push the settings into the running gate.
func NewSettingsHandler(s *store.Store, apply func(store.GateSettings)) *SettingsHandler {
	return &SettingsHandler{store: s, apply: apply}
}

type settingsPayload struct {
	Enabled    bool   `json:"enabled"`
	Target     int    `json:"target"`
	TimeLimitS int    `json:"time_limit_s"`
	Mode       string `json:"mode"`
	CooldownMs int    `json:"cooldown_ms"`
}

// ServeHTTP handles GET and PUT requests to /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	gs, err := h.store.Settings().LoadGate()
	if err != nil {
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settingsPayload{
		Enabled:    gs.Enabled,
		Target:     gs.Target,
		TimeLimitS: gs.TimeLimitS,
		Mode:       gs.Mode,
		CooldownMs: gs.CooldownMs,
	})
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var p settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if p.Target <= 0 || p.TimeLimitS <= 0 {
		http.Error(w, "target and time_limit_s must be positive", http.StatusBadRequest)
		return
	}
	if p.Mode != "pose" && p.Mode != "motion" {
		http.Error(w, "mode must be \"pose\" or \"motion\"", http.StatusBadRequest)
		return
	}
	if p.CooldownMs < 0 {
		http.Error(w, "cooldown_ms must not be negative", http.StatusBadRequest)
		return
	}

	gs := store.GateSettings{
		Enabled:    p.Enabled,
		Target:     p.Target,
		TimeLimitS: p.TimeLimitS,
		Mode:       p.Mode,
		CooldownMs: p.CooldownMs,
	}

	if err := h.store.Settings().SaveGate(gs); err != nil {
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	if h.apply != nil {
		h.apply(gs)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}
