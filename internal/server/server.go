// Package server provides the HTTP surface of the Snap2Serve gesture gate.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/capture"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/recipe"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/server/api"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir   string
	Store       *store.Store
	Camera      capture.Camera
	Coordinator *gate.Coordinator
	Recipes     *recipe.Client
	// ApplySettings pushes saved settings into the live coordinator and
	// scorer factory. May be nil.
	ApplySettings func(store.GateSettings)
}

// Server represents the HTTP server for the gesture gate.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Events returns the WebSocket event hub; wire it into the coordinator's
// Notify option to push session progress to UI clients.
func (s *Server) Events() *EventHub {
	return s.events
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Coordinator != nil {
		gateHandler := api.NewGateHandler(s.config.Coordinator)
		s.mux.Handle("/api/gate", gateHandler)
		s.mux.Handle("/api/gate/", gateHandler)

		if s.config.Recipes != nil {
			s.mux.Handle("/api/recipes", api.NewRecipesHandler(s.config.Coordinator, s.config.Recipes))
		}
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, s.config.ApplySettings))
	}

	s.mux.Handle("/api/events", s.events)

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
