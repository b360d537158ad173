// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-level settings. Gate rules (target, time limit,
// mode) live in the settings store instead, so they can be changed at
// runtime without a restart.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"S2S_ADDR" envDefault:":8080"`
	// DBPath is the SQLite database location. Empty means ~/.snap2serve/gate.db.
	DBPath string `env:"S2S_DB_PATH"`
	// CameraID selects the capture device.
	CameraID int `env:"S2S_CAMERA_ID" envDefault:"0"`
	// BackendURL is the Snap2Serve backend base URL for gated operations.
	BackendURL string `env:"S2S_BACKEND_URL" envDefault:"http://localhost:8000"`
	// StaticDir serves the web UI when non-empty.
	StaticDir string `env:"S2S_STATIC_DIR"`
	// Tray enables the system tray integration.
	Tray bool `env:"S2S_TRAY" envDefault:"true"`
}

// Load parses configuration from environment variables and resolves the
// default database path.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		dir := filepath.Join(home, ".snap2serve")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cfg, fmt.Errorf("create data directory: %w", err)
		}
		cfg.DBPath = filepath.Join(dir, "gate.db")
	}

	return cfg, nil
}
