package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("not found")

// GateSettings are the per-deployment gesture gate rules.
type GateSettings struct {
	Enabled    bool
	Target     int
	TimeLimitS int
	Mode       string // "pose" or "motion"
	CooldownMs int
}

// DefaultGateSettings returns the stock gate rules.
func DefaultGateSettings() GateSettings {
	return GateSettings{
		Enabled:    true,
		Target:     50,
		TimeLimitS: 30,
		Mode:       "pose",
		CooldownMs: 700,
	}
}

// Settings keys.
const (
	keyEnabled   = "gate.enabled"
	keyTarget    = "gate.target"
	keyTimeLimit = "gate.time_limit_s"
	keyMode      = "gate.mode"
	keyCooldown  = "gate.cooldown_ms"
)

// SettingsRepository provides typed access to the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a raw setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a raw setting value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// LoadGate reads the gate settings, filling in defaults for missing keys.
func (r *SettingsRepository) LoadGate() (GateSettings, error) {
	gs := DefaultGateSettings()

	if v, err := r.Get(keyEnabled); err == nil {
		gs.Enabled = v == "true"
	} else if !errors.Is(err, ErrNotFound) {
		return gs, err
	}

	if v, err := r.Get(keyTarget); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil && n > 0 {
			gs.Target = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return gs, err
	}

	if v, err := r.Get(keyTimeLimit); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil && n > 0 {
			gs.TimeLimitS = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return gs, err
	}

	if v, err := r.Get(keyMode); err == nil {
		if v == "pose" || v == "motion" {
			gs.Mode = v
		}
	} else if !errors.Is(err, ErrNotFound) {
		return gs, err
	}

	if v, err := r.Get(keyCooldown); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil && n >= 0 {
			gs.CooldownMs = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return gs, err
	}

	return gs, nil
}

// SaveGate persists the gate settings.
func (r *SettingsRepository) SaveGate(gs GateSettings) error {
	pairs := map[string]string{
		keyEnabled:   strconv.FormatBool(gs.Enabled),
		keyTarget:    strconv.Itoa(gs.Target),
		keyTimeLimit: strconv.Itoa(gs.TimeLimitS),
		keyMode:      gs.Mode,
		keyCooldown:  strconv.Itoa(gs.CooldownMs),
	}

	for key, value := range pairs {
		if err := r.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
