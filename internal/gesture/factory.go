package gesture

import (
	"sync"
	"time"
)

// Factory builds fresh Scorers from the currently configured mode and
// tuning. Each gate session gets its own Scorer, so settings changes apply
// cleanly to the next session without touching a running one.
type Factory struct {
	mu   sync.Mutex
	mode Mode
	cfg  Config
}

// NewFactory creates a factory producing scorers for the given mode/tuning.
func NewFactory(mode Mode, cfg Config) *Factory {
	return &Factory{mode: mode, cfg: cfg}
}

// New builds a fresh scorer.
func (f *Factory) New() *Scorer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return NewScorer(f.mode, f.cfg)
}

// Mode returns the currently configured recognizer variant.
func (f *Factory) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Update changes the recognizer variant and cooldown for future scorers.
func (f *Factory) Update(mode Mode, cooldown time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mode == ModePose || mode == ModeMotion {
		f.mode = mode
	}
	if cooldown >= 0 {
		f.cfg.Cooldown = cooldown
	}
}
