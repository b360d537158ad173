package gesture

import (
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

// Mode selects which recognizer variant a Scorer runs. The two variants are
// alternatives for the same job, chosen per deployment.
type Mode string

const (
	// ModePose scores held "six"/"seven" hand signs.
	ModePose Mode = "pose"
	// ModeMotion scores alternating left/right hand raises.
	ModeMotion Mode = "motion"
)

// cooldown suppresses events emitted sooner than a fixed interval after the
// previous one. The zero value admits the first event immediately.
type cooldown struct {
	interval time.Duration
	last     time.Time
}

func (c *cooldown) allow(at time.Time) bool {
	if !c.last.IsZero() && at.Sub(c.last) < c.interval {
		return false
	}
	c.last = at
	return true
}

// Scorer runs one recognizer variant over incoming frames and produces
// ScoreEvents, applying the shared cooldown. A Scorer instance holds all
// recognizer state for one gate session; sessions never share one.
type Scorer struct {
	mode      Mode
	stability *StabilityDebouncer
	motion    *MotionCycleDetector
	cooldown  cooldown
}

// NewScorer creates a scorer for the given mode and tuning. Unknown modes
// fall back to ModePose.
func NewScorer(mode Mode, cfg Config) *Scorer {
	s := &Scorer{
		mode:     mode,
		cooldown: cooldown{interval: cfg.Cooldown},
	}
	switch mode {
	case ModeMotion:
		s.motion = NewMotionCycleDetector(cfg)
	default:
		s.mode = ModePose
		s.stability = NewStabilityDebouncer(cfg)
	}
	return s
}

// Mode returns the recognizer variant this scorer runs.
func (s *Scorer) Mode() Mode {
	return s.mode
}

// Reset clears all recognizer state and the cooldown.
func (s *Scorer) Reset() {
	s.cooldown.last = time.Time{}
	if s.stability != nil {
		s.stability.Reset()
	}
	if s.motion != nil {
		s.motion.Reset()
	}
}

// Observe feeds one frame's detected hands, taken at the given time, and
// reports whether a score event was produced. An empty frame still advances
// the recognizers: the pose variant sees it as PoseNone (re-arming), and the
// motion variant expires hands that have gone unobserved.
func (s *Scorer) Observe(hands []detector.HandLandmarks, at time.Time) (ScoreEvent, bool) {
	scored := false

	switch s.mode {
	case ModeMotion:
		for i := range hands {
			if s.motion.Observe(&hands[i], at) {
				scored = true
			}
		}
		if len(hands) == 0 {
			s.motion.ExpireStale(at)
		}
	default:
		if hand := bestHand(hands); hand != nil {
			_, scored = s.stability.Observe(hand.Points[:])
		} else {
			s.stability.Observe(nil)
		}
	}

	if !scored || !s.cooldown.allow(at) {
		return ScoreEvent{}, false
	}
	return ScoreEvent{At: at}, true
}

// bestHand picks the highest-confidence hand of a frame.
func bestHand(hands []detector.HandLandmarks) *detector.HandLandmarks {
	var best *detector.HandLandmarks
	for i := range hands {
		if best == nil || hands[i].Score > best.Score {
			best = &hands[i]
		}
	}
	return best
}
