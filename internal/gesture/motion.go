package gesture

import (
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

// cycleState tracks which hand most recently settled at the top of a raise.
type cycleState int

const (
	cycleIdle cycleState = iota
	cycleLeftUp
	cycleRightUp
)

// handTrack is the per-hand motion state owned by one MotionCycleDetector.
type handTrack struct {
	yEMA       float64
	vY         float64
	lastUpdate time.Time
	confidence float64
	seen       bool
}

// MotionCycleDetector recognizes alternating left/right hand raises from a
// stream of per-hand samples. Hand height is EMA-smoothed before the
// vertical velocity is derived, and a raise registers only as the smoothed
// velocity settles near zero coming out of upward motion. Two full
// alternations inside the cycle window produce one score.
//
// Requiring genuine left/right alternation, with the opposite hand near
// still, rejects single-hand jitter. One detector instance belongs to
// exactly one gate session.
type MotionCycleDetector struct {
	cfg   Config
	hands map[string]*handTrack

	state      cycleState
	cycleCount int
	cycleStart time.Time
	lastUp     time.Time
}

// NewMotionCycleDetector creates a detector with the given tuning.
func NewMotionCycleDetector(cfg Config) *MotionCycleDetector {
	return &MotionCycleDetector{
		cfg: cfg,
		hands: map[string]*handTrack{
			detector.HandednessLeft:  {},
			detector.HandednessRight: {},
		},
	}
}

// Reset clears all per-hand and alternation state.
func (d *MotionCycleDetector) Reset() {
	for _, h := range d.hands {
		*h = handTrack{}
	}
	d.state = cycleIdle
	d.cycleCount = 0
	d.cycleStart = time.Time{}
	d.lastUp = time.Time{}
}

// Observe feeds one hand sample taken at the given time and reports whether
// the alternation completed a scoring sequence.
func (d *MotionCycleDetector) Observe(hand *detector.HandLandmarks, at time.Time) bool {
	track, ok := d.hands[hand.Handedness]
	if !ok {
		return false
	}

	d.ExpireStale(at)
	d.update(track, hand, at)

	if d.cycleCount > 0 && at.Sub(d.cycleStart) > d.cfg.CycleWindow {
		d.cycleCount = 0
		d.state = cycleIdle
	}

	if !d.raiseSettled(track) {
		return false
	}

	switch hand.Handedness {
	case detector.HandednessLeft:
		return d.onRaise(cycleLeftUp, d.hands[detector.HandednessRight], at)
	case detector.HandednessRight:
		return d.onRaise(cycleRightUp, d.hands[detector.HandednessLeft], at)
	}
	return false
}

// ExpireStale zeroes the confidence of any hand not observed within the
// staleness window, so a hand that left the view cannot keep satisfying the
// raise or stillness conditions.
func (d *MotionCycleDetector) ExpireStale(at time.Time) {
	for _, h := range d.hands {
		if h.seen && at.Sub(h.lastUpdate) > d.cfg.StaleAfter {
			h.confidence = 0
		}
	}
}

// update advances one hand's smoothed height and velocity.
func (d *MotionCycleDetector) update(track *handTrack, hand *detector.HandLandmarks, at time.Time) {
	y := hand.CenterY()

	if !track.seen {
		track.yEMA = y
		track.vY = 0
	} else {
		next := d.cfg.EMAAlpha*y + (1-d.cfg.EMAAlpha)*track.yEMA
		dt := at.Sub(track.lastUpdate)
		if dt < time.Millisecond {
			dt = time.Millisecond
		}
		track.vY = (next - track.yEMA) / dt.Seconds()
		track.yEMA = next
	}

	track.seen = true
	track.lastUpdate = at
	track.confidence = hand.Score

	if track.confidence < d.cfg.MinConfidence {
		track.vY = 0
		track.confidence = 0
	}
}

// raiseSettled reports whether a hand has just settled at the top of a
// raise: smoothed velocity near zero arriving from upward motion (screen y
// decreases upward, so rising means negative velocity).
func (d *MotionCycleDetector) raiseSettled(track *handTrack) bool {
	return track.vY >= d.cfg.RiseVelocityFloor &&
		track.vY <= 0 &&
		track.confidence >= d.cfg.MinConfidence
}

// onRaise runs the alternation step for a settled raise of one hand.
func (d *MotionCycleDetector) onRaise(up cycleState, other *handTrack, at time.Time) bool {
	if d.state == up {
		return false
	}

	// The opposite hand must be inactive or near still
	if other.confidence >= d.cfg.MinConfidence && other.vY > d.cfg.StillVelocityCeil {
		return false
	}

	opposite := cycleLeftUp
	if up == cycleLeftUp {
		opposite = cycleRightUp
	}

	if d.state == opposite {
		if at.Sub(d.lastUp) > d.cfg.MaxUpGap {
			// The answering raise came too late; treat it as a fresh start
			d.cycleCount = 0
			d.cycleStart = at
			d.state = up
			d.lastUp = at
			return false
		}

		d.cycleCount++
		if d.cycleCount >= 2 && at.Sub(d.cycleStart) <= d.cfg.CycleWindow {
			d.cycleCount = 0
			d.state = cycleIdle
			d.cycleStart = at
			d.lastUp = at
			return true
		}
		d.state = up
		d.lastUp = at
		return false
	}

	d.state = up
	d.lastUp = at
	if d.cycleCount == 0 {
		d.cycleStart = at
	}
	return false
}
