// Package gesture implements the counting-gesture recognizers behind the
// Snap2Serve gesture gate: a per-frame pose classifier for the "six" and
// "seven" hand signs, and a two-handed raise-alternation detector. Both feed
// a shared scoring contract consumed by the gate session.
package gesture

import "time"

// Pose is the discrete per-frame classification of one hand.
type Pose int

const (
	// PoseNone means no qualifying hand sign was recognized.
	PoseNone Pose = iota
	// PoseSix is the counting sign for six: thumb and pinky extended.
	PoseSix
	// PoseSeven is the counting sign for seven: index and middle extended.
	PoseSeven
)

// String returns the lowercase name of the pose.
func (p Pose) String() string {
	switch p {
	case PoseSix:
		return "six"
	case PoseSeven:
		return "seven"
	default:
		return "none"
	}
}

// ScoreEvent is emitted when a recognizer accepts one qualifying gesture.
// It is transient: the gate session consumes it in the same scheduling step.
type ScoreEvent struct {
	At time.Time
}

// Config holds the tunables for both recognizer variants. The pose
// thresholds were tuned empirically against MediaPipe output; treat the
// values as the contract rather than re-deriving them.
type Config struct {
	// ExtendMargin is how far (normalized y) a fingertip must sit above its
	// PIP joint to count as extended.
	ExtendMargin float64
	// ThumbRatio is the tip-to-MCP over IP-to-MCP distance ratio above which
	// the thumb counts as extended.
	ThumbRatio float64
	// StableFrames is the number of consecutive identical classifications
	// required before a pose may score.
	StableFrames int

	// EMAAlpha is the smoothing factor for the hand-height moving average.
	EMAAlpha float64
	// MinConfidence is the detection score below which a hand is ignored.
	MinConfidence float64
	// RiseVelocityFloor is the most negative (fastest upward) smoothed
	// velocity that still counts as a raise settling near its top.
	RiseVelocityFloor float64
	// StillVelocityCeil is the maximum downward velocity the opposite hand
	// may have while the raising hand is evaluated.
	StillVelocityCeil float64
	// CycleWindow bounds how long a full alternation sequence may take.
	CycleWindow time.Duration
	// MaxUpGap bounds the time between one hand's raise and the opposite
	// hand's answering raise.
	MaxUpGap time.Duration
	// StaleAfter is how long a hand may go unobserved before its tracked
	// confidence is zeroed.
	StaleAfter time.Duration

	// Cooldown suppresses score events emitted sooner than this after the
	// previous one. Shared by both recognizer variants.
	Cooldown time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		ExtendMargin:      0.02,
		ThumbRatio:        1.1,
		StableFrames:      3,
		EMAAlpha:          0.4,
		MinConfidence:     0.7,
		RiseVelocityFloor: -0.35,
		StillVelocityCeil: 0.1,
		CycleWindow:       2500 * time.Millisecond,
		MaxUpGap:          500 * time.Millisecond,
		StaleAfter:        300 * time.Millisecond,
		Cooldown:          700 * time.Millisecond,
	}
}
