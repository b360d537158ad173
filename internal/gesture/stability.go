package gesture

import (
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

// StabilityDebouncer wraps the pose classifier with edge-triggered scoring.
// A pose must hold for StableFrames consecutive frames to score, and having
// scored it cannot score again until the hand passes back through PoseNone.
// Rapid pose/none/pose cycles therefore each score once.
type StabilityDebouncer struct {
	classifier   PoseClassifier
	stableFrames int

	pending     Pose
	stableCount int
	canScore    bool
}

// NewStabilityDebouncer creates a debouncer with the given tuning.
func NewStabilityDebouncer(cfg Config) *StabilityDebouncer {
	d := &StabilityDebouncer{
		classifier:   NewPoseClassifier(cfg),
		stableFrames: cfg.StableFrames,
	}
	d.Reset()
	return d
}

// Reset re-arms the debouncer and clears its stability tracking.
func (d *StabilityDebouncer) Reset() {
	d.pending = PoseNone
	d.stableCount = 0
	d.canScore = true
}

// Observe classifies one frame's landmarks and reports whether it scored.
// Passing fewer than 21 landmarks (including none at all, for frames where
// the hand left the view) classifies as PoseNone and re-arms scoring.
func (d *StabilityDebouncer) Observe(lm []detector.Point3D) (Pose, bool) {
	pose := d.classifier.Classify(lm)

	if pose == d.pending && pose != PoseNone {
		d.stableCount++
	} else {
		d.pending = pose
		if pose != PoseNone {
			d.stableCount = 1
		} else {
			d.stableCount = 0
		}
	}

	scored := false
	if d.stableCount >= d.stableFrames && pose != PoseNone && d.canScore {
		d.canScore = false
		scored = true
	}

	if pose == PoseNone {
		d.canScore = true
	}

	return pose, scored
}
