package gesture

import (
	"testing"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

func observeHand(d *StabilityDebouncer, hand detector.HandLandmarks) (Pose, bool) {
	return d.Observe(hand.Points[:])
}

func TestStabilityDebouncer_RequiresStableFrames(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()

	for i := 0; i < 2; i++ {
		if _, scored := observeHand(d, six); scored {
			t.Fatalf("scored on frame %d, want none before frame 3", i+1)
		}
	}
	if _, scored := observeHand(d, six); !scored {
		t.Fatal("frame 3 did not score")
	}
}

func TestStabilityDebouncer_HoldNeverRescores(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()

	scores := 0
	for i := 0; i < 30; i++ {
		if _, scored := observeHand(d, six); scored {
			scores++
		}
	}
	if scores != 1 {
		t.Errorf("held pose scored %d times, want 1", scores)
	}
}

func TestStabilityDebouncer_RearmsThroughNone(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()

	for i := 0; i < 3; i++ {
		observeHand(d, six)
	}
	if pose, scored := d.Observe(nil); pose != PoseNone || scored {
		t.Fatalf("empty frame classified as %v scored=%v", pose, scored)
	}

	scored := false
	for i := 0; i < 3; i++ {
		_, s := observeHand(d, six)
		scored = scored || s
	}
	if !scored {
		t.Error("did not score again after passing through none")
	}
}

func TestStabilityDebouncer_PoseChangeResetsCount(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()
	seven := detector.SevenHandLandmarks()

	observeHand(d, six)
	observeHand(d, six)
	if _, scored := observeHand(d, seven); scored {
		t.Fatal("pose change scored immediately")
	}
	if _, scored := observeHand(d, seven); scored {
		t.Fatal("second seven frame scored early")
	}
	if _, scored := observeHand(d, seven); !scored {
		t.Error("third consecutive seven frame did not score")
	}
}

func TestStabilityDebouncer_RapidCyclesEachScoreOnce(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()

	scores := 0
	for cycle := 0; cycle < 5; cycle++ {
		for i := 0; i < 3; i++ {
			if _, s := observeHand(d, six); s {
				scores++
			}
		}
		d.Observe(nil)
	}
	if scores != 5 {
		t.Errorf("5 pose/none cycles scored %d times, want 5", scores)
	}
}

func TestStabilityDebouncer_NoneBetweenFramesResetsCount(t *testing.T) {
	d := NewStabilityDebouncer(DefaultConfig())
	six := detector.SixHandLandmarks()

	observeHand(d, six)
	observeHand(d, six)
	d.Observe(nil)
	observeHand(d, six)
	observeHand(d, six)
	if _, scored := observeHand(d, six); !scored {
		t.Error("did not score after rebuilding stability post-dropout")
	}
}
