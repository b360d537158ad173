package gesture

import (
	"math"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

// PoseClassifier classifies a single hand's 21 landmarks into a counting
// pose. It is pure and deterministic: identical input always yields the
// same classification, and malformed input degrades to PoseNone.
type PoseClassifier struct {
	// ExtendMargin and ThumbRatio mirror the Config fields of the same name.
	ExtendMargin float64
	ThumbRatio   float64
}

// NewPoseClassifier creates a classifier from the given tuning.
func NewPoseClassifier(cfg Config) PoseClassifier {
	return PoseClassifier{
		ExtendMargin: cfg.ExtendMargin,
		ThumbRatio:   cfg.ThumbRatio,
	}
}

// Classify returns the pose encoded by the landmark set.
// Returns PoseNone if fewer than 21 landmarks are present.
func (c PoseClassifier) Classify(lm []detector.Point3D) Pose {
	if len(lm) < detector.NumLandmarks {
		return PoseNone
	}

	thumb := c.thumbExtended(lm)
	index := c.fingerExtended(lm, detector.IndexTip, detector.IndexPIP)
	middle := c.fingerExtended(lm, detector.MiddleTip, detector.MiddlePIP)
	ring := c.fingerExtended(lm, detector.RingTip, detector.RingPIP)
	pinky := c.fingerExtended(lm, detector.PinkyTip, detector.PinkyPIP)

	// "Six": thumb plus pinky, as in the East Asian counting convention
	if thumb && pinky && !index && !middle && !ring {
		return PoseSix
	}

	// "Seven": index plus middle, the V sign
	if index && middle && !thumb && !ring && !pinky {
		return PoseSeven
	}

	return PoseNone
}

// fingerExtended reports whether a finger is extended: its tip sits above
// the PIP joint by at least the margin. Image y grows downward, so above
// means a smaller y.
func (c PoseClassifier) fingerExtended(lm []detector.Point3D, tip, pip int) bool {
	return lm[tip].Y < lm[pip].Y-c.ExtendMargin
}

// thumbExtended reports whether the thumb is extended. The thumb moves
// sideways rather than up, so it is judged by planar distance: the tip must
// sit further from the thumb MCP than the IP joint does, with some margin.
func (c PoseClassifier) thumbExtended(lm []detector.Point3D) bool {
	tip := lm[detector.ThumbTip]
	ip := lm[detector.ThumbIP]
	mcp := lm[detector.ThumbMCP]

	tipToMCP := math.Hypot(tip.X-mcp.X, tip.Y-mcp.Y)
	ipToMCP := math.Hypot(ip.X-mcp.X, ip.Y-mcp.Y)

	return tipToMCP > ipToMCP*c.ThumbRatio
}
