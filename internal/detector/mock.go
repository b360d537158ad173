package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// SixHandLandmarks returns a preset HandLandmarks for the "six" counting
// gesture: thumb and pinky extended, index/middle/ring folded.
func SixHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb extended sideways: tip well past the IP joint relative to the MCP
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.68, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.60, Z: 0.0}

	// Index folded: tip curls back below the PIP joint
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.64, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.68, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.53, Y: 0.71, Z: -0.02}

	// Middle folded
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.67, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.63, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.67, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.70, Z: -0.02}

	// Ring folded
	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.44, Y: 0.68, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.71, Z: -0.02}

	// Pinky extended upward
	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.38, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.36, Y: 0.52, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.44, Z: 0.0}

	return lm
}

// SevenHandLandmarks returns a preset HandLandmarks for the "seven" counting
// gesture: index and middle extended, thumb/ring/pinky folded.
func SevenHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb tucked across the palm: tip ends up closer to the MCP than the IP
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.70, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.64, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.66, Z: 0.0}

	// Index extended upward
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.56, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.46, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.57, Y: 0.36, Z: 0.0}

	// Middle extended upward
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.53, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.42, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.32, Z: 0.0}

	// Ring folded
	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.63, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.44, Y: 0.67, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.70, Z: -0.02}

	// Pinky folded
	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.66, Z: -0.05}
	lm.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.70, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.73, Z: -0.02}

	return lm
}

// OpenPalmLandmarks returns a preset HandLandmarks with all five fingers
// extended. Matches neither counting gesture.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}

// FistLandmarks returns a preset HandLandmarks with all fingers folded and
// the thumb tucked. Matches neither counting gesture.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.70, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.65, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.68, Z: 0.0}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.64, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.68, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.53, Y: 0.71, Z: -0.02}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.67, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.63, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.67, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.70, Z: -0.02}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.44, Y: 0.68, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.71, Z: -0.02}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.66, Z: -0.05}
	lm.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.70, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.73, Z: -0.02}

	return lm
}
