// Package detector provides the hand detection boundary for the Snap2Serve gesture gate.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels reported by the landmark model.
const (
	HandednessLeft  = "Left"
	HandednessRight = "Right"
)

// Point3D represents a normalized 3D landmark point. X and Y are in [0,1]
// image coordinates with Y growing downward; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// CenterY returns a coarse hand-center height: the mean Y of the wrist and
// the four finger MCP knuckles.
func (h *HandLandmarks) CenterY() float64 {
	sum := h.Points[Wrist].Y +
		h.Points[IndexMCP].Y +
		h.Points[MiddleMCP].Y +
		h.Points[RingMCP].Y +
		h.Points[PinkyMCP].Y
	return sum / 5
}
