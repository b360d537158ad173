package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// PresenceDetector decides whether someone is moving in front of the camera
// by frame differencing, so the pipeline can idle at a low frame rate until
// a user shows up for the gesture challenge.
type PresenceDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Presence detection constants.
const (
	// blurKernelSize is the Gaussian blur kernel (21x21) used for denoising.
	blurKernelSize = 21
	// diffThreshold is the binary threshold applied to the frame difference.
	diffThreshold = 25
)

// NewPresenceDetector creates a detector with the given threshold: the
// percentage of pixels that must change between frames to report presence.
func NewPresenceDetector(threshold float64) *PresenceDetector {
	return &PresenceDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one. Returns whether enough
// pixels changed, and the change percentage.
func (p *PresenceDetector) Detect(frame *gocv.Mat) (bool, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	// First frame becomes the baseline
	if !p.initialized {
		blurred.CopyTo(&p.prevGray)
		p.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, p.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&p.prevGray)

	return changePercent > p.threshold, changePercent
}

// Reset clears the baseline so the next frame starts fresh.
func (p *PresenceDetector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// Close releases detector resources.
func (p *PresenceDetector) Close() {
	p.Reset()
}

// SetThreshold updates the change-percentage threshold.
// Values less than or equal to 0 are ignored.
func (p *PresenceDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.threshold = threshold
}
