// Package app wires the capture, detection and gate subsystems into the
// main processing pipeline.
package app

import (
	"log"
	"sync"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/capture"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while nobody is in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while presence is detected or a gate
	// session is running.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last presence the pipeline drops
	// back to the idle rate.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	CameraID       int
	PresenceThresh float64
}

// App owns the processing pipeline: frames from the camera run through hand
// detection and into the gate coordinator, one sample at a time.
type App struct {
	config   Config
	camera   capture.Camera
	presence *capture.PresenceDetector
	detector detector.Detector
	gate     *gate.Coordinator
	mu       sync.Mutex
	stopCh   chan struct{}
}

// New creates a new App feeding the given coordinator.
func New(config Config, coordinator *gate.Coordinator) *App {
	presenceThreshold := config.PresenceThresh
	if presenceThreshold <= 0 {
		presenceThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		presence: capture.NewPresenceDetector(presenceThreshold),
		gate:     coordinator,
	}

	// Try MediaPipe first, fall back to the mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Gate pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.presence.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Gate pipeline stopped")
}

// EnsureCapture reports whether the capture side is ready, opening the
// camera if needed. The coordinator asks this before starting a challenge,
// so a missing camera rejects the gated call instead of running down its
// clock.
func (a *App) EnsureCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.camera.IsOpen() {
		return nil
	}
	return a.camera.Open()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detector
}
