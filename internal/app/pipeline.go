package app

import (
	"log"
	"time"
)

// maxCaptureErrors is how many consecutive frame-read failures the pipeline
// tolerates before an active session is aborted with a capture error.
const maxCaptureErrors = 3

// runPipeline is the main processing loop. Frames and the 1-second session
// tick interleave on this single goroutine, so every sample runs to
// completion (detection, scoring, session update) before the next one; all
// session and recognizer state is mutated from here and from the
// coordinator's own lock, never concurrently.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastPresence := time.Now()
	captureErrors := 0

	frameInterval := time.Second / time.Duration(IdleFPS)
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	clock := time.NewTicker(time.Second)
	defer clock.Stop()

	for {
		select {
		case <-stopCh:
			return

		case <-clock.C:
			a.gate.Tick()

		case <-frames.C:
			now := time.Now()
			sessionActive := a.gate.Snapshot().Active

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				captureErrors++
				if sessionActive && captureErrors >= maxCaptureErrors {
					a.gate.Abort(err)
					captureErrors = 0
				}
				continue
			}
			captureErrors = 0

			present, _ := a.presence.Detect(frame)
			if present || sessionActive {
				lastPresence = now
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					frames.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastPresence) > time.Duration(IdleTimeoutMs)*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				frames.Reset(frameInterval)
				log.Println("Switched to idle mode")
			}

			if !sessionActive {
				frame.Close()
				continue
			}

			d := a.Detector()
			if d == nil {
				frame.Close()
				continue
			}

			hands, err := d.Detect(frame)
			frame.Close()
			if err != nil {
				// The pose model is a black box; a bad frame degrades to
				// "no detection" so tracked hands can go stale normally.
				log.Printf("Error detecting hands: %v", err)
				a.gate.Observe(nil, now)
				continue
			}

			a.gate.Observe(hands, now)
		}
	}
}
