// Package gate implements the session state machine and action coordinator
// for the Snap2Serve gesture gate: a protected operation runs only after the
// user produces enough qualifying gesture events within a time limit.
package gate

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gesture"
)

// State is the lifecycle state of a gate session.
type State int

const (
	// StateIdle means the session has not started (or was cancelled).
	StateIdle State = iota
	// StateRunning means the session is counting gesture events.
	StateRunning
	// StateSuccess means the target count was reached in time.
	StateSuccess
	// StateFailed means the time limit expired first.
	StateFailed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Event kinds published to collaborators (UI clients, tray).
const (
	EventState = "state"
	EventScore = "score"
)

// Event is a notification about session progress.
type Event struct {
	Kind      string `json:"kind"`
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Count     int    `json:"count"`
	Target    int    `json:"target"`
	Remaining int    `json:"remaining"`
}

// SampleScorer is the scoring contract a session consumes. *gesture.Scorer
// satisfies it; tests substitute stubs.
type SampleScorer interface {
	Observe(hands []detector.HandLandmarks, at time.Time) (gesture.ScoreEvent, bool)
	Reset()
}

// DefaultSettleDelay is how long a session lingers in Success before the
// success callback fires, giving the UI a beat to show the final count.
const DefaultSettleDelay = time.Second

// Session tracks one gate attempt: accumulated score events against a
// target and a deadline. Transitions are one-directional
// (Idle→Running→Success|Failed) except via explicit Cancel or Restart.
// Scorer state belongs to exactly this session.
type Session struct {
	id     string
	scorer SampleScorer
	notify func(Event)
	settle time.Duration

	// onSuccess fires exactly once, a settle delay after entering Success.
	// onFailed fires on the transition to Failed.
	onSuccess func()
	onFailed  func()

	mu          sync.Mutex
	state       State
	count       int
	target      int
	remaining   int
	settleTimer *time.Timer
	successSent bool
}

// NewSession creates an idle session consuming the given scorer.
// notify may be nil.
func NewSession(scorer SampleScorer, notify func(Event)) *Session {
	return &Session{
		id:     uuid.NewString(),
		scorer: scorer,
		notify: notify,
		settle: DefaultSettleDelay,
		state:  StateIdle,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SetSettleDelay overrides the success settle delay. Call before Start.
func (s *Session) SetSettleDelay(d time.Duration) {
	s.settle = d
}

// Start moves an idle session to Running with a fresh count and deadline.
// Scorer state is re-initialized. Calls on a non-idle session are ignored.
func (s *Session) Start(target int, timeLimit time.Duration) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateRunning
	s.count = 0
	s.target = target
	s.remaining = int(timeLimit / time.Second)
	s.successSent = false
	s.scorer.Reset()
	ev := s.stateEvent()
	s.mu.Unlock()

	s.send(ev)
}

// Observe feeds one frame's detected hands into the session's scorer.
// Outside Running the sample is dropped: a settled session stops consuming.
func (s *Session) Observe(hands []detector.HandLandmarks, at time.Time) {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}

	_, scored := s.scorer.Observe(hands, at)
	if !scored {
		s.mu.Unlock()
		return
	}

	s.count++
	events := []Event{s.scoreEvent()}

	if s.count >= s.target {
		s.state = StateSuccess
		events = append(events, s.stateEvent())
		s.settleTimer = time.AfterFunc(s.settle, s.fireSuccess)
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.send(ev)
	}
}

// Tick advances the 1-second deadline clock. At zero the session fails.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}

	s.remaining--
	var ev Event
	var failed func()
	if s.remaining <= 0 {
		s.remaining = 0
		s.state = StateFailed
		failed = s.onFailed
	}
	ev = s.stateEvent()
	s.mu.Unlock()

	s.send(ev)
	if failed != nil {
		failed()
	}
}

// Cancel returns the session to Idle from any state. It is safe and
// idempotent at any time, including before Start and after Success; a
// pending success callback that has not fired yet is stopped.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	ev := s.stateEvent()
	s.mu.Unlock()

	s.send(ev)
}

// Restart returns a running or failed session to Idle so it can be started
// again. Success is left alone.
func (s *Session) Restart() {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateFailed {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.count = 0
	ev := s.stateEvent()
	s.mu.Unlock()

	s.send(ev)
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Count returns the accumulated score count.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Remaining returns the remaining whole seconds before the deadline.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// fireSuccess delivers the success callback exactly once, unless the
// session was cancelled during the settle window.
func (s *Session) fireSuccess() {
	s.mu.Lock()
	if s.state != StateSuccess || s.successSent {
		s.mu.Unlock()
		return
	}
	s.successSent = true
	cb := s.onSuccess
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// stateEvent and scoreEvent are called with s.mu held.
func (s *Session) stateEvent() Event {
	return Event{
		Kind:      EventState,
		SessionID: s.id,
		State:     s.state.String(),
		Count:     s.count,
		Target:    s.target,
		Remaining: s.remaining,
	}
}

func (s *Session) scoreEvent() Event {
	ev := s.stateEvent()
	ev.Kind = EventScore
	return ev
}

func (s *Session) send(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}
