package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
)

// Sentinel errors a gated caller can observe. An action-level failure is
// only ever seen after Success, since the action runs only then.
var (
	// ErrCancelled reports an explicit user abort of the gesture challenge.
	ErrCancelled = errors.New("gesture challenge cancelled")
	// ErrBusy reports that another caller's challenge is already pending.
	ErrBusy = errors.New("gesture challenge already in progress")
	// ErrFailed reports that the time limit expired before the target count.
	ErrFailed = errors.New("gesture challenge failed")
)

// Action is a deferred operation gated behind a gesture challenge.
type Action func(ctx context.Context) (any, error)

type result struct {
	value any
	err   error
}

// pendingAction is the single outstanding gated call. Its done channel is a
// one-shot: exactly one resolution is ever sent.
type pendingAction struct {
	ctx    context.Context
	action Action
	done   chan result
}

// Options configures a Coordinator.
type Options struct {
	// Enabled gates calls; when false, Protect runs actions immediately.
	Enabled bool
	// Target is the score count required to unlock.
	Target int
	// TimeLimit bounds each challenge.
	TimeLimit time.Duration
	// Settle delays the success resolution after the target is reached.
	// Zero means DefaultSettleDelay.
	Settle time.Duration
	// NewScorer builds a fresh recognizer for each session, so no recognizer
	// state survives across sessions.
	NewScorer func() SampleScorer
	// Notify receives session progress events. May be nil.
	Notify func(Event)
	// Activate, when set, is asked before a challenge starts (for example to
	// confirm the camera is available); an error rejects the call outright.
	Activate func() error
}

// Coordinator wraps deferred actions behind gesture-gate sessions. At most
// one caller may be pending at a time, and a pending action executes at most
// once: only after its session succeeds, never after a failure or cancel.
type Coordinator struct {
	mu      sync.Mutex
	opts    Options
	session *Session
	pending *pendingAction
}

// NewCoordinator creates a coordinator with the given options.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Settle == 0 {
		opts.Settle = DefaultSettleDelay
	}
	return &Coordinator{opts: opts}
}

// Protect runs action behind a gesture challenge. With gating disabled the
// action runs immediately and its outcome is returned unchanged. Otherwise
// Protect blocks until the challenge resolves: the action's result on
// success, ErrFailed on timeout, ErrCancelled on abort, or ErrBusy
// immediately if another caller is already pending.
func (c *Coordinator) Protect(ctx context.Context, action Action) (any, error) {
	c.mu.Lock()
	if !c.opts.Enabled {
		c.mu.Unlock()
		return action(ctx)
	}
	if c.pending != nil {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.opts.Activate != nil {
		if err := c.opts.Activate(); err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("capture unavailable: %w", err)
		}
	}

	p := &pendingAction{
		ctx:    ctx,
		action: action,
		done:   make(chan result, 1),
	}
	sess := NewSession(c.opts.NewScorer(), c.opts.Notify)
	sess.SetSettleDelay(c.opts.Settle)
	sess.onSuccess = func() { c.runPending(p) }
	sess.onFailed = func() { c.resolve(p, result{err: ErrFailed}) }
	c.pending = p
	c.session = sess
	target, limit := c.opts.Target, c.opts.TimeLimit
	c.mu.Unlock()

	sess.Start(target, limit)

	select {
	case r := <-p.done:
		return r.value, r.err
	case <-ctx.Done():
		c.resolve(p, result{err: ctx.Err()})
		r := <-p.done
		return r.value, r.err
	}
}

// Observe forwards one frame's detected hands to the active session, if any.
func (c *Coordinator) Observe(hands []detector.HandLandmarks, at time.Time) {
	if sess := c.activeSession(); sess != nil {
		sess.Observe(hands, at)
	}
}

// Tick advances the active session's deadline clock, if any.
func (c *Coordinator) Tick() {
	if sess := c.activeSession(); sess != nil {
		sess.Tick()
	}
}

// Cancel aborts the active challenge. The pending caller, if any, is
// rejected with ErrCancelled and its action is never invoked. Safe to call
// at any time.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	p := c.pending
	sess := c.session
	c.pending = nil
	c.session = nil
	c.mu.Unlock()

	if sess != nil {
		sess.Cancel()
	}
	if p != nil {
		p.done <- result{err: ErrCancelled}
	}
}

// Abort rejects the active challenge with an external collaborator error
// (for example a camera failure), distinguishable from both ErrCancelled
// and an action-level failure.
func (c *Coordinator) Abort(err error) {
	c.mu.Lock()
	p := c.pending
	sess := c.session
	c.pending = nil
	c.session = nil
	c.mu.Unlock()

	if sess != nil {
		sess.Cancel()
	}
	if p != nil {
		p.done <- result{err: fmt.Errorf("gesture challenge aborted: %w", err)}
	}
}

// Status is a point-in-time snapshot of the coordinator for the API.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Active    bool   `json:"active"`
	SessionID string `json:"session_id,omitempty"`
	State     string `json:"state"`
	Count     int    `json:"count"`
	Target    int    `json:"target"`
	Remaining int    `json:"remaining"`
}

// Snapshot reports the coordinator's current state.
func (c *Coordinator) Snapshot() Status {
	c.mu.Lock()
	sess := c.session
	st := Status{
		Enabled: c.opts.Enabled,
		Target:  c.opts.Target,
		State:   StateIdle.String(),
	}
	c.mu.Unlock()

	if sess != nil {
		st.Active = true
		st.SessionID = sess.ID()
		st.State = sess.State().String()
		st.Count = sess.Count()
		st.Remaining = sess.Remaining()
	}
	return st
}

// SetEnabled toggles gating for future Protect calls.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Enabled = enabled
}

// Enabled reports whether gating is active.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Enabled
}

// SetNotify sets the session event sink for future sessions.
func (c *Coordinator) SetNotify(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Notify = fn
}

// SetActivate sets the readiness check asked before each challenge starts.
func (c *Coordinator) SetActivate(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Activate = fn
}

// Configure updates the challenge rules for future sessions.
func (c *Coordinator) Configure(target int, timeLimit time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target > 0 {
		c.opts.Target = target
	}
	if timeLimit > 0 {
		c.opts.TimeLimit = timeLimit
	}
}

func (c *Coordinator) activeSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// claim detaches p if it is still the pending call. The claimer owns the
// one-shot resolution afterwards, which makes every resolution path
// exactly-once under the same mutex.
func (c *Coordinator) claim(p *pendingAction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != p {
		return false
	}
	c.pending = nil
	c.session = nil
	return true
}

// runPending executes the claimed action and forwards its outcome.
func (c *Coordinator) runPending(p *pendingAction) {
	if !c.claim(p) {
		return
	}
	value, err := p.action(p.ctx)
	p.done <- result{value: value, err: err}
}

// resolve rejects the pending call with r if it has not resolved yet.
func (c *Coordinator) resolve(p *pendingAction, r result) {
	if !c.claim(p) {
		return
	}
	p.done <- r
}
