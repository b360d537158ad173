package gate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCoordinator(target int, limit time.Duration) *Coordinator {
	return NewCoordinator(Options{
		Enabled:   true,
		Target:    target,
		TimeLimit: limit,
		Settle:    5 * time.Millisecond,
		NewScorer: func() SampleScorer { return &stubScorer{score: true} },
	})
}

// waitActive blocks until the coordinator's session is running, so that
// subsequent Observe/Tick calls are not dropped by a not-yet-started session.
func waitActive(t *testing.T, c *Coordinator) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := c.Snapshot(); st.Active && st.State == StateRunning.String() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no session became active")
}

func TestCoordinator_ProtectSuccess(t *testing.T) {
	c := newTestCoordinator(2, 30*time.Second)

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			return "granted", nil
		})
		done <- outcome{v, err}
	}()

	waitActive(t, c)
	now := time.Now()
	c.Observe(nil, now)
	c.Observe(nil, now)

	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("Protect returned error %v", out.err)
		}
		if out.value != "granted" {
			t.Errorf("Protect returned %v, want %q", out.value, "granted")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve after success")
	}
}

func TestCoordinator_CancelRejectsWithoutRunningAction(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)

	var invoked atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			invoked.Store(true)
			return nil, nil
		})
		done <- err
	}()

	waitActive(t, c)
	c.Cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Protect returned %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve after cancel")
	}
	if invoked.Load() {
		t.Error("action ran despite cancellation")
	}
}

func TestCoordinator_SecondCallerBusy(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)

	go c.Protect(context.Background(), func(ctx context.Context) (any, error) {
		return nil, nil
	})
	waitActive(t, c)
	defer c.Cancel()

	_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("second Protect returned %v, want ErrBusy", err)
	}
}

func TestCoordinator_DisabledRunsImmediately(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)
	c.SetEnabled(false)

	sentinel := errors.New("upstream exploded")
	start := time.Now()
	v, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
		return 42, sentinel
	})
	if time.Since(start) > time.Second {
		t.Error("disabled Protect blocked on a challenge")
	}
	if v != 42 || !errors.Is(err, sentinel) {
		t.Errorf("Protect = (%v, %v), want action outcome passed through", v, err)
	}
}

func TestCoordinator_TimeoutRejects(t *testing.T) {
	c := NewCoordinator(Options{
		Enabled:   true,
		Target:    100,
		TimeLimit: 2 * time.Second,
		Settle:    5 * time.Millisecond,
		NewScorer: func() SampleScorer { return &stubScorer{} },
	})

	var invoked atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			invoked.Store(true)
			return nil, nil
		})
		done <- err
	}()

	waitActive(t, c)
	c.Tick()
	c.Tick()

	select {
	case err := <-done:
		if !errors.Is(err, ErrFailed) {
			t.Errorf("Protect returned %v, want ErrFailed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve after timeout")
	}
	if invoked.Load() {
		t.Error("action ran despite timeout")
	}
}

func TestCoordinator_ActionErrorPropagates(t *testing.T) {
	c := newTestCoordinator(1, 30*time.Second)

	sentinel := errors.New("backend refused")
	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			return nil, sentinel
		})
		done <- err
	}()

	waitActive(t, c)
	c.Observe(nil, time.Now())

	select {
	case err := <-done:
		if !errors.Is(err, sentinel) {
			t.Errorf("Protect returned %v, want the action's error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve")
	}
}

func TestCoordinator_AbortRejects(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)

	cause := errors.New("camera disconnected")
	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		done <- err
	}()

	waitActive(t, c)
	c.Abort(cause)

	select {
	case err := <-done:
		if !errors.Is(err, cause) {
			t.Errorf("Protect returned %v, want a wrap of the abort cause", err)
		}
		if errors.Is(err, ErrCancelled) {
			t.Error("abort reported as user cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve after abort")
	}
}

func TestCoordinator_ContextCancellation(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(ctx, func(ctx context.Context) (any, error) {
			return nil, nil
		})
		done <- err
	}()

	waitActive(t, c)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Protect returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Protect did not resolve after context cancellation")
	}
}

func TestCoordinator_ActivateErrorRejects(t *testing.T) {
	c := newTestCoordinator(5, 30*time.Second)
	cause := errors.New("no camera")
	c.SetActivate(func() error { return cause })

	_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
		return nil, nil
	})
	if !errors.Is(err, cause) {
		t.Errorf("Protect returned %v, want a wrap of the activation error", err)
	}
	if c.Snapshot().Active {
		t.Error("session left active after activation failure")
	}
}

func TestCoordinator_SnapshotTracksSession(t *testing.T) {
	c := newTestCoordinator(3, 30*time.Second)

	st := c.Snapshot()
	if st.Active || st.State != "idle" || !st.Enabled || st.Target != 3 {
		t.Fatalf("idle snapshot = %+v", st)
	}

	go c.Protect(context.Background(), func(ctx context.Context) (any, error) {
		return nil, nil
	})
	waitActive(t, c)
	defer c.Cancel()

	st = c.Snapshot()
	if !st.Active || st.State != "running" || st.SessionID == "" {
		t.Errorf("running snapshot = %+v", st)
	}
	c.Observe(nil, time.Now())
	if got := c.Snapshot().Count; got != 1 {
		t.Errorf("snapshot count = %d after one score, want 1", got)
	}
}

func TestCoordinator_Configure(t *testing.T) {
	c := newTestCoordinator(3, 30*time.Second)
	c.Configure(7, time.Minute)
	if got := c.Snapshot().Target; got != 7 {
		t.Errorf("target = %d after Configure, want 7", got)
	}
	c.Configure(0, 0) // invalid values ignored
	if got := c.Snapshot().Target; got != 7 {
		t.Errorf("target = %d after invalid Configure, want 7", got)
	}
}

func TestCoordinator_ReusableAfterCancel(t *testing.T) {
	c := newTestCoordinator(1, 30*time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		done <- err
	}()
	waitActive(t, c)
	c.Cancel()
	<-done

	// A fresh challenge after cancellation runs to completion.
	result := make(chan error, 1)
	go func() {
		_, err := c.Protect(context.Background(), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		result <- err
	}()
	waitActive(t, c)
	c.Observe(nil, time.Now())

	select {
	case err := <-result:
		if err != nil {
			t.Errorf("second challenge returned %v, want success", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second challenge did not resolve")
	}
}
