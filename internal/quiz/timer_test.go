package quiz

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestTimerExpiresExactlyOnce(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(3)
	waitFor(t, "expiry", func() bool { return fired.Load() > 0 })

	time.Sleep(10 * testTick)
	if got := fired.Load(); got != 1 {
		t.Fatalf("callback fired %d times, want 1", got)
	}
	if timer.Running() {
		t.Fatal("timer still running after expiry")
	}
	if got := timer.Remaining(); got != 0 {
		t.Fatalf("remaining=%d after expiry, want 0", got)
	}
}

func TestTimerPauseResume(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(100)
	waitFor(t, "a tick", func() bool { return timer.Remaining() < 100 })

	timer.Pause()
	if timer.Running() {
		t.Fatal("timer running while paused")
	}
	frozen := timer.Remaining()
	time.Sleep(5 * testTick)
	if got := timer.Remaining(); got != frozen {
		t.Fatalf("remaining drifted while paused: %d -> %d", frozen, got)
	}
	if fired.Load() != 0 {
		t.Fatal("callback fired while paused")
	}

	timer.Resume()
	waitFor(t, "post-resume tick", func() bool { return timer.Remaining() < frozen })
}

func TestTimerStopPreventsCallback(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(2)
	timer.Stop()

	time.Sleep(10 * testTick)
	if fired.Load() != 0 {
		t.Fatal("callback fired after Stop")
	}
	if timer.Remaining() != 0 || timer.Running() {
		t.Fatal("Stop did not clear timer state")
	}
}

func TestTimerStartSupersedesPrevious(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(1)
	timer.Start(100)

	// The first countdown's goroutine must not fire nor decrement the
	// rearmed one past its own schedule.
	time.Sleep(10 * testTick)
	if fired.Load() != 0 {
		t.Fatal("superseded countdown still fired")
	}
	if got := timer.Remaining(); got < 80 {
		t.Fatalf("remaining=%d, superseded goroutine kept decrementing", got)
	}
}

func TestTimerReset(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(2)
	timer.Reset(50)

	if timer.Running() {
		t.Fatal("Reset left the timer running")
	}
	if got := timer.Remaining(); got != 50 {
		t.Fatalf("remaining=%d after Reset, want 50", got)
	}

	time.Sleep(10 * testTick)
	if fired.Load() != 0 {
		t.Fatal("callback fired after Reset")
	}

	timer.Resume()
	waitFor(t, "tick after resume", func() bool { return timer.Remaining() < 50 })
}

func TestTimerNonPositiveStart(t *testing.T) {
	timer := NewCountdownTimer(testTick)
	var fired atomic.Int32
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start(0)
	if timer.Running() {
		t.Fatal("timer running after zero-duration start")
	}

	time.Sleep(5 * testTick)
	if fired.Load() != 0 {
		t.Fatal("callback fired for zero-duration start")
	}
}
