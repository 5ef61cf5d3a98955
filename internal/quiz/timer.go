package quiz

import (
	"sync"
	"time"
)

// CountdownTimer is a cancelable, resettable per-question countdown.
// It decrements once per tick interval while running and fires the
// expiry callback exactly once when the remaining time reaches zero,
// then stops itself. Pause and Resume do not reset the remaining time.
//
// Every state change bumps an internal generation counter, so a tick
// goroutine left over from an earlier arm can never decrement the
// current countdown or fire its callback.
type CountdownTimer struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining int
	running   bool
	gen       uint64
	onExpire  func()
}

// NewCountdownTimer creates a stopped timer. interval is the tick
// period, one second in production; tests inject a shorter one.
func NewCountdownTimer(interval time.Duration) *CountdownTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &CountdownTimer{interval: interval}
}

// OnExpire replaces the expiry callback. The callback is invoked on the
// timer's tick goroutine without any timer lock held.
func (t *CountdownTimer) OnExpire(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExpire = fn
}

// Start arms the timer with a fresh duration and begins ticking,
// superseding any previous countdown.
func (t *CountdownTimer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.remaining = seconds
	if seconds <= 0 {
		t.running = false
		return
	}
	t.running = true
	go t.run(t.gen)
}

// Pause halts ticking without clearing the remaining time.
func (t *CountdownTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.gen++
		t.running = false
	}
}

// Resume continues a paused countdown from where it left off.
func (t *CountdownTimer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining <= 0 {
		return
	}
	t.gen++
	t.running = true
	go t.run(t.gen)
}

// Reset stops the timer and loads a new duration without starting it.
func (t *CountdownTimer) Reset(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.running = false
	t.remaining = seconds
}

// Stop disposes the current countdown. No callback fires afterwards.
func (t *CountdownTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.running = false
	t.remaining = 0
}

// Remaining returns the seconds left on the current countdown.
func (t *CountdownTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the timer is actively ticking.
func (t *CountdownTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *CountdownTimer) run(gen uint64) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		if t.gen != gen || !t.running {
			t.mu.Unlock()
			return
		}
		t.remaining--
		if t.remaining > 0 {
			t.mu.Unlock()
			continue
		}
		t.running = false
		t.gen++
		fn := t.onExpire
		t.mu.Unlock()

		// Fire outside the lock so the callback can call back into
		// the timer (or into an engine that holds its own lock while
		// pausing this timer) without deadlocking.
		if fn != nil {
			fn()
		}
		return
	}
}
