package clock

import (
	"sync"
	"time"
)

// Ticker calls fn every interval until fn returns false or Stop is called.
// It is created once and stopped once; both are safe to race with a firing tick.
type Ticker struct {
	clock    Clock
	interval time.Duration
	fn       func() bool

	mu      sync.Mutex
	timer   Timer
	stopped bool
}

// Every starts a Ticker on c.
func Every(c Clock, interval time.Duration, fn func() bool) *Ticker {
	t := &Ticker{clock: c, interval: interval, fn: fn}
	t.mu.Lock()
	t.timer = c.AfterFunc(interval, t.fire)
	t.mu.Unlock()
	return t
}

func (t *Ticker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	more := t.fn()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if !more {
		t.stopped = true
		t.timer = nil
		return
	}
	t.timer = t.clock.AfterFunc(t.interval, t.fire)
}

// Stop cancels the ticker. It reports false if the ticker had already
// finished or been stopped.
func (t *Ticker) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	return true
}

// Active reports whether further ticks can fire.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}
