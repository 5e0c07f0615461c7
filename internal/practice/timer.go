package practice

import (
	"sync"
	"time"
)

// Timer calls a function on a fixed interval. Starting it again cancels the
// previous run first, so at most one run is ever live.
type Timer struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	run  uint64
}

// NewTimer creates a stopped Timer.
func NewTimer(interval time.Duration) *Timer {
	return &Timer{interval: interval}
}

// Start cancels any running countdown and begins a new one. Each call to fn
// receives the token of the run that produced it; Start returns that token.
func (t *Timer) Start(fn func(run uint64)) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.run++
	run := t.run
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// A tick can race with Stop; drop it if this run is over.
				select {
				case <-stop:
					return
				default:
				}
				fn(run)
			}
		}
	}()
	return run
}

// Stop cancels the running countdown, if any. It does not wait for an
// in-flight callback to return.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Running reports whether a countdown is live.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
