// Package watch turns noisy file-system events on Bazel build files into
// debounced refresh triggers.
package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of change signals into a single downstream
// invocation. Every Signal cancels the pending window and schedules a new
// one for now+quietPeriod; the downstream fire happens once the signals go
// quiet. The debouncer decides WHEN to fire; it does not guard against
// overlapping execution of the downstream action. That is the refresh
// coordinator's job.
type Debouncer struct {
	mu         sync.Mutex
	quiet      time.Duration
	timer      *time.Timer
	generation uint64
	fire       func()
	stopped    bool
}

// NewDebouncer creates a debouncer with the given quiet period. A zero or
// negative quiet period degrades to firing on every signal with no
// coalescing.
func NewDebouncer(quiet time.Duration, fire func()) *Debouncer {
	return &Debouncer{
		quiet: quiet,
		fire:  fire,
	}
}

// Signal records one change event. At most one window is pending at any
// time; a new signal supersedes the window in flight. If a window is
// mid-fire when a signal arrives, the fire proceeds and a fresh window is
// scheduled; only un-fired windows are cancelled.
func (d *Debouncer) Signal() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.quiet <= 0 {
		d.mu.Unlock()
		d.fire()
		return
	}

	d.generation++
	gen := d.generation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		// A newer signal or Stop superseded this window between the timer
		// firing and us taking the lock.
		if d.stopped || gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fire()
	})

	d.mu.Unlock()
}

// Pending reports whether a window is scheduled and not yet fired.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending window. Further signals are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
