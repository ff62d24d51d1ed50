package filter

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before filter changes are propagated.
const DefaultDelay = 400 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc.
var RealClock Clock = realClock{}

// Debouncer holds at most one pending callback. Scheduling a new one
// replaces the previous one, so only the last callback of a burst runs.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	closed bool

	// held while a callback runs so Close can wait for it
	deliver sync.Mutex
}

// NewDebouncer returns a Debouncer firing after delay on clock.
func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Schedule cancels any pending callback and arms fn. It is a no-op once
// the Debouncer is closed.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen, fn) })
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()
}

// Pending reports whether a callback is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels the pending callback and waits for one that is already
// running. Nothing is delivered after Close returns. Close must not be
// called from inside a scheduled callback.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()

	// wait out a delivery already in progress
	d.deliver.Lock()
	d.deliver.Unlock()
}

// stopLocked invalidates the current generation so that a timer which
// already fired but has not yet taken the lock drops its callback.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) fire(gen uint64, fn func()) {
	d.deliver.Lock()
	defer d.deliver.Unlock()

	d.mu.Lock()
	live := !d.closed && gen == d.gen
	if live {
		d.timer = nil
	}
	d.mu.Unlock()

	if live {
		fn()
	}
}
