// Package debounce coalesces bursts of events into the last one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds a single pending value. Every Push replaces the value and
// restarts the window; when the window elapses quietly the handler runs
// once with the most recent value on its own goroutine.
type Debouncer[T any] struct {
	window  time.Duration
	handler func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	gen     uint64
	stopped bool
	running sync.WaitGroup
}

// New returns a Debouncer that calls handler after window of quiet.
func New[T any](window time.Duration, handler func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, handler: handler}
}

// Push records v as the latest event and (re)starts the window.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = v
	d.gen++
	gen := d.gen

	if d.timer != nil && d.timer.Stop() {
		d.running.Done()
	}
	d.running.Add(1)
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	defer d.running.Done()

	d.mu.Lock()
	// a newer Push owns the slot
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	var zero T
	d.pending = zero
	d.mu.Unlock()

	d.handler(v)
}

// Flush cancels the pending window and delivers the pending value now.
// It reports whether there was anything to deliver.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return false
	}
	d.running.Done()
	d.gen++
	v := d.pending
	var zero T
	d.pending = zero
	d.mu.Unlock()

	d.handler(v)
	return true
}

// Stop cancels any pending delivery and waits for an in-flight handler.
// Push after Stop is ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.running.Done()
	}
	d.mu.Unlock()

	d.running.Wait()
}
