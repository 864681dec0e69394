// Package schedule provides the deferred-execution capability used to run
// callbacks on a later event-loop turn.
//
// Editor hosts expose their own deferral primitive; Scheduler is the
// narrow interface this module consumes. Loop is a cooperative run queue
// for hosts and tests that need an in-process event loop.
package schedule

import (
	"sync"
	"time"
)

// Scheduler runs callbacks on a later event-loop turn.
type Scheduler interface {
	// Defer schedules fn to run on a fresh turn with no delay.
	Defer(fn func())

	// DeferDelay schedules fn to run after at least d has elapsed.
	DeferDelay(d time.Duration, fn func())
}

// Loop is a single-consumer cooperative run queue implementing Scheduler.
// Callbacks are executed only when the owner calls Step or Drain, which
// models a host event loop turn.
type Loop struct {
	mu    sync.Mutex
	queue []func()
}

// NewLoop creates an empty run queue.
func NewLoop() *Loop {
	return &Loop{}
}

// Defer enqueues fn for the next Step or Drain.
func (l *Loop) Defer(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.queue = append(l.queue, fn)
}

// DeferDelay enqueues fn after at least d has elapsed.
// With a zero or negative delay it behaves like Defer.
func (l *Loop) DeferDelay(d time.Duration, fn func()) {
	if d <= 0 {
		l.Defer(fn)
		return
	}
	time.AfterFunc(d, func() { l.Defer(fn) })
}

// Len returns the number of pending callbacks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

// Step runs the oldest pending callback, if any.
// It reports whether a callback ran.
func (l *Loop) Step() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	l.mu.Unlock()

	fn()
	return true
}

// Drain runs pending callbacks until the queue is empty, including
// callbacks enqueued while draining. It returns the number of callbacks
// run.
func (l *Loop) Drain() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

// Synchronous is a Scheduler that runs callbacks immediately on the
// calling goroutine. Delays are ignored. Intended for tests that do not
// exercise deferral semantics.
type Synchronous struct{}

// Defer runs fn immediately.
func (Synchronous) Defer(fn func()) { fn() }

// DeferDelay runs fn immediately, ignoring the delay.
func (Synchronous) DeferDelay(_ time.Duration, fn func()) { fn() }
