// Package sched provides revocable timers that deliver their callbacks into a
// single-threaded event loop.
//
// Every callback scheduled through a Scheduler runs on the loop that owns it,
// never concurrently with another callback of the same loop. Stopping a
// handle guarantees its callback never runs, even when the timer already
// fired and the callback is waiting in the loop's queue.
package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// Handle is a revocable reference to a scheduled callback.
type Handle interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the callback (false if it already ran or was stopped).
	Stop() bool
}

// Scheduler schedules callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
}

// Poster delivers a function into the owning event loop.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a plain function to Poster.
type PosterFunc func(fn func())

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) { f(fn) }

// task is the shared state behind a Handle. state moves from pending to
// either done or stopped exactly once.
type task struct {
	state atomic.Int32
	timer *time.Timer
}

const (
	statePending int32 = iota
	stateDone
	stateStopped
)

func (t *task) Stop() bool {
	if !t.state.CompareAndSwap(statePending, stateStopped) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// claim marks the task as running; false means it was stopped first.
func (t *task) claim() bool {
	return t.state.CompareAndSwap(statePending, stateDone)
}

// Loop is a real-time Scheduler whose callbacks are posted into an event
// loop instead of running on the timer goroutine.
type Loop struct {
	poster Poster
}

// NewLoop creates a real-time scheduler posting into p.
func NewLoop(p Poster) *Loop {
	return &Loop{poster: p}
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	t := &task{}
	t.timer = time.AfterFunc(d, func() {
		if t.state.Load() != statePending {
			return
		}
		l.poster.Post(func() {
			if t.claim() {
				fn()
			}
		})
	})
	return t
}

// Slot holds at most one pending handle. Setting a new handle stops the
// previous one; Clear stops the current one.
type Slot struct {
	mu sync.Mutex
	h  Handle
}

// Set replaces the pending handle, stopping the previous one.
func (s *Slot) Set(h Handle) {
	s.mu.Lock()
	prev := s.h
	s.h = h
	s.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

// Clear stops the pending handle, if any. It reports whether a pending
// callback was revoked.
func (s *Slot) Clear() bool {
	s.mu.Lock()
	h := s.h
	s.h = nil
	s.mu.Unlock()
	if h == nil {
		return false
	}
	return h.Stop()
}
