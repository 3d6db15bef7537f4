package sched

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a deterministic Scheduler driven by an explicit clock. Nothing
// runs until Advance or Flush is called, and callbacks run on the caller's
// goroutine in due-time order (ties in scheduling order).
type Virtual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	queue timerHeap
}

// NewVirtual creates a virtual scheduler at time zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// AfterFunc schedules fn at Now()+d. Negative delays are treated as zero.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	t := &task{}
	v.mu.Lock()
	v.seq++
	heap.Push(&v.queue, &virtualTimer{due: v.now + d, seq: v.seq, fn: fn, task: t})
	v.mu.Unlock()
	return t
}

// Post queues fn to run at the current virtual time.
func (v *Virtual) Post(fn func()) {
	v.AfterFunc(0, fn)
}

// Now returns the elapsed virtual time.
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of scheduled callbacks that were not stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, t := range v.queue {
		if t.task.state.Load() == statePending {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks scheduled by other callbacks within the window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()
	for v.step(target) {
	}
	v.mu.Lock()
	if v.now < target {
		v.now = target
	}
	v.mu.Unlock()
}

// Flush runs callbacks until none is pending and returns the number run.
// It stops after limit callbacks to guard against self-rescheduling loops.
func (v *Virtual) Flush(limit int) int {
	ran := 0
	for ran < limit {
		v.mu.Lock()
		if v.queue.Len() == 0 {
			v.mu.Unlock()
			return ran
		}
		due := v.queue[0].due
		v.mu.Unlock()
		if v.step(due) {
			ran++
		}
	}
	return ran
}

// step runs the earliest callback due at or before target. It reports false
// when nothing is due.
func (v *Virtual) step(target time.Duration) bool {
	for {
		v.mu.Lock()
		if v.queue.Len() == 0 || v.queue[0].due > target {
			v.mu.Unlock()
			return false
		}
		next := heap.Pop(&v.queue).(*virtualTimer)
		if next.due > v.now {
			v.now = next.due
		}
		v.mu.Unlock()
		if next.task.claim() {
			next.fn()
			return true
		}
	}
}

type virtualTimer struct {
	due  time.Duration
	seq  uint64
	fn   func()
	task *task
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}
	return h[i].due < h[j].due
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*virtualTimer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
