// Package dedupe tracks which media URLs were already claimed so that each
// one is warmed at most once per run.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so that it can be claimed again.
	Unrecord(ctx context.Context, key string)

	Size() int
}

// inMemoryDeduper keeps keys in insertion order. In bounded mode the oldest
// key is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int // 0 or negative = unbounded
}

// NewInMemoryDeduper creates a deduper with configuration options. It is
// unbounded unless WithMaxSize says otherwise.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = struct{}{}
	d.order = append(d.order, key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// evictOldest drops the first recorded key. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order[0] = ""
	d.order = d.order[1:]
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
