// Package queue holds the shared work queue that preload workers claim from.
//
// The queue is a buffered channel: a receive is the claim, so no two
// workers can ever take the same item.
package queue

import (
	"context"
	"sync"

	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Task represents the payload type flowing through the queue.
type Task = model.MediaTask

// Queue provides non-blocking enqueue and channel-based claim semantics.
type Queue interface {
	// Enqueue adds a task to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, t Task) bool

	// Dequeue returns the channel workers claim tasks from.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Task

	// Len returns the number of unclaimed tasks.
	Len(ctx context.Context) int

	// Close seals the queue. No new tasks can be enqueued afterwards.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int
	kind     model.MediaKind

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.tasks = make(chan Task, q.capacity)
	metrics.UpdatePreloadQueueSize(string(q.kind), 0)

	return q
}

// Seed builds a sealed queue holding tasks, capacity sized to fit them.
func Seed(ctx context.Context, tasks []Task, opts ...Option) *InMemoryQueue {
	opts = append(opts, WithCapacity(len(tasks)))
	q := NewInMemoryQueue(opts...)
	for _, t := range tasks {
		q.Enqueue(ctx, t)
	}
	_ = q.Close()
	return q
}

// Enqueue adds a task to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.tasks <- t:
		metrics.UpdatePreloadQueueSize(string(q.kind), len(q.tasks))
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue is full
	}
}

// Dequeue returns the claim channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Task {
	return q.tasks
}

// Len returns the current number of unclaimed tasks.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.tasks)
	metrics.UpdatePreloadQueueSize(string(q.kind), size)
	return size
}

// Close seals the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.tasks)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
