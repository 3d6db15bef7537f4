package queue

import "github.com/okian/placemap/internal/domain/model"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithKind labels the queue's metrics with a media kind.
func WithKind(kind model.MediaKind) Option {
	return func(q *InMemoryQueue) {
		q.kind = kind
	}
}
