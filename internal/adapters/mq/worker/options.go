// Package worker runs bounded pools of preload workers over a shared queue.
package worker

import (
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithKind labels the worker's metrics and tasks with a media kind.
func WithKind(kind model.MediaKind) Option {
	return func(w *InMemoryWorker) {
		w.kind = kind
	}
}
