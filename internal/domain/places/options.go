// Package places holds the immutable place dataset and its filtering.
package places

import "github.com/okian/placemap/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
