package responsive

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSettle sets the delay before the map re-reads its size.
func WithSettle(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}
