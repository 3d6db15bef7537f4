package landing

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithDurations sets the target typing durations of title and body.
func WithDurations(title, body time.Duration) Option {
	return func(c *Controller) {
		if title >= 0 {
			c.titleDuration = title
		}
		if body >= 0 {
			c.bodyDuration = body
		}
	}
}

// WithPause sets the gap between title and body.
func WithPause(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.pause = d
		}
	}
}

// WithTimeout sets when the overlay dismisses itself.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSettle sets how long the hide transition lasts before removal.
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
