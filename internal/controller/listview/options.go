package listview

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSelectDelay sets how long a narrow row click waits before selecting.
func WithSelectDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithDateLayout sets the layout of the row date.
func WithDateLayout(layout string) Option {
	return func(c *Controller) {
		if layout != "" {
			c.dateLayout = layout
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
