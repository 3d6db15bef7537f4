package selection

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithFocusZoom sets the minimum zoom used when focusing a place.
func WithFocusZoom(z float64) Option {
	return func(c *Controller) {
		if z > 0 {
			c.focusZoom = z
		}
	}
}

// WithFlyDuration sets the camera animation length.
func WithFlyDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.fly = d
		}
	}
}

// WithFitPadding sets the ratio FitAll pads the marker bounds by.
func WithFitPadding(ratio float64) Option {
	return func(c *Controller) {
		if ratio >= 0 {
			c.padding = ratio
		}
	}
}

// WithPanes sets the pane switcher.
func WithPanes(p PaneSwitcher) Option {
	return func(c *Controller) {
		c.panes = p
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
