package markers

import "github.com/okian/placemap/pkg/logger"

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithDateLayout sets the date layout used in popups.
func WithDateLayout(layout string) Option {
	return func(r *Registry) {
		if layout != "" {
			r.dateLayout = layout
		}
	}
}

// WithLogger sets a custom logger for the registry.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}
