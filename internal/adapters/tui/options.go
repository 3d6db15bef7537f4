package tui

import "github.com/okian/placemap/pkg/logger"

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithBreakpoint sets the width, in columns, below which the viewport is narrow.
func WithBreakpoint(cols int) Option {
	return func(m *Model) {
		if cols > 0 {
			m.breakpoint = cols
		}
	}
}

// WithListWidth sets the list pane width on wide viewports.
func WithListWidth(cols int) Option {
	return func(m *Model) {
		if cols > 0 {
			m.listWidth = cols
		}
	}
}

// WithLogger sets a custom logger for the model.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}
