package mapengine

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCamera sets the initial camera.
func WithCamera(c Camera) Option {
	return func(e *Engine) {
		e.camera = c.clamp()
	}
}

// WithFrameInterval sets the animation step used by FlyTo.
func WithFrameInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.frame = d
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
