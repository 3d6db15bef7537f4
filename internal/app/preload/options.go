package preload

import (
	"time"

	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Preloader.
type Option func(*Preloader)

// WithConcurrency sets the worker counts for images and videos.
func WithConcurrency(images, videos int) Option {
	return func(p *Preloader) {
		if images > 0 {
			p.imageLimit = images
		}
		if videos > 0 {
			p.videoLimit = videos
		}
	}
}

// WithHints sets how many leading images and videos are hinted.
func WithHints(images, videos int) Option {
	return func(p *Preloader) {
		if images >= 0 {
			p.imageHints = images
		}
		if videos >= 0 {
			p.videoHints = videos
		}
	}
}

// WithTimeout bounds a whole preload run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Preloader) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the preloader.
func WithLogger(l logger.Logger) Option {
	return func(p *Preloader) {
		if l != nil {
			p.logger = l
		}
	}
}
