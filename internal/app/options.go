package service

import (
	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/app/preload"
	"github.com/okian/placemap/internal/config"
	"github.com/okian/placemap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies every viewer setting from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLocation sets the page location read at boot and written on selection.
func WithLocation(loc *location.URL) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFetcher replaces the HTTP media fetcher used by the preloader.
func WithFetcher(f preload.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithPreloadReport receives the report of the landing preload run. It is
// called on the preloader's goroutine.
func WithPreloadReport(fn func(preload.Report)) Option {
	return func(s *Service) {
		s.onPreload = fn
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
