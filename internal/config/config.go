// Package config defines viewer configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Durations are stored as milliseconds and exposed through accessors.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives logs; the terminal UI owns stdout. Empty discards.
	LogFile string `koanf:"log_file"`

	// PlacesFile is the YAML or JSON dataset.
	PlacesFile string `koanf:"places_file"`

	// MetricsFile receives a Prometheus textfile dump on exit. Empty disables it.
	MetricsFile string `koanf:"metrics_file"`

	// DateLayout formats place dates (Go reference layout).
	DateLayout string `koanf:"date_layout"`

	// Breakpoint is the terminal width, in columns, below which the viewport is narrow.
	Breakpoint int `koanf:"breakpoint"`

	// FocusZoom is the minimum zoom when a place is selected.
	FocusZoom float64 `koanf:"focus_zoom"`

	// DefaultZoom is the camera zoom before boot.
	DefaultZoom float64 `koanf:"default_zoom"`

	FlyDurationMS     int `koanf:"fly_duration_ms"`
	RowSelectDelayMS  int `koanf:"row_select_delay_ms"`
	InvalidateDelayMS int `koanf:"invalidate_delay_ms"`
	TitleDurationMS   int `koanf:"title_duration_ms"`
	BodyDurationMS    int `koanf:"body_duration_ms"`
	TitleBodyPauseMS  int `koanf:"title_body_pause_ms"`
	LandingTimeoutMS  int `koanf:"landing_timeout_ms"`
	LandingSettleMS   int `koanf:"landing_settle_ms"`
	PreloadTimeoutMS  int `koanf:"preload_timeout_ms"`

	// LandingEnabled shows the introductory overlay at boot.
	LandingEnabled bool   `koanf:"landing_enabled"`
	LandingTitle   string `koanf:"landing_title"`
	LandingText    string `koanf:"landing_text"`

	// ImageConcurrency and VideoConcurrency bound the preload workers.
	ImageConcurrency int `koanf:"image_concurrency"`
	VideoConcurrency int `koanf:"video_concurrency"`

	// ImageHintCount and VideoHintCount size the hinted prefix per kind.
	ImageHintCount int `koanf:"image_hint_count"`
	VideoHintCount int `koanf:"video_hint_count"`

	// PreloadRate paces preload requests per second; 0 disables pacing.
	PreloadRate float64 `koanf:"preload_rate"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		PlacesFile:        "places.yaml",
		DateLayout:        "02/01/2006",
		Breakpoint:        96,
		FocusZoom:         16,
		DefaultZoom:       13,
		FlyDurationMS:     900,
		RowSelectDelayMS:  170,
		InvalidateDelayMS: 140,
		TitleDurationMS:   900,
		BodyDurationMS:    3300,
		TitleBodyPauseMS:  120,
		LandingTimeoutMS:  8000,
		LandingSettleMS:   700,
		PreloadTimeoutMS:  60_000,
		LandingEnabled:    true,
		LandingTitle:      "Mapa afetivo",
		LandingText:       "Lugares, datas e histórias...\nEscolha um ponto no mapa ou na lista.",
		ImageConcurrency:  4,
		VideoConcurrency:  2,
		ImageHintCount:    6,
		VideoHintCount:    2,
		PreloadRate:       20,
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// FlyDuration is the camera animation length.
func (c *Config) FlyDuration() time.Duration { return ms(c.FlyDurationMS) }

// RowSelectDelay is the narrow row-click settle delay.
func (c *Config) RowSelectDelay() time.Duration { return ms(c.RowSelectDelayMS) }

// InvalidateDelay is the pane settle delay before the map re-reads its size.
func (c *Config) InvalidateDelay() time.Duration { return ms(c.InvalidateDelayMS) }

// TitleDuration is the landing title typing target.
func (c *Config) TitleDuration() time.Duration { return ms(c.TitleDurationMS) }

// BodyDuration is the landing body typing target.
func (c *Config) BodyDuration() time.Duration { return ms(c.BodyDurationMS) }

// TitleBodyPause is the gap between title and body.
func (c *Config) TitleBodyPause() time.Duration { return ms(c.TitleBodyPauseMS) }

// LandingTimeout dismisses the overlay.
func (c *Config) LandingTimeout() time.Duration { return ms(c.LandingTimeoutMS) }

// LandingSettle is the hide transition before removal.
func (c *Config) LandingSettle() time.Duration { return ms(c.LandingSettleMS) }

// PreloadTimeout bounds a preload run; zero means unbounded.
func (c *Config) PreloadTimeout() time.Duration { return ms(c.PreloadTimeoutMS) }
