package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that steer loading.
const (
	EnvPrefix  = "PLACEMAP_"
	EnvConfig  = "PLACEMAP_CONFIG"
	EnvEnvFile = "PLACEMAP_ENV_FILE"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PLACEMAP_CONFIG is set
//  3. env (prefix PLACEMAP_), after loading PLACEMAP_ENV_FILE when set
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if path := os.Getenv(EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, path, err)
		}
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PLACEMAP_FOCUS_ZOOM -> focus_zoom; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would make the viewer misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Breakpoint < 1:
		return fmt.Errorf("%w: breakpoint must be positive", ErrInvalidConfig)
	case c.FocusZoom < 0 || c.FocusZoom > 19:
		return fmt.Errorf("%w: focus_zoom must be within 0..19", ErrInvalidConfig)
	case c.DefaultZoom < 0 || c.DefaultZoom > 19:
		return fmt.Errorf("%w: default_zoom must be within 0..19", ErrInvalidConfig)
	case c.ImageConcurrency < 1 || c.VideoConcurrency < 1:
		return fmt.Errorf("%w: preload concurrency must be at least 1", ErrInvalidConfig)
	case c.ImageHintCount < 0 || c.VideoHintCount < 0:
		return fmt.Errorf("%w: hint counts must not be negative", ErrInvalidConfig)
	case c.PreloadRate < 0:
		return fmt.Errorf("%w: preload_rate must not be negative", ErrInvalidConfig)
	case c.LandingTimeoutMS < 1:
		return fmt.Errorf("%w: landing_timeout_ms must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]int{
		"fly_duration_ms":     c.FlyDurationMS,
		"row_select_delay_ms": c.RowSelectDelayMS,
		"invalidate_delay_ms": c.InvalidateDelayMS,
		"title_duration_ms":   c.TitleDurationMS,
		"body_duration_ms":    c.BodyDurationMS,
		"title_body_pause_ms": c.TitleBodyPauseMS,
		"landing_settle_ms":   c.LandingSettleMS,
		"preload_timeout_ms":  c.PreloadTimeoutMS,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
