package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/okian/placemap/internal/adapters/repository"
	"github.com/okian/placemap/internal/config"
	"github.com/okian/placemap/internal/domain/places"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
)

// Options is the root of the command line. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"configuration YAML path (overrides PLACEMAP_CONFIG)"`
	Places string `short:"p" long:"places" description:"place dataset, YAML or JSON (overrides places_file)"`

	View *ViewCmd `command:"view" description:"Browse the places in the terminal"`
	Warm *WarmCmd `command:"warm" description:"Warm every photo and video once and print the report"`
	List *ListCmd `command:"list" description:"Print the places matching a filter"`

	ctx context.Context
	out io.Writer
}

func newOptions(ctx context.Context, out io.Writer) *Options {
	o := &Options{ctx: ctx, out: out}
	o.View = &ViewCmd{opts: o}
	o.Warm = &WarmCmd{opts: o}
	o.List = &ListCmd{opts: o}
	return o
}

func run(ctx context.Context, args []string, out io.Writer) error {
	parser := flags.NewParser(newOptions(ctx, out), flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(out, ferr.Message)
			return nil
		}
		return err
	}
	return nil
}

// setup loads the configuration and initializes the global logger. The
// interactive view owns the terminal, so without a log file it logs nothing.
func (o *Options) setup(interactive bool) (*config.Config, logger.Logger, error) {
	if o.Config != "" {
		if err := os.Setenv(config.EnvConfig, o.Config); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load(o.ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.Places != "" {
		cfg.PlacesFile = o.Places
	}

	switch {
	case cfg.LogFile != "" || interactive:
		err = logger.InitFile(cfg.LogFile)
	default:
		err = logger.InitWriter(os.Stderr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(o.ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// finish dumps the metrics textfile and flushes the log.
func (o *Options) finish(cfg *config.Config, log logger.Logger) {
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Error(o.ctx, "metrics textfile failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
	}
	_ = logger.Sync()
}

func loadStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*places.Store, error) {
	ps, err := repository.NewFileSource(cfg.PlacesFile).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load places: %w", err)
	}
	store, err := places.New(ctx, ps, places.WithLogger(log.Named("places")))
	if err != nil {
		return nil, fmt.Errorf("invalid places: %w", err)
	}
	return store, nil
}
