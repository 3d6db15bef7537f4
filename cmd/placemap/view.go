package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/adapters/mapengine"
	"github.com/okian/placemap/internal/adapters/tui"
	service "github.com/okian/placemap/internal/app"
	"github.com/okian/placemap/internal/app/preload"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/sched"
)

// ViewCmd runs the interactive viewer and prints the final location on exit.
type ViewCmd struct {
	URL       string `short:"u" long:"url" description:"initial location, e.g. ?p=ver-o-peso"`
	NoLanding bool   `long:"no-landing" description:"skip the introductory overlay"`

	opts *Options
}

// Execute implements flags.Commander.
func (c *ViewCmd) Execute(_ []string) error {
	ctx := c.opts.ctx
	cfg, log, err := c.opts.setup(true)
	if err != nil {
		return err
	}
	defer c.opts.finish(cfg, log)

	store, err := loadStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	loc, err := location.Parse(c.URL)
	if err != nil {
		return err
	}
	if c.NoLanding {
		cfg.LandingEnabled = false
	}

	screen := tui.NewScreen(cfg.LandingTitle, cfg.LandingText)
	model := tui.New(screen,
		tui.WithBreakpoint(cfg.Breakpoint),
		tui.WithLogger(log.Named("tui")),
	)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	svc := service.New(store, sched.NewLoop(tui.Poster(program)), screen, mapengine.ViewportFunc(model.MapSize),
		service.WithConfig(cfg),
		service.WithLocation(loc),
		service.WithLogger(log.Named("viewer")),
		service.WithPreloadReport(func(r preload.Report) {
			log.Info(ctx, "landing preload done",
				logger.String("run_id", r.RunID.String()),
				logger.Int("images_warmed", r.Images.Warmed),
				logger.Int("videos_warmed", r.Videos.Warmed),
			)
		}),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start viewer: %w", err)
	}
	defer svc.Stop()
	model.Attach(svc)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}
	fmt.Fprintln(c.opts.out, loc.String())
	return nil
}
