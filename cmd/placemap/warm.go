package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/placemap/internal/adapters/fetch"
	"github.com/okian/placemap/internal/adapters/mq/worker"
	"github.com/okian/placemap/internal/app/preload"
)

// WarmCmd warms the media of every place, the same run the landing overlay
// starts in the background.
type WarmCmd struct {
	opts *Options
}

// Execute implements flags.Commander.
func (c *WarmCmd) Execute(_ []string) error {
	ctx := c.opts.ctx
	cfg, log, err := c.opts.setup(false)
	if err != nil {
		return err
	}
	defer c.opts.finish(cfg, log)

	store, err := loadStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	client := fetch.New(
		fetch.WithRate(cfg.PreloadRate, cfg.ImageConcurrency+cfg.VideoConcurrency),
		fetch.WithLogger(log.Named("fetch")),
	)
	report := preload.New(store, client,
		preload.WithConcurrency(cfg.ImageConcurrency, cfg.VideoConcurrency),
		preload.WithHints(cfg.ImageHintCount, cfg.VideoHintCount),
		preload.WithTimeout(cfg.PreloadTimeout()),
		preload.WithLogger(log.Named("preload")),
	).Start(ctx)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("KIND", "ATTEMPTED", "WARMED", "FAILED").
		Row(resultRow("images", report.Images)...).
		Row(resultRow("videos", report.Videos)...)
	fmt.Fprintln(c.opts.out, t.Render())
	fmt.Fprintf(c.opts.out, "run %s: %d hinted in %s\n", report.RunID, report.Hinted, report.Elapsed.Round(time.Millisecond))
	return nil
}

func resultRow(kind string, r worker.Result) []string {
	return []string{kind, strconv.Itoa(r.Attempted), strconv.Itoa(r.Warmed), strconv.Itoa(r.Failed)}
}
