package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/placemap/internal/domain/popup"
)

// ListCmd prints the places whose title, text or tag contains the filter.
type ListCmd struct {
	Filter string `short:"q" long:"filter" description:"case-insensitive search"`

	opts *Options
}

// Execute implements flags.Commander.
func (c *ListCmd) Execute(args []string) error {
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

	query := c.Filter
	if query == "" {
		query = strings.Join(args, " ")
	}
	matches := store.Filter(query)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "DATE", "TITLE", "TAG")
	for _, p := range matches {
		t.Row(p.ID, popup.FormatDate(p.Date, cfg.DateLayout), p.Title, p.Tag)
	}
	fmt.Fprintln(c.opts.out, t.Render())
	fmt.Fprintf(c.opts.out, "%d of %d places\n", len(matches), store.Len())
	return nil
}
