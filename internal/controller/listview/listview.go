// Package listview renders the filtered place list and turns row clicks into
// selections.
package listview

import (
	"context"
	"time"

	"github.com/okian/placemap/internal/controller/selection"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/internal/domain/popup"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
	"github.com/okian/placemap/pkg/sched"
)

// DefaultSelectDelay lets the map pane reach its final size before a narrow
// row click moves the camera.
const DefaultSelectDelay = 170 * time.Millisecond

// Row is one rendered list entry.
type Row struct {
	ID    string
	Title string
	Tag   string
	Date  string
}

// Rows is the list surface.
type Rows interface {
	SetRows(rows []Row)
	SetActive(id string)
	SetCount(n int)
}

// Filterer filters the place set.
type Filterer interface {
	Filter(query string) []model.Place
}

// Selector is the selection hub.
type Selector interface {
	SelectFrom(src selection.Source, id string, openPopup bool)
	Selected() string
}

// Viewport reports the narrow-viewport predicate.
type Viewport interface {
	Narrow() bool
}

// PaneSwitcher brings the map pane forward.
type PaneSwitcher interface {
	ShowMap()
}

// Controller owns the rendered rows.
type Controller struct {
	sched    sched.Scheduler
	rows     Rows
	places   Filterer
	selector Selector
	viewport Viewport
	panes    PaneSwitcher

	delay      time.Duration
	dateLayout string
	pending    sched.Slot

	query    string
	rendered []string

	logger logger.Logger
}

// New creates a list controller with configuration options.
func New(s sched.Scheduler, rows Rows, places Filterer, sel Selector, opts ...Option) *Controller {
	c := &Controller{
		sched:      s,
		rows:       rows,
		places:     places,
		selector:   sel,
		delay:      DefaultSelectDelay,
		dateLayout: popup.DefaultDateLayout,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetViewport wires the responsive controller once it exists.
func (c *Controller) SetViewport(v Viewport, p PaneSwitcher) {
	c.viewport = v
	c.panes = p
}

// Render replaces every row, re-applies the selection highlight and
// publishes the count.
func (c *Controller) Render(places []model.Place) {
	rows := make([]Row, len(places))
	ids := make([]string, len(places))
	for i, p := range places {
		rows[i] = Row{ID: p.ID, Title: popup.Plain(p.Title), Tag: popup.Plain(p.Tag), Date: popup.FormatDate(p.Date, c.dateLayout)}
		ids[i] = p.ID
	}
	c.rendered = ids
	c.rows.SetRows(rows)
	c.rows.SetCount(len(rows))
	c.rows.SetActive(c.selector.Selected())
}

// ApplyFilter renders the places matching query. The selection is never
// touched, even when the selected place is filtered out.
func (c *Controller) ApplyFilter(query string) {
	c.query = query
	filtered := c.places.Filter(query)
	c.Render(filtered)
	metrics.RecordFilter(len(filtered))
	c.logger.Debug(context.Background(), "filter applied",
		logger.String("query", query), logger.Int("results", len(filtered)))
}

// Query returns the last applied filter.
func (c *Controller) Query() string { return c.query }

// Rendered returns the ids of the rendered rows in order.
func (c *Controller) Rendered() []string {
	return append([]string(nil), c.rendered...)
}

// Click selects a row. On a narrow viewport the map pane is requested first
// and the selection follows after the settle delay; a newer click replaces a
// pending one.
func (c *Controller) Click(id string) {
	if c.viewport == nil || !c.viewport.Narrow() {
		c.pending.Clear()
		c.selector.SelectFrom(selection.SourceList, id, true)
		return
	}
	if c.panes != nil {
		c.panes.ShowMap()
	}
	c.pending.Set(c.sched.AfterFunc(c.delay, func() {
		c.selector.SelectFrom(selection.SourceList, id, true)
	}))
}

// Cancel drops a pending delayed selection.
func (c *Controller) Cancel() bool {
	return c.pending.Clear()
}
