// Package responsive switches between the list and map panes on narrow
// viewports. Above the breakpoint both panes show and the controller is
// inert.
package responsive

import (
	"context"
	"time"

	"github.com/okian/placemap/internal/domain/types"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
	"github.com/okian/placemap/pkg/sched"
)

// DefaultSettle is how long a pane change takes to reach its final size.
const DefaultSettle = 140 * time.Millisecond

// Panes applies a pane arrangement to the layout.
type Panes interface {
	Apply(v types.View)
}

// SelectionReader reads the current selection.
type SelectionReader interface {
	Selected() string
}

// PopupOpener re-opens the popup of a place.
type PopupOpener interface {
	OpenPopup(id string) bool
}

// MapSizer drops the map's cached container size.
type MapSizer interface {
	InvalidateSize()
}

// Controller is the view state machine.
type Controller struct {
	sched     sched.Scheduler
	panes     Panes
	selection SelectionReader
	popups    PopupOpener
	sizer     MapSizer
	settle    time.Duration

	booted bool
	narrow bool
	view   types.View

	invalidate sched.Slot
	reopen     sched.Slot

	logger logger.Logger
}

// New creates a controller with configuration options.
func New(s sched.Scheduler, panes Panes, sel SelectionReader, popups PopupOpener, sizer MapSizer, opts ...Option) *Controller {
	c := &Controller{
		sched:     s,
		panes:     panes,
		selection: sel,
		popups:    popups,
		sizer:     sizer,
		settle:    DefaultSettle,
		view:      types.ViewBoth,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the current arrangement.
func (c *Controller) View() types.View { return c.view }

// Narrow reports whether the viewport is below the breakpoint.
func (c *Controller) Narrow() bool { return c.narrow }

// Boot derives the initial state from the viewport and the selection.
func (c *Controller) Boot(narrow bool) {
	c.booted = true
	c.narrow = narrow
	c.recompute(false)
}

// SetNarrow handles a breakpoint crossing. Repeated notifications for the
// same side are ignored.
func (c *Controller) SetNarrow(narrow bool) {
	if !c.booted {
		c.Boot(narrow)
		return
	}
	if narrow == c.narrow {
		return
	}
	c.narrow = narrow
	c.recompute(true)
}

// ShowMap brings the map pane forward. It does nothing above the breakpoint
// or when the map already shows.
func (c *Controller) ShowMap() {
	if !c.narrow || c.view == types.ViewMap {
		return
	}
	c.transition(types.ViewMap)
}

// Back returns from the map pane to the list.
func (c *Controller) Back() {
	if !c.narrow || c.view != types.ViewMap {
		return
	}
	c.transition(types.ViewList)
}

// recompute sets the state from scratch for the current viewport.
func (c *Controller) recompute(reopen bool) {
	c.reopen.Clear()
	if !c.narrow {
		c.transition(types.ViewBoth)
		return
	}
	id := c.selection.Selected()
	if id == "" {
		c.transition(types.ViewList)
		return
	}
	c.transition(types.ViewMap)
	if reopen {
		c.reopen.Set(c.sched.AfterFunc(c.settle, func() {
			c.popups.OpenPopup(id)
		}))
	}
}

func (c *Controller) transition(to types.View) {
	from := c.view
	c.view = to
	c.panes.Apply(to)
	if from != to {
		metrics.RecordViewTransition(from.String(), to.String())
		c.logger.Debug(context.Background(), "view changed",
			logger.String("from", from.String()), logger.String("to", to.String()))
	}
	if to != types.ViewList {
		c.invalidate.Set(c.sched.AfterFunc(c.settle, c.sizer.InvalidateSize))
	}
}
