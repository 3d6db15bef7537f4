// Package landing plays the introductory overlay: typed title and body, a
// background media preload, and a dismissal on timeout or skip.
package landing

import (
	"context"
	"time"

	"github.com/okian/placemap/internal/domain/typewriter"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
	"github.com/okian/placemap/pkg/sched"
)

// Default timings.
const (
	DefaultTitleDuration = 900 * time.Millisecond
	DefaultBodyDuration  = 3300 * time.Millisecond
	DefaultPause         = 120 * time.Millisecond
	DefaultTimeout       = 8000 * time.Millisecond
	DefaultSettle        = 700 * time.Millisecond
	DefaultResizeDelay   = 80 * time.Millisecond
)

// Dismissal reasons.
const (
	ReasonTimeout = "timeout"
	ReasonSkip    = "skip"
	ReasonClose   = "close"
)

// Target is a typewriter element that carries its own source text.
type Target interface {
	typewriter.Element
	Source() string
}

// Overlay is the landing surface.
type Overlay interface {
	Title() Target
	Body() Target
	SetHidden(hidden bool)
	Remove()
}

// Preloader starts the background media warm-up; it must not block.
type Preloader interface {
	Preload(ctx context.Context)
}

// MapSizer drops the map's cached container size.
type MapSizer interface {
	InvalidateSize()
}

type phase int

const (
	phaseIdle phase = iota
	phaseShowing
	phaseClosing
	phaseClosed
)

// Controller runs the overlay.
type Controller struct {
	sched     sched.Scheduler
	typer     *typewriter.Engine
	overlay   Overlay
	preloader Preloader
	sizer     MapSizer

	titleDuration time.Duration
	bodyDuration  time.Duration
	pause         time.Duration
	timeout       time.Duration
	settle        time.Duration
	resizeDelay   time.Duration

	phase   phase
	typed   bool
	typing  sched.Slot
	dismiss sched.Slot
	removal sched.Slot

	logger logger.Logger
}

// New creates a landing controller with configuration options.
func New(s sched.Scheduler, overlay Overlay, preloader Preloader, sizer MapSizer, opts ...Option) *Controller {
	c := &Controller{
		sched:         s,
		typer:         typewriter.New(s),
		overlay:       overlay,
		preloader:     preloader,
		sizer:         sizer,
		titleDuration: DefaultTitleDuration,
		bodyDuration:  DefaultBodyDuration,
		pause:         DefaultPause,
		timeout:       DefaultTimeout,
		settle:        DefaultSettle,
		resizeDelay:   DefaultResizeDelay,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show starts the sequence: title, pause, body. The preloader fires at once
// and the dismissal timer is armed independently of typing.
func (c *Controller) Show(ctx context.Context) {
	if c.phase != phaseIdle || c.overlay == nil {
		return
	}
	c.phase = phaseShowing
	c.overlay.SetHidden(false)

	if c.preloader != nil {
		c.preloader.Preload(ctx)
	}
	c.dismiss.Set(c.sched.AfterFunc(c.timeout, func() {
		c.close(ReasonTimeout)
	}))

	title, body := c.overlay.Title(), c.overlay.Body()
	c.typer.Play(title, title.Source(), c.titleDuration, &c.typing, func() {
		c.typing.Set(c.sched.AfterFunc(c.pause, func() {
			c.typer.Play(body, body.Source(), c.bodyDuration, &c.typing, func() {
				c.typed = true
			})
		}))
	})
}

// Close dismisses the overlay. It is safe to call any number of times.
func (c *Controller) Close() bool {
	return c.close(ReasonClose)
}

// Skip is the user's explicit dismissal.
func (c *Controller) Skip() bool {
	return c.close(ReasonSkip)
}

// Visible reports whether the overlay is still on screen.
func (c *Controller) Visible() bool { return c.phase == phaseShowing }

// Removed reports whether the overlay element is gone.
func (c *Controller) Removed() bool { return c.phase == phaseClosed }

// Typed reports whether both texts finished typing.
func (c *Controller) Typed() bool { return c.typed }

func (c *Controller) close(reason string) bool {
	if c.phase != phaseShowing {
		return false
	}
	c.phase = phaseClosing
	c.typing.Clear()
	c.dismiss.Clear()
	c.overlay.SetHidden(true)

	metrics.RecordLandingDismissal(reason)
	c.logger.Debug(context.Background(), "landing dismissed", logger.String("reason", reason))

	c.removal.Set(c.sched.AfterFunc(c.settle, func() {
		c.overlay.Remove()
		c.phase = phaseClosed
		c.removal.Set(c.sched.AfterFunc(c.resizeDelay, c.sizer.InvalidateSize))
	}))
	return true
}
