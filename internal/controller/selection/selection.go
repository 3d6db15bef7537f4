// Package selection is the hub that keeps the selected place consistent
// across the map camera, the open popup, the list highlight and the
// location's p parameter.
package selection

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/okian/placemap/internal/controller/markers"
	"github.com/okian/placemap/internal/domain/geo"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
)

// Param is the location query parameter holding the selected id.
const Param = "p"

// Defaults.
const (
	DefaultFocusZoom   = 16
	DefaultFlyDuration = 900 * time.Millisecond
	DefaultFitPadding  = 0.2
)

// Source names where a selection came from.
type Source string

// Selection sources.
const (
	SourceAPI    Source = "api"
	SourceMarker Source = "marker"
	SourceList   Source = "list"
	SourceURL    Source = "url"
)

// Markers looks up placed markers.
type Markers interface {
	Get(id string) (markers.Marker, bool)
	Bounds() geo.Bounds
}

// Map is the camera and popup control of the map engine.
type Map interface {
	FlyTo(at model.LatLng, zoom float64, d time.Duration)
	OpenPopup(h uuid.UUID) bool
	Zoom() float64
	FitBounds(b geo.Bounds)
}

// Highlighter marks exactly one rendered row active; "" clears it.
type Highlighter interface {
	SetActive(id string)
}

// Location is the page location's query state.
type Location interface {
	Param(key string) string
	Replace(key, value string)
	Delete(key string)
}

// PaneSwitcher brings the map pane forward on narrow viewports.
type PaneSwitcher interface {
	ShowMap()
}

// State is the single selected id. Only the Controller writes it.
type State struct {
	selected string
}

// Selected returns the selected id, "" when nothing is selected.
func (s *State) Selected() string { return s.selected }

// Controller performs every selection change.
type Controller struct {
	state State

	markers  Markers
	m        Map
	rows     Highlighter
	location Location
	panes    PaneSwitcher

	focusZoom float64
	fly       time.Duration
	padding   float64

	logger logger.Logger
}

// New creates a controller with configuration options.
func New(mk Markers, m Map, rows Highlighter, loc Location, opts ...Option) *Controller {
	c := &Controller{
		markers:   mk,
		m:         m,
		rows:      rows,
		location:  loc,
		focusZoom: DefaultFocusZoom,
		fly:       DefaultFlyDuration,
		padding:   DefaultFitPadding,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetPanes wires the pane switcher once it exists.
func (c *Controller) SetPanes(p PaneSwitcher) {
	c.panes = p
}

// State returns the selection state.
func (c *Controller) State() *State { return &c.state }

// Selected returns the selected id.
func (c *Controller) Selected() string { return c.state.selected }

// Select focuses the place id. Unknown ids are ignored.
func (c *Controller) Select(id string, openPopup bool) {
	c.SelectFrom(SourceAPI, id, openPopup)
}

// SelectFrom is Select with the origin recorded in metrics.
func (c *Controller) SelectFrom(src Source, id string, openPopup bool) {
	mk, ok := c.markers.Get(id)
	if !ok {
		metrics.RecordSelectionMiss()
		c.logger.Debug(context.Background(), "selection target not found",
			logger.String("id", id), logger.String("source", string(src)))
		return
	}

	c.m.FlyTo(mk.LatLng, math.Max(c.m.Zoom(), c.focusZoom), c.fly)
	if openPopup {
		c.m.OpenPopup(mk.Handle)
	}
	c.state.selected = id
	c.rows.SetActive(id)
	c.location.Replace(Param, id)
	if c.panes != nil {
		c.panes.ShowMap()
	}

	metrics.RecordSelection(string(src))
}

// OpenPopup re-opens the popup of id without moving the camera.
func (c *Controller) OpenPopup(id string) bool {
	mk, ok := c.markers.Get(id)
	if !ok {
		return false
	}
	return c.m.OpenPopup(mk.Handle)
}

// Clear drops the selection, its highlight and the p parameter. The camera
// stays where it is.
func (c *Controller) Clear() {
	c.state.selected = ""
	c.rows.SetActive("")
	c.location.Delete(Param)
	metrics.RecordSelectionClear()
}

// FitAll shows every marker with padding, then clears the selection.
func (c *Controller) FitAll() {
	c.Fit()
	c.Clear()
}

// Fit shows every marker with padding and leaves the selection alone.
func (c *Controller) Fit() {
	b := c.markers.Bounds()
	if !b.Valid() {
		return
	}
	c.m.FitBounds(b.Pad(c.padding))
}
