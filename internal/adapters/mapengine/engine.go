// Package mapengine is a character-cell map: markers with popups, an
// animated camera and a size cache that must be invalidated after layout
// changes.
//
// The engine is not safe for concurrent use; it lives on the event loop that
// owns its scheduler.
package mapengine

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/placemap/internal/domain/geo"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/internal/domain/popup"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/sched"
)

// Pixel size of one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const defaultFrame = 40 * time.Millisecond

// Glyphs used by Render.
const (
	glyphEmpty  = ' '
	glyphMarker = '•'
	glyphOpen   = '◆'
)

// Camera is the map view: a center and a fractional zoom.
type Camera struct {
	Center model.LatLng
	Zoom   float64
}

func (c Camera) clamp() Camera {
	c.Zoom = math.Max(0, math.Min(geo.MaxZoom, c.Zoom))
	return c
}

// Viewport reports the container size in cells.
type Viewport interface {
	Size() (width, height int)
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() (int, int)

// Size calls f.
func (f ViewportFunc) Size() (int, int) { return f() }

type marker struct {
	handle uuid.UUID
	key    string
	at     model.LatLng
	popup  popup.Content
}

// Engine is the map.
type Engine struct {
	sched    sched.Scheduler
	viewport Viewport
	frame    time.Duration

	width  int
	height int
	camera Camera

	markers map[uuid.UUID]*marker
	order   []*marker
	open    *marker
	onClick func(key string)

	anim      sched.Slot
	animating bool

	logger logger.Logger
}

// New creates an engine sized from vp.
func New(s sched.Scheduler, vp Viewport, opts ...Option) *Engine {
	e := &Engine{
		sched:    s,
		viewport: vp,
		frame:    defaultFrame,
		markers:  make(map[uuid.UUID]*marker),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.width, e.height = e.readSize()
	return e
}

// AddMarker places a marker for key at the given position with its popup
// content and returns its handle.
func (e *Engine) AddMarker(key string, at model.LatLng, content popup.Content) uuid.UUID {
	m := &marker{handle: uuid.New(), key: key, at: at, popup: content}
	e.markers[m.handle] = m
	e.order = append(e.order, m)
	return m.handle
}

// RemoveMarker deletes a marker, closing its popup if open.
func (e *Engine) RemoveMarker(h uuid.UUID) bool {
	m, ok := e.markers[h]
	if !ok {
		return false
	}
	delete(e.markers, h)
	for i, o := range e.order {
		if o == m {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.open == m {
		e.open = nil
	}
	return true
}

// OnMarkerClick sets the click handler; it receives the marker's key.
func (e *Engine) OnMarkerClick(fn func(key string)) {
	e.onClick = fn
}

// Click simulates a click on a marker: its popup opens, then the click
// handler runs.
func (e *Engine) Click(h uuid.UUID) bool {
	m, ok := e.markers[h]
	if !ok {
		return false
	}
	e.open = m
	if e.onClick != nil {
		e.onClick(m.key)
	}
	return true
}

// HitTest returns the topmost marker drawn at the given cell.
func (e *Engine) HitTest(col, row int) (uuid.UUID, bool) {
	for i := len(e.order) - 1; i >= 0; i-- {
		m := e.order[i]
		c, r, ok := e.CellOf(m.at)
		if ok && c == col && r == row {
			return m.handle, true
		}
	}
	return uuid.Nil, false
}

// OpenPopup opens a marker's popup, closing any other.
func (e *Engine) OpenPopup(h uuid.UUID) bool {
	m, ok := e.markers[h]
	if !ok {
		return false
	}
	e.open = m
	return true
}

// ClosePopup closes the open popup, if any.
func (e *Engine) ClosePopup() {
	e.open = nil
}

// Popup returns the open popup's content and marker key.
func (e *Engine) Popup() (popup.Content, string, bool) {
	if e.open == nil {
		return popup.Content{}, "", false
	}
	return e.open.popup, e.open.key, true
}

// Camera returns the current view.
func (e *Engine) Camera() Camera { return e.camera }

// Zoom returns the current zoom.
func (e *Engine) Zoom() float64 { return e.camera.Zoom }

// Animating reports whether a FlyTo is in flight.
func (e *Engine) Animating() bool { return e.animating }

// Size returns the cached container size in cells.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// SetView moves the camera at once, cancelling any animation.
func (e *Engine) SetView(c Camera) {
	e.stop()
	e.camera = c.clamp()
}

// FlyTo animates the camera to center on at with zoom over d. A FlyTo
// issued while another is in flight starts from wherever the camera is.
func (e *Engine) FlyTo(at model.LatLng, zoom float64, d time.Duration) {
	e.stop()
	from := e.camera
	to := Camera{Center: at, Zoom: zoom}.clamp()

	steps := int(math.Ceil(float64(d) / float64(e.frame)))
	if steps < 1 || e.sched == nil {
		e.camera = to
		return
	}

	interval := d / time.Duration(steps)
	e.animating = true
	k := 0
	var frame func()
	frame = func() {
		k++
		if k >= steps {
			e.camera = to
			e.animating = false
			return
		}
		t := easeInOut(float64(k) / float64(steps))
		e.camera = Camera{
			Center: geo.Lerp(from.Center, to.Center, t),
			Zoom:   from.Zoom + (to.Zoom-from.Zoom)*t,
		}
		e.anim.Set(e.sched.AfterFunc(interval, frame))
	}
	e.anim.Set(e.sched.AfterFunc(interval, frame))
}

// FitBounds shows b as large as the cached container size allows.
func (e *Engine) FitBounds(b geo.Bounds) {
	if !b.Valid() {
		return
	}
	sw := geo.Project(b.SouthWest(), 0)
	ne := geo.Project(b.NorthEast(), 0)
	mid := geo.Point{X: (sw.X + ne.X) / 2, Y: (sw.Y + ne.Y) / 2}
	zoom := b.FitZoom(float64(e.width)*CellWidth, float64(e.height)*CellHeight, geo.MaxZoom)
	e.SetView(Camera{Center: geo.Unproject(mid, 0), Zoom: float64(zoom)})
}

// InvalidateSize re-reads the container size, keeping the center fixed.
func (e *Engine) InvalidateSize() {
	w, h := e.readSize()
	if w != e.width || h != e.height {
		e.logger.Debug(context.Background(), "map resized",
			logger.Int("width", w), logger.Int("height", h))
	}
	e.width, e.height = w, h
}

// Render draws the markers into height lines of width cells using the
// cached size. The marker with the open popup is drawn on top.
func (e *Engine) Render() []string {
	if e.width <= 0 || e.height <= 0 {
		return nil
	}
	grid := make([][]rune, e.height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(glyphEmpty), e.width))
	}
	for _, m := range e.order {
		if m == e.open {
			continue
		}
		if c, r, ok := e.CellOf(m.at); ok {
			grid[r][c] = glyphMarker
		}
	}
	if e.open != nil {
		if c, r, ok := e.CellOf(e.open.at); ok {
			grid[r][c] = glyphOpen
		}
	}
	lines := make([]string, e.height)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return lines
}

// CellOf maps a position to a cell of the cached container.
func (e *Engine) CellOf(at model.LatLng) (int, int, bool) {
	p := geo.Project(at, e.camera.Zoom)
	c := geo.Project(e.camera.Center, e.camera.Zoom)
	col := int(math.Floor(float64(e.width)/2 + (p.X-c.X)/CellWidth))
	row := int(math.Floor(float64(e.height)/2 + (p.Y-c.Y)/CellHeight))
	if col < 0 || row < 0 || col >= e.width || row >= e.height {
		return 0, 0, false
	}
	return col, row, true
}

func (e *Engine) readSize() (int, int) {
	if e.viewport == nil {
		return 0, 0
	}
	w, h := e.viewport.Size()
	return max(w, 0), max(h, 0)
}

func (e *Engine) stop() {
	e.anim.Clear()
	e.animating = false
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}
