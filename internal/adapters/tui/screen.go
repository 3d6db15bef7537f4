// Package tui draws the viewer in a terminal with bubbletea and turns key
// presses and mouse clicks into viewer events.
package tui

import (
	"github.com/okian/placemap/internal/controller/landing"
	"github.com/okian/placemap/internal/controller/listview"
	"github.com/okian/placemap/internal/domain/types"
)

// Text is a typed overlay line.
type Text struct {
	source string
	text   string
	typing bool
}

// SetText replaces the shown text.
func (t *Text) SetText(s string) { t.text = s }

// SetTyping toggles the caret.
func (t *Text) SetTyping(on bool) { t.typing = on }

// Source returns the full text to type.
func (t *Text) Source() string { return t.source }

// String returns the shown text.
func (t *Text) String() string { return t.text }

// Typing reports whether the caret is on.
func (t *Text) Typing() bool { return t.typing }

// Screen holds what the viewer asked to draw. It is only touched from the
// bubbletea update loop.
type Screen struct {
	rows   []listview.Row
	active string
	count  int
	view   types.View

	title   Text
	body    Text
	hidden  bool
	removed bool
}

// NewScreen creates a screen whose landing overlay types title and body.
func NewScreen(title, body string) *Screen {
	return &Screen{
		view:  types.ViewBoth,
		title: Text{source: title},
		body:  Text{source: body},
	}
}

// SetRows replaces the rendered rows.
func (s *Screen) SetRows(rows []listview.Row) { s.rows = rows }

// SetActive marks one row active; "" clears it.
func (s *Screen) SetActive(id string) { s.active = id }

// SetCount sets the result counter.
func (s *Screen) SetCount(n int) { s.count = n }

// Apply switches the pane arrangement.
func (s *Screen) Apply(v types.View) { s.view = v }

// Title returns the overlay heading.
func (s *Screen) Title() landing.Target { return &s.title }

// Body returns the overlay text.
func (s *Screen) Body() landing.Target { return &s.body }

// SetHidden starts or reverts the overlay fade.
func (s *Screen) SetHidden(hidden bool) { s.hidden = hidden }

// Remove drops the overlay for good.
func (s *Screen) Remove() { s.removed = true }

// Rows returns the rendered rows.
func (s *Screen) Rows() []listview.Row { return s.rows }

// Active returns the active row id.
func (s *Screen) Active() string { return s.active }

// Count returns the result counter.
func (s *Screen) Count() int { return s.count }

// View returns the pane arrangement.
func (s *Screen) View() types.View { return s.view }

// Overlay reports whether the landing overlay covers the viewer.
func (s *Screen) Overlay() bool { return !s.hidden && !s.removed }

func (s *Screen) indexOf(id string) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
