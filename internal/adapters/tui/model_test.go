package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/adapters/mapengine"
	"github.com/okian/placemap/internal/controller/listview"
	"github.com/okian/placemap/internal/domain/types"
	"github.com/okian/placemap/pkg/sched"
	. "github.com/smartystreets/goconvey/convey"
)

type viewer struct {
	engine  *mapengine.Engine
	loc     *location.URL
	booted  []bool
	resized []bool
	rows    []string
	markers [][2]int
	filters []string
	fits    int
	backs   int
	skips   int
	closes  int
}

func (v *viewer) Boot(narrow bool) error    { v.booted = append(v.booted, narrow); return nil }
func (v *viewer) Resize(narrow bool)        { v.resized = append(v.resized, narrow) }
func (v *viewer) ClickRow(id string)        { v.rows = append(v.rows, id) }
func (v *viewer) Filter(q string)           { v.filters = append(v.filters, q) }
func (v *viewer) FitAll()                   { v.fits++ }
func (v *viewer) Back()                     { v.backs++ }
func (v *viewer) SkipLanding() bool         { v.skips++; return true }
func (v *viewer) CloseLanding() bool        { v.closes++; return true }
func (v *viewer) Engine() *mapengine.Engine { return v.engine }
func (v *viewer) Location() *location.URL   { return v.loc }
func (v *viewer) ClickMarker(col, row int) bool {
	v.markers = append(v.markers, [2]int{col, row})
	return true
}

func newModel() (*Model, *Screen, *viewer) {
	screen := NewScreen("Oi", "Olá.")
	m := New(screen, WithBreakpoint(96), WithListWidth(30))
	v := &viewer{loc: location.MustParse("?p=a")}
	v.engine = mapengine.New(sched.NewVirtual(), mapengine.ViewportFunc(m.MapSize))
	m.Attach(v)
	screen.SetRows([]listview.Row{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}})
	screen.SetCount(2)
	return m, screen, v
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelResize(t *testing.T) {
	Convey("Given a model", t, func() {
		m, _, v := newModel()

		Convey("When the first size arrives below the breakpoint", func() {
			m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

			Convey("Then the viewer boots narrow and the map takes the full width", func() {
				So(v.booted, ShouldResemble, []bool{true})
				w, h := m.MapSize()
				So(w, ShouldEqual, 60)
				So(h, ShouldEqual, 18)
			})

			Convey("Then later sizes are resizes", func() {
				m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
				So(v.booted, ShouldHaveLength, 1)
				So(v.resized, ShouldResemble, []bool{false})
				w, _ := m.MapSize()
				So(w, ShouldEqual, 89)
			})
		})
	})
}

func TestModelKeys(t *testing.T) {
	Convey("Given a booted wide model", t, func() {
		m, screen, v := newModel()
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

		Convey("When the overlay is up", func() {
			m.Update(key(" "))
			m.Update(key("esc"))

			Convey("Then keys dismiss it", func() {
				So(v.skips, ShouldEqual, 1)
				So(v.closes, ShouldEqual, 1)
				So(v.fits, ShouldEqual, 0)
			})
		})

		Convey("When the overlay is gone", func() {
			screen.Remove()

			Convey("Then enter clicks the row under the cursor", func() {
				m.Update(key("down"))
				m.Update(key("enter"))
				So(v.rows, ShouldResemble, []string{"b"})
			})

			Convey("Then f fits and b goes back", func() {
				m.Update(key("f"))
				m.Update(key("b"))
				So(v.fits, ShouldEqual, 1)
				So(v.backs, ShouldEqual, 1)
			})

			Convey("Then typing in the search box filters", func() {
				m.Update(key("/"))
				m.Update(key("x"))
				So(v.filters, ShouldResemble, []string{"x"})
				m.Update(key("esc"))
				m.Update(key("f"))
				So(v.fits, ShouldEqual, 1)
			})
		})
	})
}

func TestModelMouse(t *testing.T) {
	Convey("Given a booted wide model without overlay", t, func() {
		m, screen, v := newModel()
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
		screen.Remove()
		press := func(x, y int) {
			m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		}

		Convey("When a list row is clicked", func() {
			// header, filter, counter, then rows
			press(3, 4)

			Convey("Then that row is selected", func() {
				So(v.rows, ShouldResemble, []string{"b"})
			})
		})

		Convey("When the map is clicked", func() {
			press(40, 5)

			Convey("Then the cell is relative to the map pane", func() {
				So(v.markers, ShouldResemble, [][2]int{{9, 4}})
			})
		})
	})
}

func TestModelCall(t *testing.T) {
	Convey("Given a model with an active row", t, func() {
		m, screen, _ := newModel()
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
		ran := false

		Convey("When a posted callback runs", func() {
			m.Update(callMsg(func() {
				ran = true
				screen.SetActive("b")
			}))

			Convey("Then it runs on the update loop and the cursor follows", func() {
				So(ran, ShouldBeTrue)
				So(m.cursor, ShouldEqual, 1)
			})
		})
	})
}

func TestModelView(t *testing.T) {
	Convey("Given a booted model", t, func() {
		m, screen, _ := newModel()
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

		Convey("Then the overlay shows the typed text", func() {
			screen.Title().SetText("Oi")
			So(m.View(), ShouldContainSubstring, "Oi")
		})

		Convey("Then without overlay the list and location render", func() {
			screen.Remove()
			out := m.View()
			So(out, ShouldContainSubstring, "2 lugares")
			So(out, ShouldContainSubstring, "?p=a")
			So(strings.Count(out, "\n"), ShouldEqual, 29)
		})

		Convey("Then the map view offers the way back", func() {
			screen.Remove()
			screen.Apply(types.ViewMap)
			So(m.View(), ShouldContainSubstring, "b voltar")
		})
	})
}
