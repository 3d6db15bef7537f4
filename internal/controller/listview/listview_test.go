package listview_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/placemap/internal/controller/listview"
	"github.com/okian/placemap/internal/controller/selection"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/internal/domain/places"
	"github.com/okian/placemap/pkg/sched"
	. "github.com/smartystreets/goconvey/convey"
)

type surface struct {
	rows   []listview.Row
	active string
	count  int
}

func (s *surface) SetRows(rows []listview.Row) { s.rows = rows }
func (s *surface) SetActive(id string)         { s.active = id }
func (s *surface) SetCount(n int)              { s.count = n }

func (s *surface) ids() []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.ID
	}
	return out
}

type selector struct {
	selected string
	calls    []string
	shown    int
	narrow   bool
}

func (s *selector) SelectFrom(src selection.Source, id string, open bool) {
	s.selected = id
	s.calls = append(s.calls, string(src)+":"+id)
}
func (s *selector) Selected() string { return s.selected }
func (s *selector) Narrow() bool     { return s.narrow }
func (s *selector) ShowMap()         { s.shown++ }

func newStore() *places.Store {
	store, _ := places.New(context.Background(), []model.Place{
		{ID: "a", Title: "Mercado Ver-o-Peso", Tag: "Feira", Date: "2024-03-09"},
		{ID: "b", Title: "Forte do Presépio", Text: "Fortificação", Tag: "História"},
		{ID: "c", Title: "Estação das Docas", Text: "Armazéns à beira do rio", Tag: "Passeio"},
	})
	return store
}

func TestFilter(t *testing.T) {
	Convey("Given a rendered list with b selected", t, func() {
		clock := sched.NewVirtual()
		s := &surface{}
		sel := &selector{selected: "b"}
		c := listview.New(clock, s, newStore(), sel)
		c.Render(newStore().All())

		Convey("Then every row shows with its date formatted and b active", func() {
			So(s.ids(), ShouldResemble, []string{"a", "b", "c"})
			So(s.count, ShouldEqual, 3)
			So(s.active, ShouldEqual, "b")
			So(s.rows[0].Date, ShouldEqual, "09/03/2024")
			So(s.rows[1].Date, ShouldEqual, "")
		})

		Convey("When filtering by a tag in another case", func() {
			c.ApplyFilter("  PASSEIO ")

			Convey("Then only matching rows remain and the selection is untouched", func() {
				So(s.ids(), ShouldResemble, []string{"c"})
				So(s.count, ShouldEqual, 1)
				So(sel.selected, ShouldEqual, "b")
				So(sel.calls, ShouldBeEmpty)
				So(c.Query(), ShouldEqual, "  PASSEIO ")
			})
		})

		Convey("When the same filter runs twice", func() {
			c.ApplyFilter("forti")
			first, firstCount := c.Rendered(), s.count
			c.ApplyFilter("forti")

			Convey("Then the rendered set and count are identical", func() {
				So(c.Rendered(), ShouldResemble, first)
				So(s.count, ShouldEqual, firstCount)
				So(s.active, ShouldEqual, "b")
			})
		})

		Convey("When the filter is emptied", func() {
			c.ApplyFilter("docas")
			c.ApplyFilter("")

			Convey("Then all places return in dataset order", func() {
				So(c.Rendered(), ShouldResemble, []string{"a", "b", "c"})
			})
		})
	})
}

func TestClick(t *testing.T) {
	Convey("Given a list on a wide viewport", t, func() {
		clock := sched.NewVirtual()
		sel := &selector{}
		c := listview.New(clock, &surface{}, newStore(), sel)
		c.SetViewport(sel, sel)

		Convey("When a row is clicked", func() {
			c.Click("a")

			Convey("Then it is selected at once", func() {
				So(sel.calls, ShouldResemble, []string{"list:a"})
				So(sel.shown, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a list on a narrow viewport", t, func() {
		clock := sched.NewVirtual()
		sel := &selector{narrow: true}
		c := listview.New(clock, &surface{}, newStore(), sel)
		c.SetViewport(sel, sel)

		Convey("When a row is clicked", func() {
			c.Click("a")

			Convey("Then the map pane is requested first and the selection waits", func() {
				So(sel.shown, ShouldEqual, 1)
				So(sel.calls, ShouldBeEmpty)
				clock.Advance(listview.DefaultSelectDelay - time.Millisecond)
				So(sel.calls, ShouldBeEmpty)
				clock.Advance(time.Millisecond)
				So(sel.calls, ShouldResemble, []string{"list:a"})
			})
		})

		Convey("When a second row is clicked before the first selects", func() {
			c.Click("a")
			clock.Advance(100 * time.Millisecond)
			c.Click("c")
			clock.Advance(time.Second)

			Convey("Then only the latest click selects", func() {
				So(sel.calls, ShouldResemble, []string{"list:c"})
			})
		})

		Convey("When the delay is configured", func() {
			c = listview.New(clock, &surface{}, newStore(), sel, listview.WithSelectDelay(50*time.Millisecond))
			c.SetViewport(sel, sel)
			c.Click("b")
			clock.Advance(50 * time.Millisecond)

			Convey("Then it is honoured", func() {
				So(sel.calls, ShouldResemble, []string{"list:b"})
			})
		})

		Convey("When a pending click is cancelled", func() {
			c.Click("b")
			So(c.Cancel(), ShouldBeTrue)
			clock.Advance(time.Second)

			Convey("Then nothing is selected", func() {
				So(sel.calls, ShouldBeEmpty)
			})
		})
	})
}
