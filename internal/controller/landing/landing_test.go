package landing_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/placemap/internal/controller/landing"
	"github.com/okian/placemap/pkg/sched"
	. "github.com/smartystreets/goconvey/convey"
)

type target struct {
	source string
	text   string
	typing bool
}

func (t *target) SetText(s string) { t.text = s }
func (t *target) SetTyping(b bool) { t.typing = b }
func (t *target) Source() string   { return t.source }

type overlay struct {
	title, body target
	hidden      bool
	removed     bool
}

func (o *overlay) Title() landing.Target { return &o.title }
func (o *overlay) Body() landing.Target  { return &o.body }
func (o *overlay) SetHidden(h bool)      { o.hidden = h }
func (o *overlay) Remove()               { o.removed = true }

type preloader struct{ fired int }

func (p *preloader) Preload(ctx context.Context) { p.fired++ }

type sizer struct {
	at    []time.Duration
	clock *sched.Virtual
}

func (s *sizer) InvalidateSize() { s.at = append(s.at, s.clock.Now()) }

func TestLanding(t *testing.T) {
	Convey("Given a landing overlay", t, func() {
		clock := sched.NewVirtual()
		o := &overlay{
			title: target{source: "Oi"},
			body:  target{source: "Bem-vindo a Belém."},
		}
		p := &preloader{}
		sz := &sizer{clock: clock}
		c := landing.New(clock, o, p, sz)

		Convey("When shown", func() {
			c.Show(context.Background())

			Convey("Then the preload fires at once and the title starts typing", func() {
				So(p.fired, ShouldEqual, 1)
				So(o.title.text, ShouldEqual, "O")
				So(o.title.typing, ShouldBeTrue)
				So(o.body.text, ShouldEqual, "")
				So(c.Visible(), ShouldBeTrue)
			})

			Convey("Then showing again does nothing", func() {
				c.Show(context.Background())
				So(p.fired, ShouldEqual, 1)
			})

			Convey("Then the body starts after the title and the pause", func() {
				// title base = 900/2 = 450ms; body starts 120ms later
				clock.Advance(450 * time.Millisecond)
				So(o.title.text, ShouldEqual, "Oi")
				So(o.title.typing, ShouldBeFalse)
				clock.Advance(119 * time.Millisecond)
				So(o.body.text, ShouldEqual, "")
				clock.Advance(time.Millisecond)
				So(o.body.text, ShouldEqual, "B")
			})

			Convey("Then typing completes well before the timeout", func() {
				clock.Advance(5 * time.Second)
				So(c.Typed(), ShouldBeTrue)
				So(o.body.text, ShouldEqual, "Bem-vindo a Belém.")
				So(c.Visible(), ShouldBeTrue)
			})

			Convey("Then the timeout dismisses it and the overlay goes away in steps", func() {
				clock.Advance(landing.DefaultTimeout)
				So(o.hidden, ShouldBeTrue)
				So(o.removed, ShouldBeFalse)

				clock.Advance(landing.DefaultSettle)
				So(o.removed, ShouldBeTrue)
				So(c.Removed(), ShouldBeTrue)
				So(sz.at, ShouldBeEmpty)

				clock.Advance(landing.DefaultResizeDelay)
				So(sz.at, ShouldResemble, []time.Duration{8780 * time.Millisecond})
			})

			Convey("Then skipping mid-title stops every pending step", func() {
				clock.Advance(300 * time.Millisecond)
				So(c.Skip(), ShouldBeTrue)
				So(c.Skip(), ShouldBeFalse)
				So(c.Close(), ShouldBeFalse)

				clock.Advance(time.Minute)
				So(o.title.text, ShouldEqual, "O")
				So(o.body.text, ShouldEqual, "")
				So(c.Typed(), ShouldBeFalse)
				So(o.removed, ShouldBeTrue)
				So(sz.at, ShouldResemble, []time.Duration{1080 * time.Millisecond})
			})

			Convey("Then closing during the pause prevents the body", func() {
				clock.Advance(500 * time.Millisecond)
				c.Close()
				clock.Advance(time.Minute)
				So(o.body.text, ShouldEqual, "")
			})
		})

		Convey("When closed before being shown", func() {
			Convey("Then nothing happens", func() {
				So(c.Close(), ShouldBeFalse)
				So(o.hidden, ShouldBeFalse)
			})
		})
	})

	Convey("Given empty landing texts", t, func() {
		clock := sched.NewVirtual()
		o := &overlay{}
		c := landing.New(clock, o, nil, &sizer{clock: clock}, landing.WithPause(0))
		c.Show(context.Background())
		clock.Advance(0)

		Convey("Then typing resolves without waiting", func() {
			So(c.Typed(), ShouldBeTrue)
		})
	})
}
