package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/adapters/mapengine"
	"github.com/okian/placemap/internal/adapters/mq/worker"
	service "github.com/okian/placemap/internal/app"
	"github.com/okian/placemap/internal/app/preload"
	"github.com/okian/placemap/internal/config"
	"github.com/okian/placemap/internal/controller/landing"
	"github.com/okian/placemap/internal/controller/listview"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/internal/domain/places"
	"github.com/okian/placemap/internal/domain/types"
	"github.com/okian/placemap/pkg/sched"
	. "github.com/smartystreets/goconvey/convey"
)

type target struct {
	source string
	text   string
}

func (t *target) SetText(s string) { t.text = s }
func (t *target) SetTyping(bool)   {}
func (t *target) Source() string   { return t.source }

// surface records what the viewer draws.
type surface struct {
	rows    []listview.Row
	active  string
	count   int
	view    types.View
	applied int
	title   target
	body    target
	hidden  bool
	removed bool
}

func (s *surface) SetRows(rows []listview.Row) { s.rows = rows }
func (s *surface) SetActive(id string)         { s.active = id }
func (s *surface) SetCount(n int)              { s.count = n }
func (s *surface) Apply(v types.View)          { s.view = v; s.applied++ }
func (s *surface) Title() landing.Target       { return &s.title }
func (s *surface) Body() landing.Target        { return &s.body }
func (s *surface) SetHidden(h bool)            { s.hidden = h }
func (s *surface) Remove()                     { s.removed = true }

type fetcher struct {
	mu   sync.Mutex
	urls []string
}

func (f *fetcher) Task(model.MediaKind) worker.Task {
	return func(_ context.Context, url string) bool {
		f.mu.Lock()
		f.urls = append(f.urls, url)
		f.mu.Unlock()
		return true
	}
}

func (f *fetcher) Hint(context.Context, string, model.MediaKind) <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

var (
	placeA = model.LatLng{Lat: -1.452, Lng: -48.503}
	placeB = model.LatLng{Lat: -1.300, Lng: -48.400}
)

type fixture struct {
	clock   *sched.Virtual
	surface *surface
	loc     *location.URL
	fetcher *fetcher
	svc     *service.Service
}

func newFixture(raw string, landingEnabled bool, opts ...service.Option) *fixture {
	ctx := context.Background()
	store, err := places.New(ctx, []model.Place{
		{ID: "a", Title: "A", Lat: placeA.Lat, Lng: placeA.Lng, Photo: "https://cdn.test/a.jpg"},
		{ID: "b", Title: "B", Lat: placeB.Lat, Lng: placeB.Lng, VideoMP4: "https://cdn.test/b.mp4"},
	})
	So(err, ShouldBeNil)

	cfg := config.New(ctx)
	cfg.LandingEnabled = landingEnabled
	f := &fixture{
		clock:   sched.NewVirtual(),
		surface: &surface{title: target{source: "Oi"}, body: target{source: "Olá."}},
		loc:     location.MustParse(raw),
		fetcher: &fetcher{},
	}
	opts = append([]service.Option{
		service.WithConfig(cfg),
		service.WithLocation(f.loc),
		service.WithFetcher(f.fetcher),
	}, opts...)
	vp := mapengine.ViewportFunc(func() (int, int) { return 80, 24 })
	f.svc = service.New(store, f.clock, f.surface, vp, opts...)
	return f
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service", t, func() {
		f := newFixture("", false)

		Convey("When booting before start", func() {
			err := f.svc.Boot(false)

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When started twice", func() {
			So(f.svc.Start(context.Background()), ShouldBeNil)
			So(f.svc.Start(context.Background()), ShouldBeNil)

			Convey("Then the components exist and the landing is off", func() {
				So(f.svc.Engine(), ShouldNotBeNil)
				So(f.svc.Selection(), ShouldNotBeNil)
				So(f.svc.Landing(), ShouldBeNil)
				So(f.svc.SkipLanding(), ShouldBeFalse)
				So(f.svc.CloseLanding(), ShouldBeFalse)
			})

			Convey("Then stopping is idempotent and refuses a later boot", func() {
				f.svc.Stop()
				f.svc.Stop()
				So(errors.Is(f.svc.Boot(false), service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty dataset", t, func() {
		store, _ := places.New(context.Background(), nil)
		svc := service.New(store, sched.NewVirtual(), &surface{}, mapengine.ViewportFunc(func() (int, int) { return 80, 24 }))

		Convey("Then start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrNoPlaces), ShouldBeTrue)
		})
	})
}

func TestServiceBoot(t *testing.T) {
	Convey("Given places a and b and the location ?p=b", t, func() {
		f := newFixture("?p=b", false)
		So(f.svc.Start(context.Background()), ShouldBeNil)

		Convey("When booting on a wide viewport", func() {
			So(f.svc.Boot(false), ShouldBeNil)
			f.clock.Advance(time.Second)

			Convey("Then the map is on b with its popup open and row b active", func() {
				So(f.svc.Engine().Camera(), ShouldResemble, mapengine.Camera{Center: placeB, Zoom: 16})
				_, key, open := f.svc.Engine().Popup()
				So(open, ShouldBeTrue)
				So(key, ShouldEqual, "b")
				So(f.surface.active, ShouldEqual, "b")
				So(f.loc.Param("p"), ShouldEqual, "b")
				So(f.surface.count, ShouldEqual, 2)
				So(f.surface.view, ShouldEqual, types.ViewBoth)
				So(f.surface.removed, ShouldBeTrue)
			})

			Convey("Then booting again is a no-op", func() {
				applied := f.surface.applied
				So(f.svc.Boot(true), ShouldBeNil)
				So(f.surface.applied, ShouldEqual, applied)
			})
		})

		Convey("When booting on a narrow viewport", func() {
			So(f.svc.Boot(true), ShouldBeNil)

			Convey("Then the map pane is shown", func() {
				So(f.surface.view, ShouldEqual, types.ViewMap)
				So(f.svc.Selection().Selected(), ShouldEqual, "b")
			})

			Convey("Then back returns to the list and keeps the selection", func() {
				f.svc.Back()
				So(f.surface.view, ShouldEqual, types.ViewList)
				So(f.svc.Selection().Selected(), ShouldEqual, "b")
			})
		})
	})

	Convey("Given a narrow viewer without a selection", t, func() {
		f := newFixture("", false)
		So(f.svc.Start(context.Background()), ShouldBeNil)
		So(f.svc.Boot(true), ShouldBeNil)

		Convey("When back is pressed while a row click is settling", func() {
			f.svc.ClickRow("a")
			So(f.surface.view, ShouldEqual, types.ViewMap)
			f.clock.Advance(50 * time.Millisecond)
			f.svc.Back()
			f.clock.Advance(200 * time.Millisecond)

			Convey("Then the list stays and nothing is selected", func() {
				So(f.surface.view, ShouldEqual, types.ViewList)
				So(f.svc.Selection().Selected(), ShouldEqual, "")
				So(f.loc.Param("p"), ShouldEqual, "")
			})
		})

		Convey("When the row click settles before back", func() {
			f.svc.ClickRow("a")
			f.clock.Advance(200 * time.Millisecond)
			f.svc.Back()

			Convey("Then the selection survives the way back", func() {
				So(f.surface.view, ShouldEqual, types.ViewList)
				So(f.svc.Selection().Selected(), ShouldEqual, "a")
			})
		})
	})

	Convey("Given a stale ?p", t, func() {
		f := newFixture("?p=zzz", false)
		So(f.svc.Start(context.Background()), ShouldBeNil)
		before := f.svc.Engine().Camera()
		So(f.svc.Boot(false), ShouldBeNil)

		Convey("Then every marker is fitted and nothing is selected", func() {
			So(f.svc.Selection().Selected(), ShouldEqual, "")
			So(f.surface.active, ShouldEqual, "")
			So(f.loc.String(), ShouldEqual, "?p=zzz")
			So(f.svc.Engine().Camera(), ShouldNotResemble, before)
		})
	})
}

func TestServiceEvents(t *testing.T) {
	Convey("Given a booted wide viewer", t, func() {
		f := newFixture("", false)
		So(f.svc.Start(context.Background()), ShouldBeNil)
		So(f.svc.Boot(false), ShouldBeNil)

		Convey("When a row is clicked", func() {
			f.svc.ClickRow("a")

			Convey("Then it is selected immediately", func() {
				So(f.svc.Selection().Selected(), ShouldEqual, "a")
				So(f.loc.Param("p"), ShouldEqual, "a")
			})

			Convey("Then fit all clears it", func() {
				f.svc.FitAll()
				So(f.svc.Selection().Selected(), ShouldEqual, "")
				So(f.loc.String(), ShouldEqual, "?")
			})
		})

		Convey("When a marker cell is clicked", func() {
			col, row, ok := f.svc.Engine().CellOf(placeA)
			So(ok, ShouldBeTrue)

			Convey("Then the place is selected with its popup", func() {
				So(f.svc.ClickMarker(col, row), ShouldBeTrue)
				So(f.svc.Selection().Selected(), ShouldEqual, "a")
				_, key, open := f.svc.Engine().Popup()
				So(open, ShouldBeTrue)
				So(key, ShouldEqual, "a")
			})
		})

		Convey("When filtering", func() {
			f.svc.Filter("b")

			Convey("Then only matching rows remain", func() {
				So(f.surface.count, ShouldEqual, 1)
				So(f.svc.List().Rendered(), ShouldResemble, []string{"b"})
			})
		})

		Convey("When the viewport becomes narrow without a selection", func() {
			f.svc.Resize(true)

			Convey("Then the list is shown", func() {
				So(f.surface.view, ShouldEqual, types.ViewList)
			})
		})
	})
}

func TestServiceLanding(t *testing.T) {
	Convey("Given a viewer with the landing overlay", t, func() {
		reports := make(chan preload.Report, 1)
		f := newFixture("", true, service.WithPreloadReport(func(r preload.Report) { reports <- r }))
		So(f.svc.Start(context.Background()), ShouldBeNil)
		So(f.svc.Boot(false), ShouldBeNil)

		Convey("Then the overlay types and the media warms in the background", func() {
			So(f.surface.title.text, ShouldEqual, "O")
			So(f.surface.removed, ShouldBeFalse)

			var r preload.Report
			select {
			case r = <-reports:
			case <-time.After(5 * time.Second):
			}
			So(r.Images.Attempted, ShouldEqual, 1)
			So(r.Videos.Attempted, ShouldEqual, 1)
		})

		Convey("When stopped while the overlay is up", func() {
			f.svc.Stop()
			f.clock.Advance(time.Second)

			Convey("Then the overlay is dismissed", func() {
				So(f.svc.Landing().Visible(), ShouldBeFalse)
				So(f.surface.hidden, ShouldBeTrue)
				So(f.surface.removed, ShouldBeTrue)
			})
		})

		Convey("When skipped", func() {
			So(f.svc.SkipLanding(), ShouldBeTrue)
			f.clock.Advance(time.Second)

			Convey("Then the overlay is removed", func() {
				So(f.surface.hidden, ShouldBeTrue)
				So(f.surface.removed, ShouldBeTrue)
				So(f.svc.Landing().Removed(), ShouldBeTrue)
			})
		})
	})
}
