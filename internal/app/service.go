// Package service wires the place store, the map, the list, the selection
// hub, the responsive view and the landing overlay into one viewer.
//
// Every method except Start and Stop must be called from the event loop that
// owns the scheduler.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/placemap/internal/adapters/fetch"
	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/adapters/mapengine"
	"github.com/okian/placemap/internal/app/preload"
	"github.com/okian/placemap/internal/config"
	"github.com/okian/placemap/internal/controller/landing"
	"github.com/okian/placemap/internal/controller/listview"
	"github.com/okian/placemap/internal/controller/markers"
	"github.com/okian/placemap/internal/controller/responsive"
	"github.com/okian/placemap/internal/controller/selection"
	"github.com/okian/placemap/internal/domain/places"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/sched"
)

// Surface is the screen the viewer draws on.
type Surface interface {
	listview.Rows
	responsive.Panes
	landing.Overlay
}

// Service is the assembled viewer.
type Service struct {
	mu sync.Mutex

	// Collaborators
	store    *places.Store
	sched    sched.Scheduler
	surface  Surface
	viewport mapengine.Viewport
	location *location.URL
	fetcher  preload.Fetcher

	// Components, built by Start
	engine     *mapengine.Engine
	registry   *markers.Registry
	selection  *selection.Controller
	responsive *responsive.Controller
	list       *listview.Controller
	landing    *landing.Controller
	preloader  *preload.Preloader

	cfg       *config.Config
	onPreload func(preload.Report)

	// State
	started bool
	booted  bool
	ctx     context.Context
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service over a loaded store.
func New(store *places.Store, s sched.Scheduler, surface Surface, viewport mapengine.Viewport, opts ...Option) *Service {
	svc := &Service{
		store:    store,
		sched:    s,
		surface:  surface,
		viewport: viewport,
		location: location.MustParse(""),
		cfg:      config.New(context.Background()),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Start builds every component. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil || s.store.Len() == 0 {
		return fmt.Errorf("%w: the dataset is empty", ErrNoPlaces)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	cfg := s.cfg

	first := s.store.All()[0]
	s.engine = mapengine.New(s.sched, s.viewport,
		mapengine.WithCamera(mapengine.Camera{Center: first.LatLng(), Zoom: cfg.DefaultZoom}),
		mapengine.WithLogger(s.logger.Named("map")),
	)
	s.registry = markers.New(ctx, s.store, s.engine,
		markers.WithDateLayout(cfg.DateLayout),
		markers.WithLogger(s.logger.Named("markers")),
	)
	s.selection = selection.New(s.registry, s.engine, s.surface, s.location,
		selection.WithFocusZoom(cfg.FocusZoom),
		selection.WithFlyDuration(cfg.FlyDuration()),
		selection.WithLogger(s.logger.Named("selection")),
	)
	s.responsive = responsive.New(s.sched, s.surface, s.selection, s.selection, s.engine,
		responsive.WithSettle(cfg.InvalidateDelay()),
		responsive.WithLogger(s.logger.Named("responsive")),
	)
	s.selection.SetPanes(s.responsive)
	s.list = listview.New(s.sched, s.surface, s.store, s.selection,
		listview.WithSelectDelay(cfg.RowSelectDelay()),
		listview.WithDateLayout(cfg.DateLayout),
		listview.WithLogger(s.logger.Named("list")),
	)
	s.list.SetViewport(s.responsive, s.responsive)
	s.registry.OnClick(func(id string) {
		s.selection.SelectFrom(selection.SourceMarker, id, true)
	})

	if s.fetcher == nil {
		s.fetcher = fetch.New(
			fetch.WithRate(cfg.PreloadRate, cfg.ImageConcurrency+cfg.VideoConcurrency),
			fetch.WithLogger(s.logger.Named("fetch")),
		)
	}
	s.preloader = preload.New(s.store, s.fetcher,
		preload.WithConcurrency(cfg.ImageConcurrency, cfg.VideoConcurrency),
		preload.WithHints(cfg.ImageHintCount, cfg.VideoHintCount),
		preload.WithTimeout(cfg.PreloadTimeout()),
		preload.WithLogger(s.logger.Named("preload")),
	)
	if cfg.LandingEnabled {
		s.landing = landing.New(s.sched, s.surface, preloadTrigger{s}, s.engine,
			landing.WithDurations(cfg.TitleDuration(), cfg.BodyDuration()),
			landing.WithPause(cfg.TitleBodyPause()),
			landing.WithTimeout(cfg.LandingTimeout()),
			landing.WithSettle(cfg.LandingSettle()),
			landing.WithLogger(s.logger.Named("landing")),
		)
	}

	s.started = true
	s.logger.Info(ctx, "viewer started",
		logger.Int("places", s.store.Len()),
		logger.Bool("landing", cfg.LandingEnabled),
	)
	return nil
}

// Boot renders the initial page: the full list, the initial pane, the place
// named by the location's p parameter if it exists (otherwise every marker
// fitted into view) and finally the landing overlay.
func (s *Service) Boot(narrow bool) error {
	if !s.isStarted() {
		return ErrNotStarted
	}
	if s.booted {
		return nil
	}
	s.booted = true

	s.engine.InvalidateSize()
	s.list.Render(s.store.All())
	s.responsive.Boot(narrow)

	pid := s.location.Param(selection.Param)
	if _, ok := s.registry.Get(pid); pid != "" && ok {
		s.selection.SelectFrom(selection.SourceURL, pid, true)
	} else {
		s.selection.Fit()
	}

	if s.landing != nil {
		s.landing.Show(s.ctx)
	} else {
		s.surface.Remove()
	}

	s.logger.Debug(s.ctx, "viewer booted",
		logger.Bool("narrow", narrow),
		logger.String("p", pid),
		logger.String("view", s.responsive.View().String()),
	)
	return nil
}

// Stop dismisses the overlay and cancels background preloading. Call it
// from the event loop or once the loop has stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.landing != nil {
		s.landing.Close()
	}
	s.cancel()
	s.started = false
	s.logger.Info(context.Background(), "viewer stopped", logger.String("location", s.location.String()))
}

// Resize reports a viewport change: the map follows the container and the
// pane state follows the breakpoint.
func (s *Service) Resize(narrow bool) {
	if !s.booted {
		return
	}
	s.responsive.SetNarrow(narrow)
	s.engine.InvalidateSize()
}

// ClickRow handles a list row click.
func (s *Service) ClickRow(id string) {
	if s.booted {
		s.list.Click(id)
	}
}

// ClickMarker handles a click on a map cell.
func (s *Service) ClickMarker(col, row int) bool {
	if !s.booted {
		return false
	}
	h, ok := s.engine.HitTest(col, row)
	if !ok {
		return false
	}
	return s.engine.Click(h)
}

// Filter applies the search query.
func (s *Service) Filter(query string) {
	if s.booted {
		s.list.ApplyFilter(query)
	}
}

// FitAll shows every marker and clears the selection.
func (s *Service) FitAll() {
	if s.booted {
		s.selection.FitAll()
	}
}

// Back returns from the map pane to the list. A row click still waiting for
// the map pane to settle is dropped with it.
func (s *Service) Back() {
	if s.booted {
		s.list.Cancel()
		s.responsive.Back()
	}
}

// SkipLanding dismisses the overlay early.
func (s *Service) SkipLanding() bool {
	if s.landing == nil {
		return false
	}
	return s.landing.Skip()
}

// CloseLanding dismisses the overlay through its close control.
func (s *Service) CloseLanding() bool {
	if s.landing == nil {
		return false
	}
	return s.landing.Close()
}

// Engine returns the map.
func (s *Service) Engine() *mapengine.Engine { return s.engine }

// Selection returns the selection hub.
func (s *Service) Selection() *selection.Controller { return s.selection }

// Responsive returns the view state machine.
func (s *Service) Responsive() *responsive.Controller { return s.responsive }

// List returns the list controller.
func (s *Service) List() *listview.Controller { return s.list }

// Landing returns the overlay controller; nil when the landing is disabled.
func (s *Service) Landing() *landing.Controller { return s.landing }

// Location returns the current location.
func (s *Service) Location() *location.URL { return s.location }

func (s *Service) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// preloadTrigger fires the preloader in the background for the landing.
type preloadTrigger struct{ s *Service }

func (p preloadTrigger) Preload(ctx context.Context) {
	p.s.preloader.Go(ctx, func(r preload.Report) {
		if p.s.onPreload != nil {
			p.s.onPreload(r)
		}
	})
}
