// Package preload warms place media in the background while the landing
// overlay is showing.
package preload

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/placemap/internal/adapters/mq/worker"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Default concurrency and hint sizes.
const (
	DefaultImageConcurrency = 4
	DefaultVideoConcurrency = 2
	DefaultImageHints       = 6
	DefaultVideoHints       = 2
)

// Media lists the URLs to warm, in dataset order.
type Media interface {
	Images() []string
	Videos() []string
}

// Fetcher provides the warm tasks and the cheap preload hint.
type Fetcher interface {
	Task(kind model.MediaKind) worker.Task
	Hint(ctx context.Context, url string, kind model.MediaKind) <-chan struct{}
}

// Report summarises one preload run.
type Report struct {
	RunID   uuid.UUID
	Images  worker.Result
	Videos  worker.Result
	Hinted  int
	Elapsed time.Duration
}

// Preloader runs the image and video pools side by side.
type Preloader struct {
	media   Media
	fetcher Fetcher

	imageLimit int
	videoLimit int
	imageHints int
	videoHints int
	timeout    time.Duration

	once   sync.Once
	logger logger.Logger
}

// New creates a preloader with configuration options.
func New(media Media, fetcher Fetcher, opts ...Option) *Preloader {
	p := &Preloader{
		media:      media,
		fetcher:    fetcher,
		imageLimit: DefaultImageConcurrency,
		videoLimit: DefaultVideoConcurrency,
		imageHints: DefaultImageHints,
		videoHints: DefaultVideoHints,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start hints the first few URLs of each kind, then warms every image and
// video with bounded concurrency. It blocks until both pools settled and
// never fails; individual failures only show up in the report.
func (p *Preloader) Start(ctx context.Context) Report {
	start := time.Now()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	report := Report{RunID: uuid.New()}
	log := p.logger.Named("run").With(logger.String("run_id", report.RunID.String()))

	images := p.media.Images()
	videos := p.media.Videos()
	report.Hinted = p.hint(ctx, images, p.imageHints, model.MediaImage) +
		p.hint(ctx, videos, p.videoHints, model.MediaVideo)

	var g errgroup.Group
	g.Go(func() error {
		report.Images = worker.Run(ctx, images, p.imageLimit, p.fetcher.Task(model.MediaImage),
			worker.WithKind(model.MediaImage), worker.WithLogger(log))
		return nil
	})
	g.Go(func() error {
		report.Videos = worker.Run(ctx, videos, p.videoLimit, p.fetcher.Task(model.MediaVideo),
			worker.WithKind(model.MediaVideo), worker.WithLogger(log))
		return nil
	})
	_ = g.Wait()

	report.Elapsed = time.Since(start)
	log.Info(ctx, "preload settled",
		logger.Int("images", report.Images.Attempted),
		logger.Int("images_failed", report.Images.Failed),
		logger.Int("videos", report.Videos.Attempted),
		logger.Int("videos_failed", report.Videos.Failed),
		logger.Duration("elapsed", report.Elapsed),
	)
	return report
}

// Go runs Start in the background at most once per preloader. onDone, if
// set, receives the report on the preloader's goroutine.
func (p *Preloader) Go(ctx context.Context, onDone func(Report)) bool {
	fired := false
	p.once.Do(func() {
		fired = true
		go func() {
			r := p.Start(ctx)
			if onDone != nil {
				onDone(r)
			}
		}()
	})
	return fired
}

// hint issues preload hints for the first n distinct URLs.
func (p *Preloader) hint(ctx context.Context, urls []string, n int, kind model.MediaKind) int {
	sent := 0
	for _, t := range worker.Dedupe(urls, kind) {
		if sent >= n {
			break
		}
		p.fetcher.Hint(ctx, t.URL, kind)
		sent++
	}
	return sent
}
