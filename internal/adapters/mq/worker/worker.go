// Package worker runs bounded pools of preload workers over a shared queue.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/placemap/internal/adapters/mq/queue"
	"github.com/okian/placemap/internal/domain/dedupe"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
)

// Task warms one URL. It reports whether the warm succeeded; failures are
// never errors.
type Task func(ctx context.Context, url string) bool

// Queue defines how workers claim tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// Result counts what a pool did. Attempted always equals Warmed + Failed.
type Result struct {
	Attempted int
	Warmed    int
	Failed    int
}

type counters struct {
	warmed atomic.Int64
	failed atomic.Int64
}

func (c *counters) result() Result {
	w, f := int(c.warmed.Load()), int(c.failed.Load())
	return Result{Attempted: w + f, Warmed: w, Failed: f}
}

// InMemoryWorker claims tasks from a queue until it is drained.
type InMemoryWorker struct {
	queue    Queue
	task     Task
	name     string
	kind     model.MediaKind
	counters *counters

	done chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, task Task, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		task:     task,
		name:     "worker",
		counters: &counters{},
		done:     make(chan struct{}),
		logger:   logger.Discard(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)

	return w
}

// Run claims and runs tasks until the queue is drained or ctx is canceled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			metrics.UpdatePreloadQueueSize(string(w.kind), len(tasks))
			w.process(ctx, t)
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Result returns the worker's counts so far.
func (w *InMemoryWorker) Result() Result { return w.counters.result() }

// process runs one task; a panic counts as a failed attempt.
func (w *InMemoryWorker) process(ctx context.Context, t queue.Task) {
	start := time.Now()
	ok := false
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn(ctx, "preload task panicked",
				logger.String("url", t.URL),
				logger.Error(fmt.Errorf("panic: %v", r)),
			)
			ok = false
		}
		if ok {
			w.counters.warmed.Add(1)
		} else {
			w.counters.failed.Add(1)
			w.logger.Debug(ctx, "preload task failed", logger.String("url", t.URL))
		}
		metrics.RecordPreloadAttempt(string(w.kind), ok, time.Since(start))
	}()

	ok = w.task(ctx, t.URL)
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	kind     model.MediaKind
	counters *counters

	logger logger.Logger
}

// NewPool creates a pool of exactly workerCount workers; fewer than one is
// treated as one.
func NewPool(workerCount int, q Queue, task Task, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}

	template := NewInMemoryWorker(q, task, opts...)
	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		kind:     template.kind,
		counters: &counters{},
		logger:   template.logger.Named("pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{}, opts...)
		workerOpts = append(workerOpts, WithName(string(pool.kind)+"-worker-"+strconv.Itoa(i)))
		w := NewInMemoryWorker(q, task, workerOpts...)
		w.counters = pool.counters
		pool.workers[i] = w
	}

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Run starts every worker and blocks until all of them returned.
func (p *Pool) Run(ctx context.Context) Result {
	var active atomic.Int64
	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		metrics.UpdatePreloadActiveWorkers(string(p.kind), int(active.Add(1)))
		go func(w *InMemoryWorker) {
			defer wg.Done()
			defer func() {
				metrics.UpdatePreloadActiveWorkers(string(p.kind), int(active.Add(-1)))
			}()
			w.Run(ctx)
		}(w)
	}
	wg.Wait()

	res := p.counters.result()
	p.logger.Debug(ctx, "pool drained",
		logger.Int("workers", len(p.workers)),
		logger.Int("attempted", res.Attempted),
		logger.Int("failed", res.Failed),
	)
	return res
}

// Run warms every distinct non-empty URL exactly once using limit workers
// sharing one queue, and returns after the last attempt. Task failures and
// panics are counted, never propagated.
func Run(ctx context.Context, urls []string, limit int, task Task, opts ...Option) Result {
	template := NewInMemoryWorker(nil, task, opts...)
	tasks := Dedupe(urls, template.kind)
	start := time.Now()

	q := queue.Seed(ctx, tasks, queue.WithKind(template.kind))
	res := NewPool(limit, q, task, opts...).Run(ctx)

	metrics.RecordPreloadRun(string(template.kind), time.Since(start))
	return res
}

// Dedupe keeps the first occurrence of every non-empty URL, in order.
func Dedupe(urls []string, kind model.MediaKind) []queue.Task {
	seen := dedupe.NewInMemoryDeduper()
	out := make([]queue.Task, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen.SeenAndRecord(context.Background(), u) {
			continue
		}
		out = append(out, queue.Task{URL: u, Kind: kind})
	}
	return out
}
