package preload_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/placemap/internal/adapters/mq/worker"
	"github.com/okian/placemap/internal/app/preload"
	"github.com/okian/placemap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type media struct {
	images []string
	videos []string
}

func (m media) Images() []string { return m.images }
func (m media) Videos() []string { return m.videos }

type fakeFetcher struct {
	mu       sync.Mutex
	hints    map[model.MediaKind][]string
	attempts map[string]int
	fail     map[string]bool
}

func newFakeFetcher(fail ...string) *fakeFetcher {
	f := &fakeFetcher{
		hints:    make(map[model.MediaKind][]string),
		attempts: make(map[string]int),
		fail:     make(map[string]bool),
	}
	for _, u := range fail {
		f.fail[u] = true
	}
	return f
}

func (f *fakeFetcher) Task(kind model.MediaKind) worker.Task {
	return func(ctx context.Context, url string) bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.attempts[string(kind)+":"+url]++
		return !f.fail[url]
	}
}

func (f *fakeFetcher) Hint(ctx context.Context, url string, kind model.MediaKind) <-chan struct{} {
	f.mu.Lock()
	f.hints[kind] = append(f.hints[kind], url)
	f.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done
}

func TestPreloader(t *testing.T) {
	Convey("Given places with images and videos", t, func() {
		m := media{
			images: []string{"i1", "i2", "i3", "i4", "i5", "i6", "i7", "i1"},
			videos: []string{"v1", "v2", "v3"},
		}
		f := newFakeFetcher("i3", "v2")
		p := preload.New(m, f)

		Convey("When a run completes", func() {
			r := p.Start(context.Background())

			Convey("Then the first six images and two videos are hinted", func() {
				So(f.hints[model.MediaImage], ShouldResemble, []string{"i1", "i2", "i3", "i4", "i5", "i6"})
				So(f.hints[model.MediaVideo], ShouldResemble, []string{"v1", "v2"})
				So(r.Hinted, ShouldEqual, 8)
			})

			Convey("Then each distinct URL is attempted once and failures are only counted", func() {
				So(f.attempts["image:i1"], ShouldEqual, 1)
				So(f.attempts["video:v3"], ShouldEqual, 1)
				So(r.Images, ShouldResemble, worker.Result{Attempted: 7, Warmed: 6, Failed: 1})
				So(r.Videos, ShouldResemble, worker.Result{Attempted: 3, Warmed: 2, Failed: 1})
				So(r.RunID.String(), ShouldNotBeEmpty)
			})
		})

		Convey("When fired twice in the background", func() {
			reports := make(chan preload.Report, 2)
			first := p.Go(context.Background(), func(r preload.Report) { reports <- r })
			second := p.Go(context.Background(), func(r preload.Report) { reports <- r })

			Convey("Then only one run happens", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				select {
				case r := <-reports:
					So(r.Images.Attempted, ShouldEqual, 7)
				case <-time.After(5 * time.Second):
					t.Fatal("background preload never settled")
				}
			})
		})
	})

	Convey("Given custom hint counts and limits", t, func() {
		m := media{images: []string{"a", "b", "c"}}
		f := newFakeFetcher()
		p := preload.New(m, f, preload.WithHints(1, 0), preload.WithConcurrency(1, 1), preload.WithTimeout(time.Minute))

		r := p.Start(context.Background())

		Convey("Then only the configured prefix is hinted", func() {
			So(f.hints[model.MediaImage], ShouldResemble, []string{"a"})
			So(r.Hinted, ShouldEqual, 1)
			So(r.Images.Attempted, ShouldEqual, 3)
			So(r.Videos.Attempted, ShouldEqual, 0)
		})
	})
}
