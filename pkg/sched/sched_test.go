package sched_test

import (
	"sync"
	"testing"
	"time"

	"github.com/okian/placemap/pkg/sched"
	"github.com/smartystreets/goconvey/convey"
)

func TestVirtual(t *testing.T) {
	convey.Convey("Given a virtual scheduler", t, func() {
		v := sched.NewVirtual()
		var order []string

		convey.Convey("When callbacks are scheduled out of order", func() {
			v.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
			v.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
			v.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

			convey.Convey("Then nothing runs before the clock moves", func() {
				convey.So(order, convey.ShouldBeEmpty)
				convey.So(v.Pending(), convey.ShouldEqual, 3)
			})

			convey.Convey("Then Advance runs only what is due, in order", func() {
				v.Advance(10 * time.Millisecond)
				convey.So(order, convey.ShouldResemble, []string{"a", "b"})
				convey.So(v.Now(), convey.ShouldEqual, 10*time.Millisecond)

				v.Advance(25 * time.Millisecond)
				convey.So(order, convey.ShouldResemble, []string{"a", "b", "c"})
				convey.So(v.Now(), convey.ShouldEqual, 35*time.Millisecond)
			})
		})

		convey.Convey("When a callback schedules another inside the window", func() {
			v.AfterFunc(5*time.Millisecond, func() {
				order = append(order, "first")
				v.AfterFunc(5*time.Millisecond, func() { order = append(order, "second") })
			})
			v.Advance(10 * time.Millisecond)

			convey.Convey("Then both run", func() {
				convey.So(order, convey.ShouldResemble, []string{"first", "second"})
			})
		})

		convey.Convey("When a handle is stopped", func() {
			h := v.AfterFunc(5*time.Millisecond, func() { order = append(order, "x") })

			convey.So(h.Stop(), convey.ShouldBeTrue)
			convey.So(h.Stop(), convey.ShouldBeFalse)
			v.Advance(time.Second)

			convey.Convey("Then its callback never runs", func() {
				convey.So(order, convey.ShouldBeEmpty)
				convey.So(v.Pending(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When flushing", func() {
			v.AfterFunc(time.Hour, func() { order = append(order, "late") })
			v.Post(func() { order = append(order, "now") })
			ran := v.Flush(10)

			convey.Convey("Then every pending callback runs and the clock follows", func() {
				convey.So(ran, convey.ShouldEqual, 2)
				convey.So(order, convey.ShouldResemble, []string{"now", "late"})
				convey.So(v.Now(), convey.ShouldEqual, time.Hour)
			})
		})

		convey.Convey("When a callback reschedules itself forever", func() {
			var tick func()
			tick = func() { v.AfterFunc(time.Millisecond, tick) }
			v.AfterFunc(0, tick)

			convey.Convey("Then Flush stops at its limit", func() {
				convey.So(v.Flush(50), convey.ShouldEqual, 50)
			})
		})
	})
}

func TestSlot(t *testing.T) {
	convey.Convey("Given a slot", t, func() {
		v := sched.NewVirtual()
		var slot sched.Slot
		ran := 0

		convey.Convey("When a second handle is set", func() {
			slot.Set(v.AfterFunc(10*time.Millisecond, func() { ran++ }))
			slot.Set(v.AfterFunc(20*time.Millisecond, func() { ran += 10 }))
			v.Advance(time.Second)

			convey.Convey("Then the first is revoked", func() {
				convey.So(ran, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When cleared", func() {
			slot.Set(v.AfterFunc(10*time.Millisecond, func() { ran++ }))

			convey.So(slot.Clear(), convey.ShouldBeTrue)
			convey.So(slot.Clear(), convey.ShouldBeFalse)
			v.Advance(time.Second)

			convey.Convey("Then nothing runs", func() {
				convey.So(ran, convey.ShouldEqual, 0)
			})
		})
	})
}

func TestLoop(t *testing.T) {
	convey.Convey("Given a real-time loop with a queued poster", t, func() {
		var mu sync.Mutex
		var queued []func()
		poster := sched.PosterFunc(func(fn func()) {
			mu.Lock()
			queued = append(queued, fn)
			mu.Unlock()
		})
		loop := sched.NewLoop(poster)

		convey.Convey("When the timer fires", func() {
			ran := false
			loop.AfterFunc(time.Millisecond, func() { ran = true })
			waitQueued(&mu, &queued, 1)

			convey.Convey("Then the callback waits for the loop", func() {
				convey.So(ran, convey.ShouldBeFalse)
				mu.Lock()
				fn := queued[0]
				mu.Unlock()
				fn()
				convey.So(ran, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When stopped after firing but before the loop runs it", func() {
			ran := false
			h := loop.AfterFunc(time.Millisecond, func() { ran = true })
			waitQueued(&mu, &queued, 1)
			stopped := h.Stop()
			mu.Lock()
			fn := queued[0]
			mu.Unlock()
			fn()

			convey.Convey("Then the queued callback is revoked", func() {
				convey.So(stopped, convey.ShouldBeTrue)
				convey.So(ran, convey.ShouldBeFalse)
			})
		})
	})
}

func waitQueued(mu *sync.Mutex, queued *[]func(), n int) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		l := len(*queued)
		mu.Unlock()
		if l >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
