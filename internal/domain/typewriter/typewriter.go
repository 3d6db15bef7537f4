// Package typewriter reveals text one character at a time at a variable
// pace that still lands close to a target total duration.
package typewriter

import (
	"time"

	"github.com/okian/placemap/pkg/sched"
)

// MinBaseDelay is the floor for the uniform per-character delay.
const MinBaseDelay = 10 * time.Millisecond

// Extra pauses after punctuation, on top of the base delay.
const (
	pauseComma     = 140 * time.Millisecond
	pauseSemicolon = 170 * time.Millisecond
	pauseColon     = 180 * time.Millisecond
	pauseEllipsis  = 110 * time.Millisecond // per dot of a "..." run
	pauseTerminal  = 320 * time.Millisecond
	pauseNewline   = 260 * time.Millisecond
)

// noNext marks the end of the text when computing a pause.
const noNext rune = -1

// Element is a text target being typed into.
type Element interface {
	SetText(text string)
	SetTyping(typing bool)
}

// Pause returns the extra delay after cur given the following rune.
func Pause(cur, next rune) time.Duration {
	switch cur {
	case ',':
		return pauseComma
	case ';':
		return pauseSemicolon
	case ':':
		return pauseColon
	case '…':
		return pauseTerminal
	case '.':
		if next == '.' {
			return pauseEllipsis
		}
		return pauseTerminal
	case '!', '?':
		return pauseTerminal
	case '\n':
		return pauseNewline
	}
	return 0
}

// TotalPause sums Pause over every rune of text.
func TotalPause(text []rune) time.Duration {
	var total time.Duration
	for i, r := range text {
		total += Pause(r, at(text, i+1))
	}
	return total
}

// BaseDelay is max(MinBaseDelay, floor((target - TotalPause) / len)) in
// whole milliseconds. Empty text has no base delay.
func BaseDelay(text []rune, target time.Duration) time.Duration {
	if len(text) == 0 {
		return 0
	}
	remaining := (target - TotalPause(text)).Milliseconds()
	base := floorDiv(remaining, int64(len(text)))
	d := time.Duration(base) * time.Millisecond
	if d < MinBaseDelay {
		return MinBaseDelay
	}
	return d
}

// Engine schedules typing steps on a scheduler.
type Engine struct {
	sched sched.Scheduler
}

// New creates an engine on s.
func New(s sched.Scheduler) *Engine {
	return &Engine{sched: s}
}

// Play clears el and reveals text into it. The first rune appears
// immediately; each following one after BaseDelay plus the pause of the rune
// before it. Every scheduled step is stored in pending, so clearing pending
// stops the run and done is never called. done runs after the last rune, or
// synchronously when text is empty.
func (e *Engine) Play(el Element, text string, target time.Duration, pending *sched.Slot, done func()) {
	if done == nil {
		done = func() {}
	}
	if pending == nil {
		pending = &sched.Slot{}
	}
	if el == nil {
		done()
		return
	}

	runes := []rune(text)
	el.SetText("")
	el.SetTyping(true)
	if len(runes) == 0 {
		el.SetTyping(false)
		done()
		return
	}

	base := BaseDelay(runes, target)
	i := 0
	var tick func()
	tick = func() {
		cur := runes[i]
		i++
		el.SetText(string(runes[:i]))
		if i >= len(runes) {
			el.SetTyping(false)
			done()
			return
		}
		pending.Set(e.sched.AfterFunc(base+Pause(cur, runes[i]), tick))
	}
	tick()
}

func at(text []rune, i int) rune {
	if i < len(text) {
		return text[i]
	}
	return noNext
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
