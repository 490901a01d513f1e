// Package schedule runs delayed callbacks on a single shared timing wheel
package schedule

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

const (
	defaultTick      = 100 * time.Millisecond
	defaultWheelSize = 64
)

// Wheel schedules one-shot callbacks. Callbacks run on the wheel's own
// goroutines, so they should only hand work off, never do it.
type Wheel struct {
	tw *timingwheel.TimingWheel
}

// Timer is a pending callback
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback has already run or been stopped.
	Stop() bool
}

// New starts a wheel with the given precision. Non-positive values fall back to defaults.
func New(tick time.Duration, size int64) *Wheel {
	if tick <= 0 {
		tick = defaultTick
	}
	if size <= 0 {
		size = defaultWheelSize
	}

	tw := timingwheel.NewTimingWheel(tick, size)
	tw.Start()
	return &Wheel{tw: tw}
}

// AfterFunc runs f once d has elapsed
func (w *Wheel) AfterFunc(d time.Duration, f func()) Timer {
	return w.tw.AfterFunc(d, f)
}

// Stop stops the wheel. Pending callbacks never run.
func (w *Wheel) Stop() {
	w.tw.Stop()
}
