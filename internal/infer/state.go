// Package infer decides when the canvas is classified and runs the classifier
// off the frame loop.
package infer

import (
	"time"

	"sketchassist/internal/config"
)

// State is the classification state toggled by the repeating timer.
type State uint8

const (
	Wait State = iota
	Infer
)

func (s State) String() string {
	switch s {
	case Wait:
		return "wait"
	case Infer:
		return "infer"
	default:
		return "unknown"
	}
}

// Timer is a repeating timer driven by frame deltas.
type Timer struct {
	Interval time.Duration
	elapsed  time.Duration
}

// NewTimer returns a timer firing every interval.
func NewTimer(interval time.Duration) *Timer {
	return &Timer{Interval: interval}
}

// Tick advances the timer by dt and reports whether it fired. The remainder
// carries over; several missed periods fire once.
func (t *Timer) Tick(dt time.Duration) bool {
	if t.Interval <= 0 || dt <= 0 {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.Interval {
		return false
	}
	t.elapsed %= t.Interval
	return true
}

// Elapsed reports the time accumulated towards the next firing.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// Reset restarts the current period.
func (t *Timer) Reset() { t.elapsed = 0 }

// Controller holds the Wait/Infer state machine.
type Controller struct {
	Mode  string
	state State
	timer *Timer
}

// NewController returns a controller in Wait for the given trigger mode.
func NewController(mode string, interval time.Duration) *Controller {
	if mode != config.TriggerKey {
		mode = config.TriggerTimer
	}
	return &Controller{Mode: mode, state: Wait, timer: NewTimer(interval)}
}

// State reports the current state.
func (c *Controller) State() State { return c.state }

// Timer exposes the underlying timer.
func (c *Controller) Timer() *Timer { return c.timer }

// Tick advances the timer and moves to Infer when it fires.
func (c *Controller) Tick(dt time.Duration) {
	if c.timer.Tick(dt) {
		c.state = Infer
	}
}

// Ready reports whether a classification should start this frame.
//
// A Clear in the same frame always cancels. In timer mode the canvas must be
// in Infer and dirty, or the infer key forces a run. In key mode both the
// Infer state and the key press are required.
func (c *Controller) Ready(trigger, cleared, dirty bool) bool {
	if cleared {
		return false
	}
	if c.Mode == config.TriggerKey {
		return c.state == Infer && trigger
	}
	return (c.state == Infer && dirty) || trigger
}

// Done returns the controller to Wait after a run was started.
func (c *Controller) Done() { c.state = Wait }
