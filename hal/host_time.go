package hal

import "time"

type hostTime struct {
	ch  chan uint64
	seq uint64

	now  func() time.Time
	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return newHostTimeWithClock(time.Now)
}

func newHostTimeWithClock(now func() time.Time) *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step converts elapsed wall time into whole millisecond ticks.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.stepN(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.stepN(ticks)
}

// advance adds an exact number of ticks regardless of wall time (headless runs).
func (t *hostTime) advance(d time.Duration) {
	n := uint64(d / time.Millisecond)
	if n == 0 {
		n = 1
	}
	t.stepN(n)
}

// stepN publishes the latest sequence number. Consumers only need the newest
// value, so a full channel drops intermediate values.
func (t *hostTime) stepN(n uint64) {
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}
