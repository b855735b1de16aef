// Package event carries per-frame image edits from the input systems to the
// canvas and inference systems.
package event

import "sketchassist/internal/stroke"

// Kind identifies an ImageEvent.
type Kind uint8

const (
	DrawPos Kind = iota + 1
	Clear
)

func (k Kind) String() string {
	switch k {
	case DrawPos:
		return "draw"
	case Clear:
		return "clear"
	default:
		return "unknown"
	}
}

// ImageEvent is a pending canvas edit. Pos is only set for DrawPos.
type ImageEvent struct {
	Kind Kind
	Pos  stroke.Point
}

// DefaultSlots is the queue capacity used by the scene.
const DefaultSlots = 4096

// Queue is a fixed-size FIFO of image events. It is owned by the frame loop
// and is not safe for concurrent use.
type Queue struct {
	head  uint32
	tail  uint32
	mask  uint32
	slots []ImageEvent

	dropped uint64
}

// NewQueue returns a queue with at least n slots. The size is rounded up to a
// power of two so the free-running counters index correctly after wrapping.
func NewQueue(n int) *Queue {
	if n <= 0 {
		n = DefaultSlots
	}
	size := 1
	for size < n {
		size <<= 1
	}
	return &Queue{slots: make([]ImageEvent, size), mask: uint32(size - 1)}
}

// Cap reports the number of slots.
func (q *Queue) Cap() int { return len(q.slots) }

// TrySend enqueues ev, returning false if the queue is full.
func (q *Queue) TrySend(ev ImageEvent) bool {
	n := uint32(len(q.slots))
	if q.head-q.tail >= n {
		q.dropped++
		return false
	}
	q.slots[q.head&q.mask] = ev
	q.head++
	return true
}

// TryRecv dequeues one event, returning false if empty.
func (q *Queue) TryRecv() (ImageEvent, bool) {
	if q.tail == q.head {
		return ImageEvent{}, false
	}
	ev := q.slots[q.tail&q.mask]
	q.tail++
	return ev, true
}

// Drain calls fn for every queued event in order and empties the queue.
func (q *Queue) Drain(fn func(ImageEvent)) {
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return
		}
		if fn != nil {
			fn(ev)
		}
	}
}

// Peek calls fn for every queued event without consuming them. It stops early
// when fn returns false.
func (q *Queue) Peek(fn func(ImageEvent) bool) {
	for i := q.tail; i != q.head; i++ {
		if !fn(q.slots[i&q.mask]) {
			return
		}
	}
}

// HasClear reports whether a Clear event is pending.
func (q *Queue) HasClear() bool {
	found := false
	q.Peek(func(ev ImageEvent) bool {
		if ev.Kind == Clear {
			found = true
			return false
		}
		return true
	})
	return found
}

// Len reports the number of queued events.
func (q *Queue) Len() int { return int(q.head - q.tail) }

// Dropped reports how many sends failed because the queue was full.
func (q *Queue) Dropped() uint64 { return q.dropped }
