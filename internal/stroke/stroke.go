// Package stroke turns sparse cursor samples into a continuous pen path.
package stroke

import "math"

// Point is a position in canvas view space.
type Point struct {
	X, Y float32
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float32 {
	return float32(math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y)))
}

// Lerp returns p + (q-p)*t.
func (p Point) Lerp(q Point, t float32) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// DefaultLength is the number of recent points a Trail keeps.
const DefaultLength = 32

// Trail is a bounded ring of recent cursor points for the current stroke.
type Trail struct {
	// MinDistance drops samples closer than this to the previous point.
	MinDistance float32

	pts  []Point
	head int
	n    int
}

// NewTrail returns a trail holding up to length points.
func NewTrail(length int, minDistance float32) *Trail {
	if length < 2 {
		length = DefaultLength
	}
	return &Trail{MinDistance: minDistance, pts: make([]Point, length)}
}

// Len reports the number of stored points.
func (t *Trail) Len() int { return t.n }

// Last returns the most recent point.
func (t *Trail) Last() (Point, bool) {
	if t.n == 0 {
		return Point{}, false
	}
	return t.pts[(t.head+t.n-1)%len(t.pts)], true
}

func (t *Trail) push(p Point) {
	if t.n < len(t.pts) {
		t.pts[(t.head+t.n)%len(t.pts)] = p
		t.n++
		return
	}
	t.pts[t.head] = p
	t.head = (t.head + 1) % len(t.pts)
}

// Push records p and returns the samples to draw. The first point of a stroke
// yields itself. Later points yield (dist/400 + 1) * 10 samples lerped from
// the previous point, excluding p itself.
func (t *Trail) Push(p Point) []Point {
	last, ok := t.Last()
	if !ok {
		t.push(p)
		return []Point{p}
	}
	d := last.Dist(p)
	if d < t.MinDistance {
		return nil
	}
	steps := Steps(d)
	out := make([]Point, steps)
	for i := 0; i < steps; i++ {
		out[i] = last.Lerp(p, float32(i)/float32(steps))
	}
	t.push(p)
	return out
}

// Steps is the interpolation sample count for a segment of length dist.
func Steps(dist float32) int {
	if dist < 0 || dist != dist {
		dist = 0
	}
	return (int(uint32(dist))/400 + 1) * 10
}

// Reset forgets all points so the next Push starts a new stroke.
func (t *Trail) Reset() {
	t.head = 0
	t.n = 0
}
