// Package render composes the frame: canvas, result panel and status line.
package render

import "image"

// Layout is the window geometry. The canvas sits one offset from the top-left
// corner and the result panel of the same size sits one offset to its right.
type Layout struct {
	Width, Height int
	Offset        int
	Canvas        image.Rectangle
	Panel         image.Rectangle
	Slots         [4]image.Rectangle
	Status        image.Point
}

// NewLayout derives the geometry for a w x h window.
func NewLayout(w, h int) Layout {
	off := h / 14
	cw := (w - 3*off) / 2
	ch := h - 2*off
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	l := Layout{
		Width:  w,
		Height: h,
		Offset: off,
		Canvas: image.Rect(off, off, off+cw, off+ch),
		Panel:  image.Rect(2*off+cw, off, 2*off+2*cw, off+ch),
		Status: image.Pt(off, off+ch+off/2),
	}
	hw, hh := cw/2, ch/2
	for i := range l.Slots {
		x := l.Panel.Min.X + (i%2)*hw
		y := l.Panel.Min.Y + (i/2)*hh
		l.Slots[i] = image.Rect(x, y, x+hw, y+hh)
	}
	return l
}

// Slot returns the slot rectangle relative to the panel origin.
func (l Layout) Slot(i int) image.Rectangle {
	return l.Slots[i].Sub(l.Panel.Min)
}
