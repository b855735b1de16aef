// Package canvas holds the drawable RGBA texture behind the sketch area.
package canvas

import (
	"image"
	"image/color"
	"math"
)

// Brush describes the pen stamped at every drawn point.
type Brush struct {
	Radius int
	// Scale is the size-1 of the square block written per covered point.
	Scale int
	Color color.RGBA
}

// DefaultBrush is a black pen of radius 5 and 6x6 blocks.
var DefaultBrush = Brush{Radius: 5, Scale: 5, Color: color.RGBA{A: 0xff}}

// White is the canvas background.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Canvas is a row-major RGBA8888 texture.
type Canvas struct {
	Width  int
	Height int
	Pix    []byte

	// XScale and YScale map canvas-space points to texture pixels.
	XScale float32
	YScale float32

	dirty bool
}

// New returns an opaque white canvas of w x h texture pixels.
func New(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Pix:    make([]byte, w*h*4),
		XScale: 1,
		YScale: 1,
	}
	c.fill(White)
	c.dirty = false
	return c
}

// SetView sets the on-screen size of the canvas so points in view space are
// scaled onto the texture.
func (c *Canvas) SetView(viewW, viewH int) {
	if viewW > 0 {
		c.XScale = float32(c.Width) / float32(viewW)
	}
	if viewH > 0 {
		c.YScale = float32(c.Height) / float32(viewH)
	}
}

// SetPixel writes the RGB channels of col at (x, y). Out of range is a no-op.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	if x < 0 || x > c.Width-1 || y < 0 || y > c.Height-1 {
		return
	}
	off := (x + y*c.Width) * 4
	c.Pix[off] = col.R
	c.Pix[off+1] = col.G
	c.Pix[off+2] = col.B
	c.dirty = true
}

// Clear fills the whole texture with col and resets the dirty flag.
func (c *Canvas) Clear(col color.RGBA) {
	c.fill(col)
	c.dirty = false
}

func (c *Canvas) fill(col color.RGBA) {
	for off := 0; off+3 < len(c.Pix); off += 4 {
		c.Pix[off] = col.R
		c.Pix[off+1] = col.G
		c.Pix[off+2] = col.B
		c.Pix[off+3] = 0xff
	}
}

// Stamp draws the brush centred on (x, y) in view space.
func (c *Canvas) Stamp(x, y float32, b Brush) {
	r := b.Radius
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			if math.Hypot(float64(i), float64(j)) >= float64(r) {
				continue
			}
			tx := int((x + float32(i)) * c.XScale)
			ty := int((y + float32(j)) * c.YScale)
			for si := 0; si <= b.Scale; si++ {
				for sj := 0; sj <= b.Scale; sj++ {
					c.SetPixel(tx+si, ty+sj, b.Color)
				}
			}
		}
	}
}

// Dirty reports whether anything was drawn since the last MarkClean or Clear.
func (c *Canvas) Dirty() bool { return c.dirty }

// MarkClean resets the dirty flag, typically after an inference run.
func (c *Canvas) MarkClean() { c.dirty = false }

// RGBImage copies the texture into a new opaque image.
func (c *Canvas) RGBImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	copy(img.Pix, c.Pix)
	for off := 3; off < len(img.Pix); off += 4 {
		img.Pix[off] = 0xff
	}
	return img
}
