package render

import (
	"image"
	"image/color"

	"sketchassist/hal"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*fbDisplayer)(nil)

// fbDisplayer draws tinyfont glyphs straight into an RGBA8888 framebuffer.
type fbDisplayer struct {
	fb hal.Framebuffer
}

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil {
		return
	}
	hal.SetPixel(d.fb, int(x), int(y), c)
}

func (d *fbDisplayer) Display() error { return nil }

// view wraps the framebuffer memory as an image so the image/draw family can
// target it without copying. It returns nil for other pixel formats.
func view(fb hal.Framebuffer) *image.RGBA {
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return nil
	}
	buf := fb.Buffer()
	if buf == nil {
		return nil
	}
	return &image.RGBA{
		Pix:    buf,
		Stride: fb.StrideBytes(),
		Rect:   image.Rect(0, 0, fb.Width(), fb.Height()),
	}
}
