package hal

import "image/color"

// SetPixel writes one RGBA pixel into fb. Out-of-range coordinates are ignored.
func SetPixel(fb Framebuffer, x, y int, c color.RGBA) {
	if fb == nil || fb.Format() != PixelFormatRGBA8888 {
		return
	}
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*4
	if off < 0 || off+3 >= len(buf) {
		return
	}
	buf[off] = c.R
	buf[off+1] = c.G
	buf[off+2] = c.B
	buf[off+3] = c.A
}

// FillRect fills the clipped rectangle [x0,x1)x[y0,y1).
func FillRect(fb Framebuffer, x0, y0, x1, y1 int, c color.RGBA) {
	if fb == nil || fb.Format() != PixelFormatRGBA8888 {
		return
	}
	x0, x1 = clamp(x0, 0, fb.Width()), clamp(x1, 0, fb.Width())
	y0, y1 = clamp(y0, 0, fb.Height()), clamp(y1, 0, fb.Height())
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	for y := y0; y < y1; y++ {
		row := y * stride
		for x := x0; x < x1; x++ {
			off := row + x*4
			buf[off] = c.R
			buf[off+1] = c.G
			buf[off+2] = c.B
			buf[off+3] = c.A
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
