package render

import (
	"image"
	"image/color"
	"testing"

	"sketchassist/hal"
	"sketchassist/internal/canvas"
)

type testFB struct {
	w, h int
	buf  []byte
}

func newTestFB(w, h int) *testFB { return &testFB{w: w, h: h, buf: make([]byte, w*h*4)} }

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *testFB) StrideBytes() int        { return f.w * 4 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) ClearRGB(r, g, b uint8)  {}
func (f *testFB) Present() error          { return nil }

func (f *testFB) at(x, y int) color.RGBA {
	off := y*f.w*4 + x*4
	return color.RGBA{f.buf[off], f.buf[off+1], f.buf[off+2], f.buf[off+3]}
}

func TestNewLayoutDefaultWindow(t *testing.T) {
	l := NewLayout(1350, 700)
	if l.Offset != 50 {
		t.Fatalf("Offset = %d, want 50", l.Offset)
	}
	if l.Canvas != image.Rect(50, 50, 650, 650) {
		t.Fatalf("Canvas = %v, want (50,50)-(650,650)", l.Canvas)
	}
	if l.Panel != image.Rect(700, 50, 1300, 650) {
		t.Fatalf("Panel = %v, want (700,50)-(1300,650)", l.Panel)
	}
	if l.Slots[3] != image.Rect(1000, 350, 1300, 650) {
		t.Fatalf("Slots[3] = %v", l.Slots[3])
	}
	if l.Slot(1) != image.Rect(300, 0, 600, 300) {
		t.Fatalf("Slot(1) = %v", l.Slot(1))
	}
}

func TestFitKeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	got := fit(src, 50, 50).Bounds()
	if got.Dx() != 50 || got.Dy() != 25 {
		t.Fatalf("fit = %v, want 50x25", got)
	}
	got = fit(image.NewRGBA(image.Rect(0, 0, 10, 40)), 50, 50).Bounds()
	if got.Dx() != 12 || got.Dy() != 50 {
		t.Fatalf("fit = %v, want 12x50", got)
	}
}

func TestComposePanelSize(t *testing.T) {
	l := NewLayout(270, 140)
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xff, 0xff
	}
	p := ComposePanel(l, []image.Image{img})
	if p.Bounds().Dx() != l.Panel.Dx() || p.Bounds().Dy() != l.Panel.Dy() {
		t.Fatalf("panel = %v, want %dx%d", p.Bounds(), l.Panel.Dx(), l.Panel.Dy())
	}
}

func TestFrameDrawsCanvas(t *testing.T) {
	fb := newTestFB(270, 140)
	l := NewLayout(fb.w, fb.h)
	r := New(fb, l, nil)

	c := canvas.New(l.Canvas.Dx(), l.Canvas.Dy())
	c.SetPixel(0, 0, color.RGBA{A: 0xff})
	r.Frame(c, "")

	if got := fb.at(l.Canvas.Min.X, l.Canvas.Min.Y); got.R != 0 || got.A != 0xff {
		t.Fatalf("canvas origin = %v, want black", got)
	}
	if got := fb.at(l.Canvas.Min.X+1, l.Canvas.Min.Y+1); got != canvas.White {
		t.Fatalf("canvas pixel = %v, want white", got)
	}
	if got := fb.at(0, 0); got != backgroundColor {
		t.Fatalf("background = %v, want %v", got, backgroundColor)
	}
}

func TestDrawStatusWritesPixels(t *testing.T) {
	fb := newTestFB(270, 140)
	l := NewLayout(fb.w, fb.h)
	r := New(fb, l, nil)
	r.DrawStatus("cat 0.93")

	lit := 0
	for y := 0; y < fb.h; y++ {
		for x := 0; x < fb.w; x++ {
			if fb.at(x, y) == statusColor {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("status text drew no pixels")
	}
}
