package canvas

import (
	"image/color"
	"testing"
)

func pixel(c *Canvas, x, y int) color.RGBA {
	off := (x + y*c.Width) * 4
	return color.RGBA{c.Pix[off], c.Pix[off+1], c.Pix[off+2], c.Pix[off+3]}
}

func TestNewIsWhite(t *testing.T) {
	c := New(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := pixel(c, x, y); got != White {
				t.Fatalf("pixel(%d,%d) = %v, want white", x, y, got)
			}
		}
	}
	if c.Dirty() {
		t.Fatalf("Dirty() = true on new canvas")
	}
}

func TestSetPixelBounds(t *testing.T) {
	c := New(4, 4)
	red := color.RGBA{R: 0xff, A: 0x10}
	c.SetPixel(-1, 0, red)
	c.SetPixel(0, 4, red)
	c.SetPixel(4, 0, red)
	if c.Dirty() {
		t.Fatalf("out of range write marked canvas dirty")
	}

	c.SetPixel(3, 2, red)
	got := pixel(c, 3, 2)
	if got.R != 0xff || got.G != 0 || got.B != 0 {
		t.Fatalf("pixel = %v, want red", got)
	}
	if got.A != 0xff {
		t.Fatalf("alpha = %d, want untouched 255", got.A)
	}
	if !c.Dirty() {
		t.Fatalf("Dirty() = false after write")
	}
}

func TestClear(t *testing.T) {
	c := New(2, 2)
	c.SetPixel(0, 0, color.RGBA{A: 0xff})
	c.Clear(White)
	if got := pixel(c, 0, 0); got != White {
		t.Fatalf("pixel = %v, want white", got)
	}
	if c.Dirty() {
		t.Fatalf("Dirty() = true after Clear")
	}
}

func TestStampCoversDisc(t *testing.T) {
	c := New(64, 64)
	c.Stamp(20, 20, DefaultBrush)

	black := color.RGBA{A: 0xff}
	// Centre and blocks for the farthest covered offsets (+-4, 0).
	for _, p := range [][2]int{{20, 20}, {24, 20}, {29, 25}, {16, 20}} {
		if got := pixel(c, p[0], p[1]); got != black {
			t.Fatalf("pixel%v = %v, want black", p, got)
		}
	}
	// Offset (5, 0) lies on the radius and is excluded; (24+5, 20) is the
	// last column of the (4, 0) block so (30, 20) stays white.
	if got := pixel(c, 30, 20); got != White {
		t.Fatalf("pixel(30,20) = %v, want white", got)
	}
	if got := pixel(c, 15, 20); got != White {
		t.Fatalf("pixel(15,20) = %v, want white", got)
	}
}

func TestStampScalesFromView(t *testing.T) {
	c := New(100, 100)
	c.SetView(50, 50)
	c.Stamp(10, 10, Brush{Radius: 1, Scale: 0, Color: color.RGBA{A: 0xff}})
	if got := pixel(c, 20, 20); got.R != 0 {
		t.Fatalf("pixel(20,20) = %v, want black", got)
	}
	if got := pixel(c, 10, 10); got != White {
		t.Fatalf("pixel(10,10) = %v, want white", got)
	}
}

func TestRGBImageCopies(t *testing.T) {
	c := New(2, 1)
	c.Pix[3] = 0
	img := c.RGBImage()
	if img.Pix[3] != 0xff {
		t.Fatalf("alpha = %d, want 255", img.Pix[3])
	}
	img.Pix[0] = 0
	if c.Pix[0] != 0xff {
		t.Fatalf("RGBImage shares storage with canvas")
	}
}
