package preprocess

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestResizeSize(t *testing.T) {
	got := Resize(solid(600, 600, color.RGBA{255, 255, 255, 255}), 224)
	if b := got.Bounds(); b.Dx() != 224 || b.Dy() != 224 {
		t.Fatalf("bounds = %v, want 224x224", b)
	}
}

func TestToNCHWImageNet(t *testing.T) {
	img := solid(2, 2, color.RGBA{255, 0, 255, 255})
	got := ToNCHW(img, ImageNet)
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	wantR := (1 - ImageNet.Mean[0]) / ImageNet.Std[0]
	wantG := (0 - ImageNet.Mean[1]) / ImageNet.Std[1]
	wantB := (1 - ImageNet.Mean[2]) / ImageNet.Std[2]
	for i := 0; i < 4; i++ {
		if !near(got[i], wantR) || !near(got[4+i], wantG) || !near(got[8+i], wantB) {
			t.Fatalf("pixel %d = (%v, %v, %v), want (%v, %v, %v)", i, got[i], got[4+i], got[8+i], wantR, wantG, wantB)
		}
	}
}

func TestToNCHWPlanarOrder(t *testing.T) {
	img := solid(2, 1, color.RGBA{0, 0, 0, 255})
	img.Pix[4] = 255 // x=1 red
	got := ToNCHW(img, Identity)
	want := []float32{0, 1, 0, 0, 0, 0}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Fatalf("got = %v, want %v", got, want)
		}
	}
}

func TestToGrayInvert(t *testing.T) {
	img := solid(56, 56, color.RGBA{255, 255, 255, 255})
	for y := 0; y < 28; y++ {
		for x := 0; x < 56; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	got := ToGray(img, 28, true)
	if len(got) != 28*28 {
		t.Fatalf("len = %d, want 784", len(got))
	}
	if got[0] != 255 {
		t.Fatalf("ink = %d, want 255", got[0])
	}
	if got[27*28] != 0 {
		t.Fatalf("paper = %d, want 0", got[27*28])
	}
}
