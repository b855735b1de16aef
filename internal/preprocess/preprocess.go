// Package preprocess converts canvas images into model input tensors.
package preprocess

import (
	"image"

	"github.com/disintegration/imaging"
)

// Stats holds per-channel normalisation constants.
type Stats struct {
	Mean [3]float32
	Std  [3]float32
}

var (
	// ImageNet is the normalisation used by torchvision classifiers.
	ImageNet = Stats{
		Mean: [3]float32{0.485, 0.456, 0.406},
		Std:  [3]float32{0.229, 0.224, 0.225},
	}
	// Identity only rescales to [0, 1].
	Identity = Stats{Std: [3]float32{1, 1, 1}}
)

// Resize scales img to size x size with a triangle filter.
func Resize(img image.Image, size int) *image.NRGBA {
	return imaging.Resize(img, size, size, imaging.Linear)
}

// ToNCHW returns img as a (1, 3, H, W) float32 tensor backing slice with
// (v/255 - mean[c]) / std[c] per channel.
func ToNCHW(img image.Image, st Stats) []float32 {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	plane := w * h
	out := make([]float32, 3*plane)
	for c := 0; c < 3; c++ {
		std := st.Std[c]
		if std == 0 {
			std = 1
		}
		base := c * plane
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				v := float32(row[x*4+c]) / 255
				out[base+y*w+x] = (v - st.Mean[c]) / std
			}
		}
	}
	return out
}

// ToGray returns a size x size 8-bit luminance image in row-major order. With
// invert set, white paper maps to 0 and ink to 255 as digit datasets expect.
func ToGray(img image.Image, size int, invert bool) []byte {
	g := imaging.Grayscale(img)
	g = imaging.Resize(g, size, size, imaging.Linear)
	if invert {
		g = imaging.Invert(g)
	}
	out := make([]byte, size*size)
	for y := 0; y < size; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < size; x++ {
			out[y*size+x] = row[x*4]
		}
	}
	return out
}
