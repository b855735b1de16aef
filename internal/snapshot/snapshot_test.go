package snapshot

import (
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestSaveWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sketches")
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	path, err := Save(dir, img)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "sketch-") || !strings.HasSuffix(base, ".png") {
		t.Fatalf("name = %q", base)
	}
	got, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if n, err := Size(path); err != nil || n == 0 {
		t.Fatalf("Size = %d, %v", n, err)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	a, _ := Save(dir, img)
	b, _ := Save(dir, img)
	if a == b {
		t.Fatalf("two saves share path %q", a)
	}
}

func TestSaveNil(t *testing.T) {
	if _, err := Save(t.TempDir(), nil); err == nil {
		t.Fatal("Save(nil) err = nil")
	}
}
