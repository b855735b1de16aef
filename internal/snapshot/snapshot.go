// Package snapshot writes canvas drawings to disk.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Save writes img as dir/sketch-<uuid>.png and returns the path.
func Save(dir string, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("snapshot: nil image")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: mkdir: %w", err)
	}
	path := filepath.Join(dir, "sketch-"+uuid.NewString()+".png")
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	return path, nil
}

// Size reports the file size of a saved snapshot.
func Size(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
