// Package classify runs sketch images through a pre-trained model.
package classify

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
	"time"

	"sketchassist/internal/preprocess"
)

// ErrUnsupportedModel is returned by Open for unknown model file types.
var ErrUnsupportedModel = errors.New("classify: unsupported model format")

// Prediction is the outcome of one classification. Class is 0-based.
type Prediction struct {
	Class   int
	Score   float32
	Label   string
	Elapsed time.Duration
}

func (p Prediction) String() string {
	if p.Label != "" {
		return fmt.Sprintf("%s (%d, %.3f)", p.Label, p.Class, p.Score)
	}
	return fmt.Sprintf("%d (%.3f)", p.Class, p.Score)
}

// Classifier maps an image to a predicted class.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (Prediction, error)
	Name() string
	Close() error
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, img image.Image) (Prediction, error)

func (f Func) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	return f(ctx, img)
}

func (f Func) Name() string { return "func" }

func (f Func) Close() error { return nil }

// Argmax returns the index and value of the largest score. The first maximum
// wins, NaN never wins, and an empty slice yields -1.
func Argmax(scores []float32) (int, float32) {
	best := -1
	var bestV float32
	for i, v := range scores {
		if math.IsNaN(float64(v)) {
			continue
		}
		if best < 0 || v > bestV {
			best, bestV = i, v
		}
	}
	return best, bestV
}

// Options configures Open.
type Options struct {
	ModelPath  string
	LabelsPath string
	InputSize  int
	Stats      preprocess.Stats
}

// Open loads the model at opts.ModelPath, choosing the backend from the file
// extension: ".onnx" for ONNX graphs and ".lzw" for hashtron networks.
func Open(opts Options) (Classifier, error) {
	var labels Labels
	if opts.LabelsPath != "" {
		l, err := LoadLabels(opts.LabelsPath)
		if err != nil {
			return nil, err
		}
		labels = l
	}

	switch strings.ToLower(filepath.Ext(opts.ModelPath)) {
	case ".onnx":
		return OpenONNX(opts.ModelPath, opts.InputSize, opts.Stats, labels)
	case ".lzw":
		return OpenDigits(opts.ModelPath, labels)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, opts.ModelPath)
	}
}
