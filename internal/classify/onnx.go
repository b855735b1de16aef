package classify

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"sketchassist/internal/preprocess"

	"github.com/owulveryck/onnx-go"
	"github.com/owulveryck/onnx-go/backend/x/gorgonnx"
	"gorgonia.org/tensor"
)

// ONNX classifies with an ONNX image model taking a (1, 3, S, S) float32 input.
type ONNX struct {
	mu      sync.Mutex
	backend *gorgonnx.Graph
	model   *onnx.Model
	size    int
	stats   preprocess.Stats
	labels  Labels
	name    string
}

// OpenONNX decodes the model file at path.
func OpenONNX(path string, size int, stats preprocess.Stats, labels Labels) (*ONNX, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: onnx: %w", err)
	}
	return NewONNX(b, path, size, stats, labels)
}

// NewONNX decodes an ONNX model from memory.
func NewONNX(b []byte, name string, size int, stats preprocess.Stats, labels Labels) (*ONNX, error) {
	if size <= 0 {
		size = 224
	}
	backend := gorgonnx.NewGraph()
	model := onnx.NewModel(backend)
	if err := model.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("classify: onnx: decode %s: %w", name, err)
	}
	return &ONNX{
		backend: backend,
		model:   model,
		size:    size,
		stats:   stats,
		labels:  labels,
		name:    name,
	}, nil
}

func (m *ONNX) Name() string { return "onnx:" + m.name }

func (m *ONNX) Close() error { return nil }

// Classify resizes img, normalises it and returns the argmax of the first output.
func (m *ONNX) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	start := time.Now()

	resized := preprocess.Resize(img, m.size)
	data := preprocess.ToNCHW(resized, m.stats)
	input := tensor.New(
		tensor.WithShape(1, 3, m.size, m.size),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.model.SetInput(0, input); err != nil {
		return Prediction{}, fmt.Errorf("classify: onnx: set input: %w", err)
	}
	if err := m.backend.Run(); err != nil {
		return Prediction{}, fmt.Errorf("classify: onnx: run: %w", err)
	}
	outputs, err := m.model.GetOutputTensors()
	if err != nil {
		return Prediction{}, fmt.Errorf("classify: onnx: outputs: %w", err)
	}
	if len(outputs) == 0 {
		return Prediction{}, fmt.Errorf("classify: onnx: model has no outputs")
	}
	scores, ok := outputs[0].Data().([]float32)
	if !ok {
		return Prediction{}, fmt.Errorf("classify: onnx: output type %T, want []float32", outputs[0].Data())
	}

	class, score := Argmax(scores)
	if class < 0 {
		return Prediction{}, fmt.Errorf("classify: onnx: empty output")
	}
	return Prediction{
		Class:   class,
		Score:   score,
		Label:   m.labels.Name(class),
		Elapsed: time.Since(start),
	}, nil
}
