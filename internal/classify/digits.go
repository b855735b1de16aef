package classify

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"sketchassist/internal/preprocess"

	"github.com/neurlang/classifier/layer/full"
	"github.com/neurlang/classifier/layer/majpool2d"
	"github.com/neurlang/classifier/net/feedforward"
)

// DigitSize is the side of the grayscale image fed to the digit network.
const DigitSize = 28

const digitClasses = 10

// Digit is a 28x28 grayscale sample; ink is bright.
type Digit [DigitSize * DigitSize]byte

// Feature packs a 2x2 neighbourhood starting at cell n into one word.
func (d *Digit) Feature(n int) uint32 {
	n %= (DigitSize - 1) * (DigitSize - 1)
	return uint32(d[n]) | uint32(d[n+1])<<8 | uint32(d[n+DigitSize])<<16 | uint32(d[n+1+DigitSize])<<24
}

func (d *Digit) Parity() uint16 { return 0 }

func (d *Digit) Output() uint16 { return 0 }

// NewDigit converts img to a Digit sample.
func NewDigit(img image.Image) *Digit {
	var d Digit
	copy(d[:], preprocess.ToGray(img, DigitSize, true))
	return &d
}

// DigitNetwork returns the untrained three-stage hashtron network that
// OpenDigits loads weights into. Weights must be trained on this topology;
// files from other MNIST layouts fail to load.
func DigitNetwork() *feedforward.FeedforwardNetwork {
	const (
		fanout1 = 5
		fanout2 = 4
		fanout3 = 4
	)
	var net feedforward.FeedforwardNetwork
	net.NewLayerP(fanout1*fanout2*fanout3, 0, 1<<(fanout3*fanout3*2/3))
	net.NewCombiner(majpool2d.MustNew(fanout1*fanout2, 1, fanout3, 1, 1))
	net.NewLayerP(fanout1*fanout2, 0, 1<<(fanout2*fanout2*2/3))
	net.NewCombiner(majpool2d.MustNew(fanout1, 1, fanout2, 1, 1))
	net.NewLayerP(fanout1, 0, 1<<(fanout1*fanout1*2/3))
	net.NewCombiner(full.MustNew(fanout1, 1, 1))
	return &net
}

// Digits classifies handwritten digits with a hashtron feedforward network.
type Digits struct {
	net    *feedforward.FeedforwardNetwork
	labels Labels
	name   string
}

// OpenDigits loads lzw-compressed weights into DigitNetwork.
func OpenDigits(path string, labels Labels) (*Digits, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("classify: digits: %w", err)
	}
	defer f.Close()

	net := DigitNetwork()
	if err := net.ReadCompressedWeights(f); err != nil {
		return nil, fmt.Errorf("classify: digits: read weights %s: %w", path, err)
	}
	return &Digits{net: net, labels: labels, name: path}, nil
}

func (m *Digits) Name() string { return "hashtron:" + m.name }

func (m *Digits) Close() error { return nil }

// Classify returns the predicted digit. Hashtron networks give a hard
// decision so Score is always 1.
func (m *Digits) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	start := time.Now()
	return m.Predict(NewDigit(img), start), nil
}

// Predict classifies an already converted sample.
func (m *Digits) Predict(d *Digit, start time.Time) Prediction {
	class := int(m.net.Infer2(d) % digitClasses)
	return Prediction{
		Class:   class,
		Score:   1,
		Label:   m.labels.Name(class),
		Elapsed: time.Since(start),
	}
}
