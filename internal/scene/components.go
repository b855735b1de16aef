package scene

import (
	"image"
	"time"

	"sketchassist/hal"
	"sketchassist/internal/canvas"
	"sketchassist/internal/classify"
	"sketchassist/internal/config"
	"sketchassist/internal/event"
	"sketchassist/internal/infer"
	"sketchassist/internal/stroke"
)

// Components.

// Canvas marks the drawable entity and owns its texture.
type Canvas struct {
	Tex *canvas.Canvas
}

// Rect is an entity's screen rectangle.
type Rect struct {
	R image.Rectangle
}

// Interaction tracks pointer state over an entity.
type Interaction struct {
	Hovered bool
	Pressed bool
	Trail   *stroke.Trail
}

// ResultSlot is one cell of the 2x2 result panel.
type ResultSlot struct {
	Index int
}

// Sprite is the image shown by an entity.
type Sprite struct {
	Image image.Image
}

// InferClock drives the Wait/Infer state machine.
type InferClock struct {
	Ctl *infer.Controller
}

// Resources.

// Input is the input collected for the current frame. Keys holds presses only.
type Input struct {
	Mouse []hal.MouseEvent
	Keys  []hal.KeyCode
	Dt    time.Duration

	lastTick uint64
}

// Pressed reports whether k was pressed this frame.
func (in *Input) Pressed(k hal.KeyCode) bool {
	for _, c := range in.Keys {
		if c == k {
			return true
		}
	}
	return false
}

func (in *Input) reset() {
	in.Mouse = in.Mouse[:0]
	in.Keys = in.Keys[:0]
	in.Dt = 0
}

// Events holds the image events written by the draw and key systems.
type Events struct {
	Queue *event.Queue
}

// Session is the inference bookkeeping shared by the infer systems.
type Session struct {
	Runner infer.Runner

	Latest    classify.Prediction
	HasLatest bool
	Runs      uint64
	Status    string

	// Pending is the sequence of the last submitted job. Results at or below
	// Cleared belong to a drawing that was cleared and are dropped.
	Pending uint64
	Cleared uint64

	// PanelDirty asks the render system to recompose the result panel.
	PanelDirty bool
}

// Settings is the read-only configuration.
type Settings struct {
	Config *config.Config
	Brush  canvas.Brush
}
