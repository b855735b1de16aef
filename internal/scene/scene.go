// Package scene wires the sketch application into an ECS world and runs its
// systems once per frame.
package scene

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"sketchassist/hal"
	"sketchassist/internal/assets"
	"sketchassist/internal/canvas"
	"sketchassist/internal/classify"
	"sketchassist/internal/config"
	"sketchassist/internal/event"
	"sketchassist/internal/infer"
	"sketchassist/internal/render"
	"sketchassist/internal/stroke"

	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
)

// Options configures New.
type Options struct {
	HAL    hal.HAL
	Config *config.Config
	Runner infer.Runner
	// Store may be nil; the panel then stays blank.
	Store *assets.Store
	Log   *slog.Logger
}

type system struct {
	name string
	run  func(s *Scene)
}

// Scene owns the ECS world and the ordered system list.
type Scene struct {
	world ecs.World
	h     hal.HAL
	log   *slog.Logger
	store *assets.Store
	rend  *render.Renderer
	fb    hal.Framebuffer

	systems []system
	quit    bool

	canvasEnt ecs.Entity
	clockEnt  ecs.Entity

	canvases *generic.Filter3[Canvas, Rect, Interaction]
	slots    *generic.Filter2[ResultSlot, Sprite]
	canvasM  generic.Map1[Canvas]
	clockM   generic.Map1[InferClock]

	input    *Input
	events   *Events
	session  *Session
	settings *Settings
}

// New builds the world: one canvas entity, four result slots, the inference
// clock and the shared resources.
func New(opts Options) (*Scene, error) {
	if opts.HAL == nil {
		return nil, errors.New("scene: nil HAL")
	}
	if opts.Runner == nil {
		return nil, errors.New("scene: nil runner")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Scene{
		world: ecs.NewWorld(),
		h:     opts.HAL,
		log:   log,
		store: opts.Store,
	}

	w, hgt := cfg.WindowWidth, cfg.WindowHeight
	if d := opts.HAL.Display(); d != nil {
		s.fb = d.Framebuffer()
	}
	if s.fb != nil {
		w, hgt = s.fb.Width(), s.fb.Height()
	}
	layout := render.NewLayout(w, hgt)

	tex := canvas.New(cfg.TextureWidth, cfg.TextureHeight)
	tex.SetView(layout.Canvas.Dx(), layout.Canvas.Dy())

	s.canvasM = generic.NewMap1[Canvas](&s.world)
	s.clockM = generic.NewMap1[InferClock](&s.world)

	canvasMap := generic.NewMap3[Canvas, Rect, Interaction](&s.world)
	s.canvasEnt = canvasMap.NewWith(
		&Canvas{Tex: tex},
		&Rect{R: layout.Canvas},
		&Interaction{Trail: stroke.NewTrail(cfg.TrailLength, float32(cfg.MinStrokeDistance))},
	)
	slotMap := generic.NewMap3[ResultSlot, Rect, Sprite](&s.world)
	for i, r := range layout.Slots {
		slotMap.NewWith(&ResultSlot{Index: i}, &Rect{R: r}, &Sprite{})
	}
	s.clockEnt = s.clockM.NewWith(&InferClock{Ctl: infer.NewController(cfg.Trigger, cfg.InferInterval.Std())})

	s.canvases = generic.NewFilter3[Canvas, Rect, Interaction]()
	s.slots = generic.NewFilter2[ResultSlot, Sprite]()

	s.input = &Input{}
	s.events = &Events{Queue: event.NewQueue(event.DefaultSlots)}
	s.session = &Session{Runner: opts.Runner, Status: "draw something"}
	brush := canvas.DefaultBrush
	brush.Radius = cfg.BrushRadius
	brush.Scale = cfg.BrushScale
	s.settings = &Settings{Config: cfg, Brush: brush}

	ecs.AddResource(&s.world, s.input)
	ecs.AddResource(&s.world, s.events)
	ecs.AddResource(&s.world, s.session)
	ecs.AddResource(&s.world, s.settings)

	if s.fb != nil {
		s.rend = render.New(s.fb, layout, emptyImage(s.store, log))
	}

	s.systems = []system{
		{"input", inputSystem},
		{"draw", drawSystem},
		{"canvas", canvasSystem},
		{"keys", keySystem},
		{"infer-timer", inferTimerSystem},
		{"infer-request", inferRequestSystem},
		{"infer-result", inferResultSystem},
		{"render", renderSystem},
	}
	return s, nil
}

func emptyImage(store *assets.Store, log *slog.Logger) image.Image {
	if store == nil {
		return nil
	}
	img, err := store.Background()
	if err != nil {
		log.Warn("background image", "err", err)
		return nil
	}
	return img
}

// Update runs every system once. It returns hal.ErrQuit after the quit key.
func (s *Scene) Update() error {
	for _, sys := range s.systems {
		sys.run(s)
	}
	if s.quit {
		return hal.ErrQuit
	}
	return nil
}

// Systems lists the system names in run order.
func (s *Scene) Systems() []string {
	out := make([]string, len(s.systems))
	for i, sys := range s.systems {
		out[i] = sys.name
	}
	return out
}

// Canvas returns the drawing texture.
func (s *Scene) Canvas() *canvas.Canvas {
	return s.canvasM.Get(s.canvasEnt).Tex
}

// Controller returns the inference state machine.
func (s *Scene) Controller() *infer.Controller {
	return s.clockM.Get(s.clockEnt).Ctl
}

// Latest returns the most recent prediction.
func (s *Scene) Latest() (classify.Prediction, bool) {
	return s.session.Latest, s.session.HasLatest
}

// Status returns the status line text.
func (s *Scene) Status() string {
	ctl := s.Controller()
	return fmt.Sprintf("%s | %s mode | %s", s.session.Status, ctl.Mode, ctl.State())
}

// Runs reports how many classifications were started.
func (s *Scene) Runs() uint64 { return s.session.Runs }

// Close stops the inference runner.
func (s *Scene) Close() error {
	return s.session.Runner.Close()
}
