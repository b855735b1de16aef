package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"sketchassist/hal"
	"sketchassist/internal/assets"
	"sketchassist/internal/buildinfo"
	"sketchassist/internal/classify"
	"sketchassist/internal/config"
	"sketchassist/internal/infer"
	"sketchassist/internal/preprocess"
	"sketchassist/internal/scene"

	"github.com/klauspost/cpuid/v2"
)

// App is the running sketch application.
type App struct {
	h     hal.HAL
	log   *slog.Logger
	scene *scene.Scene
	model classify.Classifier

	closed bool
}

// New loads the model and builds the scene, returning the per-frame step.
func New(h hal.HAL, cfg *config.Config, log *slog.Logger) (func() error, error) {
	a, err := Open(h, cfg, log, nil)
	if err != nil {
		return nil, err
	}
	return a.Step, nil
}

// Open builds the application. A nil model is loaded from cfg.ModelPath.
func Open(h hal.HAL, cfg *config.Config, log *slog.Logger, model classify.Classifier) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	log.Info("starting",
		"build", buildinfo.Short(),
		"cpu", cpuid.CPU.BrandName,
		"cores", cpuid.CPU.PhysicalCores,
		"avx2", cpuid.CPU.Supports(cpuid.AVX2),
	)

	if model == nil {
		loadingScreen(h, "loading "+cfg.ModelPath)
		m, err := classify.Open(classify.Options{
			ModelPath:  cfg.ModelPath,
			LabelsPath: cfg.LabelsPath,
			InputSize:  cfg.InputSize,
			Stats:      preprocess.Stats{Mean: cfg.Mean, Std: cfg.Std},
		})
		if err != nil {
			return nil, fmt.Errorf("app: load model: %w", err)
		}
		model = m
	}
	log.Info("model ready", "model", model.Name(), "trigger", cfg.Trigger, "interval", cfg.InferInterval.Std().String())

	store, err := assets.NewStore(cfg.AssetsDir, cfg.ResultCacheSize)
	if err != nil {
		return nil, err
	}

	var runner infer.Runner
	if cfg.Async {
		runner = infer.NewWorker(context.Background(), model)
	} else {
		runner = infer.NewSync(context.Background(), model)
	}

	sc, err := scene.New(scene.Options{
		HAL:    h,
		Config: cfg,
		Runner: runner,
		Store:  store,
		Log:    log,
	})
	if err != nil {
		runner.Close()
		model.Close()
		return nil, err
	}
	return &App{h: h, log: log, scene: sc, model: model}, nil
}

// Scene exposes the ECS scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Step runs one frame. A panic inside a system is shown on screen and
// returned as an error; quitting releases the model.
func (a *App) Step() (err error) {
	defer func() {
		if v := recover(); v != nil {
			stack := debug.Stack()
			panicScreen(a.h, a.log, v, stack)
			err = fmt.Errorf("app: panic: %v", v)
		}
	}()
	err = a.scene.Update()
	if errors.Is(err, hal.ErrQuit) {
		if cerr := a.Close(); cerr != nil {
			a.log.Warn("close", "err", cerr)
		}
	}
	return err
}

// Close stops the inference runner and releases the model.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return errors.Join(a.scene.Close(), a.model.Close())
}
