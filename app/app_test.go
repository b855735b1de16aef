package app

import (
	"context"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sketchassist/hal"
	"sketchassist/internal/classify"
	"sketchassist/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.AssetsDir = t.TempDir()
	cfg.SnapshotDir = filepath.Join(t.TempDir(), "sketches")
	cfg.InferInterval = config.Duration(100 * time.Millisecond)
	cfg.Async = false
	return cfg
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHeadlessStrokeIsClassified(t *testing.T) {
	var calls atomic.Int32
	model := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		calls.Add(1)
		return classify.Prediction{Class: 1, Score: 1}, nil
	})
	cfg := testConfig(t)

	var app *App
	err := hal.RunHeadless(context.Background(), hal.HeadlessConfig{
		Hz:     500,
		Ticks:  150,
		Log:    io.Discard,
		Script: "down 100 100; move 200 150; move 250 300; up; wait 40",
	}, func(h hal.HAL) (func() error, error) {
		a, err := Open(h, cfg, quiet(), model)
		app = a
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if calls.Load() == 0 {
		t.Fatalf("stroke was never classified")
	}
	p, ok := app.Scene().Latest()
	if !ok || p.Class != 1 {
		t.Fatalf("Latest = %+v, %v", p, ok)
	}
}

func TestHeadlessEscapeQuits(t *testing.T) {
	model := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		return classify.Prediction{}, nil
	})
	cfg := testConfig(t)
	cfg.Async = true
	steps := 0
	err := hal.RunHeadless(context.Background(), hal.HeadlessConfig{
		Hz:     500,
		Ticks:  1000,
		Log:    io.Discard,
		Script: "wait 2; key escape",
	}, func(h hal.HAL) (func() error, error) {
		a, err := Open(h, cfg, quiet(), model)
		if err != nil {
			return nil, err
		}
		return func() error {
			steps++
			return a.Step()
		}, nil
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps >= 1000 {
		t.Fatalf("escape did not stop the loop")
	}
}

func TestPanicIsReported(t *testing.T) {
	model := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		panic("bad weights")
	})
	cfg := testConfig(t)
	var fb hal.Framebuffer
	err := hal.RunHeadless(context.Background(), hal.HeadlessConfig{
		Hz:     500,
		Ticks:  50,
		Log:    io.Discard,
		Script: "key infer",
		Done: func(h hal.HAL) {
			fb = h.Display().Framebuffer()
		},
	}, func(h hal.HAL) (func() error, error) {
		a, err := Open(h, cfg, quiet(), model)
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	})
	if err == nil || !strings.Contains(err.Error(), "bad weights") {
		t.Fatalf("RunHeadless = %v, want panic error", err)
	}
	buf := fb.Buffer()
	dark := 0
	for i := 0; i < len(buf); i += 4 {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 0 {
			dark++
		}
	}
	if dark == 0 {
		t.Fatalf("panic screen drew no text")
	}
}

func TestOpenMissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")
	err := hal.RunHeadless(context.Background(), hal.HeadlessConfig{Ticks: 1, Log: io.Discard}, func(h hal.HAL) (func() error, error) {
		return New(h, cfg, quiet())
	})
	if err == nil || !strings.Contains(err.Error(), "load model") {
		t.Fatalf("err = %v, want load model error", err)
	}
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("héllo world", 5)
	if p != "héllo" || r != " world" {
		t.Fatalf("takeRunes = %q, %q", p, r)
	}
	p, r = takeRunes("ok", 5)
	if p != "ok" || r != "" {
		t.Fatalf("takeRunes = %q, %q", p, r)
	}
}
