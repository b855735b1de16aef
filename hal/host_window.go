//go:build cgo

package hal

import (
	"errors"

	"sketchassist/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that displays the framebuffer and forwards keyboard and mouse input.
// It blocks until the window closes or the app step returns ErrQuit.
func RunWindow(cfg WindowConfig, newApp func(HAL) (func() error, error)) error {
	h := newHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Log: cfg.Log})
	step, err := newApp(h)
	if err != nil {
		return err
	}

	title := cfg.Title
	if title == "" {
		title = "Sketch Assist"
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = 60
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(int(float64(h.fb.width)*scale), int(float64(h.fb.height)*scale))
	ebiten.SetTPS(tps)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	seq     uint64
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.mouse.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.seq = ^uint64(0)
	}

	if seq := fb.presentSeq(); seq != g.seq {
		g.seq = fb.snapshot(g.scratch)
		g.fbImg.WritePixels(g.scratch)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
