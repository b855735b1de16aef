package scene

import (
	"errors"
	"fmt"
	"image"
	"time"

	"sketchassist/hal"
	"sketchassist/internal/assets"
	"sketchassist/internal/canvas"
	"sketchassist/internal/config"
	"sketchassist/internal/event"
	"sketchassist/internal/render"
	"sketchassist/internal/snapshot"
	"sketchassist/internal/stroke"

	"github.com/dustin/go-humanize"
)

// inputSystem drains the HAL channels into the Input resource.
func inputSystem(s *Scene) {
	in := s.input
	in.reset()

	if src := s.h.Input(); src != nil {
		if kbd := src.Keyboard(); kbd != nil {
		keys:
			for {
				select {
				case ev := <-kbd.Events():
					if ev.Press {
						in.Keys = append(in.Keys, ev.Code)
					}
				default:
					break keys
				}
			}
		}
		if m := src.Mouse(); m != nil {
		mouse:
			for {
				select {
				case ev := <-m.Events():
					in.Mouse = append(in.Mouse, ev)
				default:
					break mouse
				}
			}
		}
	}

	if t := s.h.Time(); t != nil {
		var latest uint64
	ticks:
		for {
			select {
			case seq := <-t.Ticks():
				latest = seq
			default:
				break ticks
			}
		}
		if latest > in.lastTick {
			if in.lastTick != 0 {
				in.Dt = time.Duration(latest-in.lastTick) * time.Millisecond
			}
			in.lastTick = latest
		}
	}
}

// drawSystem turns pointer events over the canvas into DrawPos events.
func drawSystem(s *Scene) {
	q := s.canvases.Query(&s.world)
	for q.Next() {
		_, rect, inter := q.Get()
		for _, ev := range s.input.Mouse {
			pt := image.Pt(int(ev.X), int(ev.Y))
			inter.Hovered = pt.In(rect.R)
			p := stroke.Point{X: ev.X - float32(rect.R.Min.X), Y: ev.Y - float32(rect.R.Min.Y)}

			switch ev.Kind {
			case hal.MousePress:
				if ev.Button != hal.MouseButtonLeft || !inter.Hovered {
					continue
				}
				inter.Pressed = true
				inter.Trail.Reset()
				s.emit(inter.Trail.Push(p))
			case hal.MouseMove:
				if inter.Pressed {
					s.emit(inter.Trail.Push(p))
				}
			case hal.MouseRelease:
				inter.Pressed = false
				inter.Trail.Reset()
			}
		}
	}
}

func (s *Scene) emit(pts []stroke.Point) {
	for _, p := range pts {
		if !s.events.Queue.TrySend(event.ImageEvent{Kind: event.DrawPos, Pos: p}) {
			s.log.Debug("image event queue full", "dropped", s.events.Queue.Dropped())
			return
		}
	}
}

// canvasSystem applies queued image events to the texture.
func canvasSystem(s *Scene) {
	tex := s.Canvas()
	brush := s.settings.Brush
	s.events.Queue.Drain(func(ev event.ImageEvent) {
		switch ev.Kind {
		case event.DrawPos:
			tex.Stamp(ev.Pos.X, ev.Pos.Y, brush)
		case event.Clear:
			tex.Clear(canvas.White)
		}
	})
}

// keySystem handles clear, save, trigger mode and quit keys.
func keySystem(s *Scene) {
	for _, k := range s.input.Keys {
		switch k {
		case hal.KeyClear:
			s.events.Queue.TrySend(event.ImageEvent{Kind: event.Clear})
			s.session.Cleared = s.session.Pending
			s.setSprites(nil)
			s.session.Status = "cleared"
		case hal.KeySave:
			s.saveSnapshot("key")
		case hal.KeyMode:
			ctl := s.Controller()
			if ctl.Mode == config.TriggerTimer {
				ctl.Mode = config.TriggerKey
			} else {
				ctl.Mode = config.TriggerTimer
			}
			s.log.Info("trigger mode", "mode", ctl.Mode)
		case hal.KeyEscape:
			s.quit = true
		}
	}
}

func (s *Scene) saveSnapshot(reason string) {
	dir := s.settings.Config.SnapshotDir
	path, err := snapshot.Save(dir, s.Canvas().RGBImage())
	if err != nil {
		s.log.Error("snapshot", "err", err)
		s.session.Status = "snapshot failed"
		return
	}
	size, _ := snapshot.Size(path)
	s.log.Info("snapshot", "path", path, "size", humanize.Bytes(uint64(size)), "reason", reason)
	s.session.Status = "saved " + path
}

func inferTimerSystem(s *Scene) {
	s.Controller().Tick(s.input.Dt)
}

// inferRequestSystem submits the canvas when the controller is ready. A Clear
// pending in the queue cancels the run.
func inferRequestSystem(s *Scene) {
	ctl := s.Controller()
	tex := s.Canvas()
	trigger := s.input.Pressed(hal.KeyInfer)
	if !ctl.Ready(trigger, s.events.Queue.HasClear(), tex.Dirty()) {
		return
	}
	seq, ok := s.session.Runner.Submit(tex.RGBImage())
	if !ok {
		s.log.Debug("classifier busy, skipping frame")
		return
	}
	ctl.Done()
	tex.MarkClean()
	s.session.Pending = seq
	s.session.Runs++
	if s.settings.Config.SnapshotOnInfer {
		s.saveSnapshot("infer")
	}
}

// inferResultSystem picks up finished classifications and loads their images.
func inferResultSystem(s *Scene) {
	res, ok := s.session.Runner.Poll()
	if !ok {
		return
	}
	if res.Seq <= s.session.Cleared {
		s.log.Debug("dropping result for cleared canvas", "seq", res.Seq)
		return
	}
	if res.Err != nil {
		s.log.Error("inference failed", "seq", res.Seq, "err", res.Err)
		s.session.Status = "inference failed"
		return
	}

	p := res.Prediction
	s.session.Latest = p
	s.session.HasLatest = true
	s.log.Info("inference",
		"class", p.Class,
		"label", p.Label,
		"score", p.Score,
		"elapsed", p.Elapsed.String(),
		"run", humanize.Comma(int64(s.session.Runs)),
	)
	s.session.Status = fmt.Sprintf("%s in %s", p, p.Elapsed.Round(time.Millisecond))

	if s.store == nil {
		return
	}
	imgs, err := s.store.ResultSet(p.Class, p.Label)
	switch {
	case errors.Is(err, assets.ErrNoResults):
		s.log.Warn("no result images", "class", p.Class, "label", p.Label)
	case err != nil:
		s.log.Error("result images", "class", p.Class, "err", err)
	}
	s.setSprites(imgs)
}

func (s *Scene) setSprites(imgs []image.Image) {
	q := s.slots.Query(&s.world)
	for q.Next() {
		slot, sprite := q.Get()
		sprite.Image = nil
		if slot.Index < len(imgs) {
			sprite.Image = imgs[slot.Index]
		}
	}
	s.session.PanelDirty = true
}

// Sprites returns the result slot images in slot order.
func (s *Scene) Sprites() []image.Image {
	out := make([]image.Image, len(render.Layout{}.Slots))
	q := s.slots.Query(&s.world)
	for q.Next() {
		slot, sprite := q.Get()
		if slot.Index >= 0 && slot.Index < len(out) {
			out[slot.Index] = sprite.Image
		}
	}
	return out
}

func renderSystem(s *Scene) {
	if s.rend == nil {
		return
	}
	if s.session.PanelDirty {
		imgs := s.Sprites()
		if allNil(imgs) {
			imgs = nil
		}
		s.rend.SetResults(imgs)
		s.session.PanelDirty = false
	}
	s.rend.Frame(s.Canvas(), s.Status())
	if err := s.fb.Present(); err != nil {
		s.log.Error("present", "err", err)
	}
}

func allNil(imgs []image.Image) bool {
	for _, img := range imgs {
		if img != nil {
			return false
		}
	}
	return true
}
