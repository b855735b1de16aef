package render

import (
	"image"
	"image/color"

	"sketchassist/hal"
	"sketchassist/internal/canvas"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	backgroundColor = color.RGBA{R: 0x26, G: 0x26, B: 0x2e, A: 0xff}
	statusColor     = color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
)

// Renderer draws frames into a framebuffer.
type Renderer struct {
	fb     hal.Framebuffer
	layout Layout
	font   tinyfont.Fonter

	panel      image.Image
	empty      image.Image
	canvasView *image.RGBA
}

// New returns a renderer for fb. empty is drawn in every result slot until
// the first result set arrives and may be nil.
func New(fb hal.Framebuffer, layout Layout, empty image.Image) *Renderer {
	r := &Renderer{
		fb:     fb,
		layout: layout,
		font:   &proggy.TinySZ8pt7b,
		empty:  empty,
	}
	r.SetResults(nil)
	return r
}

// Layout returns the geometry used by the renderer.
func (r *Renderer) Layout() Layout { return r.layout }

// SetResults recomposes the result panel. A nil set shows the empty image or
// a blank panel.
func (r *Renderer) SetResults(imgs []image.Image) {
	if len(imgs) == 0 && r.empty != nil {
		imgs = []image.Image{r.empty, r.empty, r.empty, r.empty}
	}
	r.panel = ComposePanel(r.layout, imgs)
}

// ComposePanel draws up to four images into the 2x2 result grid, each
// scaled to fit its slot with aspect ratio kept.
func ComposePanel(l Layout, imgs []image.Image) image.Image {
	w, h := l.Panel.Dx(), l.Panel.Dy()
	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	_ = dc.Fill()

	for i := range l.Slots {
		slot := l.Slot(i)
		if i < len(imgs) && imgs[i] != nil {
			fitted := fit(imgs[i], slot.Dx()-4, slot.Dy()-4)
			b := fitted.Bounds()
			x := slot.Min.X + (slot.Dx()-b.Dx())/2
			y := slot.Min.Y + (slot.Dy()-b.Dy())/2
			dc.DrawImage(gg.ImageBufFromImage(fitted), float64(x), float64(y))
		}
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.SetLineWidth(1)
		dc.DrawRectangle(float64(slot.Min.X)+0.5, float64(slot.Min.Y)+0.5, float64(slot.Dx()-1), float64(slot.Dy()-1))
		_ = dc.Stroke()
	}
	return dc.Image()
}

// fit scales src into at most w x h keeping its aspect ratio.
func fit(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	sw, sh := w, b.Dy()*w/b.Dx()
	if sh > h {
		sw, sh = b.Dx()*h/b.Dy(), h
	}
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Frame draws a complete frame: background, canvas, result panel and status.
func (r *Renderer) Frame(c *canvas.Canvas, status string) {
	dst := view(r.fb)
	if dst == nil {
		return
	}
	hal.FillRect(r.fb, 0, 0, r.fb.Width(), r.fb.Height(), backgroundColor)
	r.drawCanvas(dst, c)
	if r.panel != nil {
		draw.Draw(dst, r.layout.Panel, r.panel, r.panel.Bounds().Min, draw.Src)
	}
	r.DrawStatus(status)
}

func (r *Renderer) drawCanvas(dst *image.RGBA, c *canvas.Canvas) {
	if c == nil {
		return
	}
	if r.canvasView == nil || len(r.canvasView.Pix) != len(c.Pix) {
		r.canvasView = &image.RGBA{Rect: image.Rect(0, 0, c.Width, c.Height), Stride: c.Width * 4}
	}
	r.canvasView.Pix = c.Pix

	rect := r.layout.Canvas
	if rect.Dx() == c.Width && rect.Dy() == c.Height {
		draw.Copy(dst, rect.Min, r.canvasView, r.canvasView.Bounds(), draw.Src, nil)
		return
	}
	draw.ApproxBiLinear.Scale(dst, rect, r.canvasView, r.canvasView.Bounds(), draw.Src, nil)
}

// DrawStatus writes one line of text under the canvas.
func (r *Renderer) DrawStatus(s string) {
	if s == "" {
		return
	}
	d := &fbDisplayer{fb: r.fb}
	p := r.layout.Status
	tinyfont.WriteLine(d, r.font, int16(p.X), int16(p.Y), s, statusColor)
}
