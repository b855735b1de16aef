package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"unicode/utf8"

	"sketchassist/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var screenFont = &proggy.TinySZ8pt7b

const (
	screenLineHeight = int16(12)
	screenBaseline   = int16(9)
	screenMargin     = int16(8)
)

// loadingScreen shows a single message on a dark screen.
func loadingScreen(h hal.HAL, msg string) {
	fb := framebuffer(h)
	if fb == nil {
		return
	}
	fb.ClearRGB(0x26, 0x26, 0x2e)
	drawLines(fb, []string{msg}, color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff})
	_ = fb.Present()
}

// panicScreen logs the panic and paints it, with the stack, on a white screen.
func panicScreen(h hal.HAL, log *slog.Logger, v any, stack []byte) {
	if log != nil {
		log.Error("panic", "value", fmt.Sprint(v), "stack", string(stack))
	}
	fb := framebuffer(h)
	if fb == nil {
		return
	}
	fb.ClearRGB(255, 255, 255)

	lines := []string{
		"sketchassist panic:",
		fmt.Sprintf("panic: %v", v),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}
	drawLines(fb, lines, color.RGBA{A: 255})
	_ = fb.Present()
}

func framebuffer(h hal.HAL) hal.Framebuffer {
	if h == nil {
		return nil
	}
	disp := h.Display()
	if disp == nil {
		return nil
	}
	return disp.Framebuffer()
}

// drawLines writes lines top to bottom, wrapping at the screen width and
// stopping at the bottom edge.
func drawLines(fb hal.Framebuffer, lines []string, fg color.RGBA) {
	_, outbox := tinyfont.LineWidth(screenFont, "0")
	fontWidth := int16(outbox)
	if fontWidth <= 0 {
		return
	}
	d := screenDisplay{fb: fb}
	maxH := int16(fb.Height())
	cols := (int16(fb.Width()) - 2*screenMargin) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := screenMargin
	for _, line := range lines {
		for len(line) > 0 {
			if y+screenLineHeight > maxH {
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, screenFont, screenMargin, y+screenBaseline, chunk, fg)
			y += screenLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

var _ drivers.Displayer = screenDisplay{}

type screenDisplay struct {
	fb hal.Framebuffer
}

func (d screenDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d screenDisplay) SetPixel(x, y int16, c color.RGBA) {
	hal.SetPixel(d.fb, int(x), int(y), c)
}

func (d screenDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
