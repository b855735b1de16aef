package hal

import (
	"errors"
	"io"
	"os"
	"sync"
)

// HostConfig describes the host surface.
type HostConfig struct {
	Width  int
	Height int
	// Log receives log lines. Defaults to os.Stderr.
	Log io.Writer
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	mouse  *hostMouse
	t      *hostTime
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	w := cfg.Log
	if w == nil {
		w = os.Stderr
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1350
	}
	if height <= 0 {
		height = 700
	}
	return &hostHAL{
		logger: &hostLogger{w: w},
		fb:     newHostFramebuffer(width, height),
		kbd:    newHostKeyboard(),
		mouse:  newHostMouse(),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, mouse: h.mouse} }
func (h *hostHAL) Time() Time       { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd   *hostKeyboard
	mouse *hostMouse
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Mouse() Mouse       { return in.mouse }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, s)
	io.WriteString(l.w, "\n")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// Scale multiplies the window size; the framebuffer keeps its logical size.
	Scale float64
	TPS   int
	Log   io.Writer
}

// ErrQuit is returned by an app step to end the run loop cleanly.
var ErrQuit = errors.New("quit")
