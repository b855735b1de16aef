package hal

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp: r, g, b, a bytes in memory order.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// BytesPerPixel reports the size of one pixel for the format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8888:
		return 4
	default:
		return 0
	}
}

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyClear
	KeyInfer
	KeySave
	KeyMode
)

func (k KeyCode) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyClear:
		return "clear"
	case KeyInfer:
		return "infer"
	case KeySave:
		return "save"
	case KeyMode:
		return "mode"
	default:
		return "unknown"
	}
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
)

// MouseEventKind distinguishes pointer motion from button transitions.
type MouseEventKind uint8

const (
	MouseMove MouseEventKind = iota + 1
	MousePress
	MouseRelease
)

// MouseEvent is a pointer event in framebuffer coordinates (origin top-left).
type MouseEvent struct {
	Kind   MouseEventKind
	Button MouseButton
	X, Y   float32
}

// Mouse provides pointer events.
type Mouse interface {
	Events() <-chan MouseEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Mouse() Mouse
}

// Time provides a base tick stream.
//
// Ticks are milliseconds of wall time observed by the host loop.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the application and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
