package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int
	Log     io.Writer

	// Script feeds synthetic input, one command per line or ';'-separated:
	//   down X Y | move X Y | up | key clear|infer|save|mode|escape | wait N
	// Keys also accept their bindings: c, b, space, s, m, esc.
	// "wait N" lets N frames run before the next command.
	Script string

	// Done, if set, is called with the HAL after the loop stops.
	Done func(HAL)
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp func(HAL) (func() error, error)) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	script, err := ParseScript(cfg.Script)
	if err != nil {
		return err
	}

	h := newHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Log: cfg.Log})
	if cfg.Done != nil {
		defer cfg.Done(h)
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var (
		tick uint64
		wait int
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			for wait == 0 && len(script) > 0 {
				wait = script[0].apply(h)
				script = script[1:]
			}
			if wait > 0 {
				wait--
			}

			h.t.advance(d)
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// ScriptCommand is one parsed headless input command.
type ScriptCommand struct {
	Op   string
	X, Y float32
	Key  KeyCode
	N    int
}

// ParseScript splits a headless input script into commands.
func ParseScript(src string) ([]ScriptCommand, error) {
	var out []ScriptCommand
	lines := strings.FieldsFunc(src, func(r rune) bool { return r == '\n' || r == ';' })
	for _, line := range lines {
		words, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("headless script: %q: %w", line, err)
		}
		if len(words) == 0 {
			continue
		}
		cmd, err := parseCommand(words)
		if err != nil {
			return nil, fmt.Errorf("headless script: %q: %w", line, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

func parseCommand(words []string) (ScriptCommand, error) {
	cmd := ScriptCommand{Op: strings.ToLower(words[0])}
	args := words[1:]
	switch cmd.Op {
	case "down", "move":
		if len(args) != 2 {
			return cmd, errors.New("want X Y")
		}
		x, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return cmd, err
		}
		y, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return cmd, err
		}
		cmd.X, cmd.Y = float32(x), float32(y)
	case "up":
	case "key":
		if len(args) != 1 {
			return cmd, errors.New("want key name")
		}
		cmd.Key = keyByName(args[0])
		if cmd.Key == KeyUnknown {
			return cmd, fmt.Errorf("unknown key %q", args[0])
		}
	case "wait":
		if len(args) != 1 {
			return cmd, errors.New("want frame count")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return cmd, err
		}
		if n < 0 {
			return cmd, fmt.Errorf("negative wait %d", n)
		}
		cmd.N = n
	default:
		return cmd, fmt.Errorf("unknown command %q", cmd.Op)
	}
	return cmd, nil
}

var keyAliases = map[string]KeyCode{
	"esc":   KeyEscape,
	"c":     KeyClear,
	"b":     KeyInfer,
	"space": KeyInfer,
	"s":     KeySave,
	"m":     KeyMode,
}

func keyByName(name string) KeyCode {
	name = strings.ToLower(name)
	if k, ok := keyAliases[name]; ok {
		return k
	}
	for k := KeyEscape; k <= KeyMode; k++ {
		if k.String() == name {
			return k
		}
	}
	return KeyUnknown
}

// apply injects the command's input and returns the number of frames to wait.
func (c ScriptCommand) apply(h *hostHAL) int {
	switch c.Op {
	case "down":
		h.mouse.observe(c.X, c.Y, false)
		h.mouse.observe(c.X, c.Y, true)
	case "move":
		h.mouse.observe(c.X, c.Y, h.mouse.down)
	case "up":
		h.mouse.observe(h.mouse.lastX, h.mouse.lastY, false)
	case "key":
		h.kbd.emit(KeyEvent{Code: c.Key, Press: true})
		h.kbd.emit(KeyEvent{Code: c.Key, Press: false})
	case "wait":
		return c.N
	}
	return 0
}
