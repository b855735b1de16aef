package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit queues an event, dropping it when the consumer lags behind.
func (k *hostKeyboard) emit(ev KeyEvent) bool {
	select {
	case k.ch <- ev:
		return true
	default:
		return false
	}
}

type hostMouse struct {
	ch chan MouseEvent

	down   bool
	lastX  float32
	lastY  float32
	seeded bool
}

func newHostMouse() *hostMouse {
	return &hostMouse{ch: make(chan MouseEvent, 256)}
}

func (m *hostMouse) Events() <-chan MouseEvent { return m.ch }

func (m *hostMouse) emit(ev MouseEvent) bool {
	select {
	case m.ch <- ev:
		return true
	default:
		return false
	}
}

// observe turns a sampled pointer state into move/press/release events.
func (m *hostMouse) observe(x, y float32, down bool) {
	moved := !m.seeded || x != m.lastX || y != m.lastY
	m.seeded = true
	m.lastX, m.lastY = x, y

	if down && !m.down {
		m.down = true
		m.emit(MouseEvent{Kind: MousePress, Button: MouseButtonLeft, X: x, Y: y})
		return
	}
	if !down && m.down {
		m.down = false
		m.emit(MouseEvent{Kind: MouseRelease, Button: MouseButtonLeft, X: x, Y: y})
		return
	}
	if moved {
		btn := MouseButtonNone
		if m.down {
			btn = MouseButtonLeft
		}
		m.emit(MouseEvent{Kind: MouseMove, Button: btn, X: x, Y: y})
	}
}
