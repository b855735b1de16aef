//go:build !cgo

package hal

func (k *hostKeyboard) poll() {
	// No keyboard support without the window backend.
}

func (m *hostMouse) poll() {}
