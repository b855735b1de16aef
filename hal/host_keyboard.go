//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var keyBindings = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyC, KeyClear},
	{ebiten.KeyB, KeyInfer},
	{ebiten.KeySpace, KeyInfer},
	{ebiten.KeyS, KeySave},
	{ebiten.KeyM, KeyMode},
}

func (k *hostKeyboard) poll() {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			k.emit(KeyEvent{Code: b.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(b.key) {
			k.emit(KeyEvent{Code: b.code, Press: false})
		}
	}
}

func (m *hostMouse) poll() {
	x, y := ebiten.CursorPosition()
	m.observe(float32(x), float32(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}
