package retained

import "runtime"

// Platform is the GOOS keyboard conventions follow. It defaults to the
// running system.
var Platform = runtime.GOOS

func apple() bool { return Platform == "darwin" || Platform == "ios" }

// Shortcut reports whether the command modifier is held: Super on Apple
// platforms, Ctrl elsewhere.
func (m Modifiers) Shortcut() bool {
	if apple() {
		return m.Super()
	}
	return m.Ctrl()
}

// WordJump reports whether the modifier that moves and deletes by word is
// held: Alt on Apple platforms, Ctrl elsewhere.
func (m Modifiers) WordJump() bool {
	if apple() {
		return m.Alt()
	}
	return m.Ctrl()
}
