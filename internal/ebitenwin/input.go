package ebitenwin

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

// WheelStep is the logical distance of one wheel notch.
const WheelStep = 40

// snapshot is the input state of one tick.
type snapshot struct {
	cursor   geom.Point
	buttons  [3]bool
	wheel    geom.Point
	pressed  []ebiten.Key
	released []ebiten.Key
	chars    []rune
	focused  bool
	size     geom.Size
}

// poll reads ebiten's input state. The cursor is converted from physical to
// logical pixels.
func poll(scale float32, size geom.Size, s *snapshot) {
	x, y := ebiten.CursorPosition()
	s.cursor = geom.Pt(float32(x)/scale, float32(y)/scale)
	s.buttons = [3]bool{
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}
	wx, wy := ebiten.Wheel()
	s.wheel = geom.Pt(float32(wx), float32(wy))
	s.pressed = inpututil.AppendJustPressedKeys(s.pressed[:0])
	s.released = inpututil.AppendJustReleasedKeys(s.released[:0])
	s.chars = ebiten.AppendInputChars(s.chars[:0])
	s.focused = ebiten.IsFocused()
	s.size = size
}

var buttons = [3]retained.MouseButton{retained.MouseButtonLeft, retained.MouseButtonRight, retained.MouseButtonMiddle}

// translator turns successive snapshots into UI input.
type translator struct {
	started bool
	cursor  geom.Point
	inside  bool
	buttons [3]bool
	focused bool
}

func (t *translator) translate(s *snapshot, out []retained.Input) []retained.Input {
	if !t.started {
		t.started = true
		t.focused = s.focused
		t.cursor = geom.Pt(-1, -1)
	}
	if s.focused != t.focused {
		t.focused = s.focused
		out = append(out, retained.WindowFocused(s.focused))
	}

	inside := s.cursor.X >= 0 && s.cursor.Y >= 0 && s.cursor.X < s.size.Width && s.cursor.Y < s.size.Height
	held := s.buttons[0] || s.buttons[1] || s.buttons[2]
	switch {
	case inside || held:
		if s.cursor != t.cursor {
			out = append(out, retained.MouseMoved(s.cursor))
		}
	case t.inside:
		out = append(out, retained.MouseLeftWindow())
	}
	t.inside = inside || (held && t.inside)
	t.cursor = s.cursor

	for i, down := range s.buttons {
		if down == t.buttons[i] {
			continue
		}
		t.buttons[i] = down
		if down {
			out = append(out, retained.MousePressed(buttons[i]))
		} else {
			out = append(out, retained.MouseReleased(buttons[i]))
		}
	}

	if s.wheel != (geom.Point{}) {
		out = append(out, retained.Scrolled(geom.Pt(-s.wheel.X*WheelStep, -s.wheel.Y*WheelStep)))
	}

	for _, k := range s.pressed {
		if key, ok := keyFor(k); ok {
			out = append(out, retained.KeyPressed(key))
		}
	}
	if len(s.chars) > 0 {
		out = append(out, retained.TextEntered(string(s.chars)))
	}
	for _, k := range s.released {
		if key, ok := keyFor(k); ok {
			out = append(out, retained.KeyReleased(key))
		}
	}
	return out
}

var namedKeys = map[ebiten.Key]retained.Key{
	ebiten.KeyEnter:        retained.KeyEnter,
	ebiten.KeyNumpadEnter:  retained.KeyEnter,
	ebiten.KeyEscape:       retained.KeyEscape,
	ebiten.KeyBackspace:    retained.KeyBackspace,
	ebiten.KeyDelete:       retained.KeyDelete,
	ebiten.KeyTab:          retained.KeyTab,
	ebiten.KeySpace:        retained.KeySpace,
	ebiten.KeyArrowLeft:    retained.KeyLeft,
	ebiten.KeyArrowRight:   retained.KeyRight,
	ebiten.KeyArrowUp:      retained.KeyUp,
	ebiten.KeyArrowDown:    retained.KeyDown,
	ebiten.KeyHome:         retained.KeyHome,
	ebiten.KeyEnd:          retained.KeyEnd,
	ebiten.KeyPageUp:       retained.KeyPageUp,
	ebiten.KeyPageDown:     retained.KeyPageDown,
	ebiten.KeyShiftLeft:    retained.KeyShift,
	ebiten.KeyShiftRight:   retained.KeyShift,
	ebiten.KeyControlLeft:  retained.KeyControl,
	ebiten.KeyControlRight: retained.KeyControl,
	ebiten.KeyAltLeft:      retained.KeyAlt,
	ebiten.KeyAltRight:     retained.KeyAlt,
	ebiten.KeyMetaLeft:     retained.KeySuper,
	ebiten.KeyMetaRight:    retained.KeySuper,
	ebiten.KeyMinus:        "-",
	ebiten.KeyEqual:        "=",
	ebiten.KeyComma:        ",",
	ebiten.KeyPeriod:       ".",
	ebiten.KeySlash:        "/",
	ebiten.KeySemicolon:    ";",
	ebiten.KeyQuote:        "'",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
	ebiten.KeyBackslash:    "\\",
	ebiten.KeyBackquote:    "`",
}

// keyFor maps a physical key to the character it produces on a US layout
// without modifiers, or to its name.
func keyFor(k ebiten.Key) (retained.Key, bool) {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return retained.Key(rune('a' + (k - ebiten.KeyA))), true
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return retained.Key(rune('0' + (k - ebiten.KeyDigit0))), true
	case k >= ebiten.KeyF1 && k <= ebiten.KeyF12:
		return retained.Key(k.String()), true
	}
	key, ok := namedKeys[k]
	return key, ok
}

var cursorShapes = map[retained.Cursor]ebiten.CursorShapeType{
	retained.CursorDefault:    ebiten.CursorShapeDefault,
	retained.CursorPointer:    ebiten.CursorShapePointer,
	retained.CursorText:       ebiten.CursorShapeText,
	retained.CursorGrab:       ebiten.CursorShapeMove,
	retained.CursorGrabbing:   ebiten.CursorShapeMove,
	retained.CursorResizeEW:   ebiten.CursorShapeEWResize,
	retained.CursorResizeNS:   ebiten.CursorShapeNSResize,
	retained.CursorNotAllowed: ebiten.CursorShapeNotAllowed,
}

func cursorShape(c retained.Cursor) ebiten.CursorShapeType {
	if s, ok := cursorShapes[c]; ok {
		return s
	}
	return ebiten.CursorShapeDefault
}
