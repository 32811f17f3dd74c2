package ebitenwin

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

func TestTranslatePointer(t *testing.T) {
	var tr translator
	size := geom.Sz(200, 100)

	out := tr.translate(&snapshot{cursor: geom.Pt(10, 20), size: size, focused: true}, nil)
	assert.Equal(t, []retained.Input{retained.MouseMoved(geom.Pt(10, 20))}, out)

	out = tr.translate(&snapshot{cursor: geom.Pt(10, 20), size: size, focused: true}, nil)
	assert.Empty(t, out, "a still pointer sends nothing")

	s := &snapshot{cursor: geom.Pt(10, 20), size: size, focused: true}
	s.buttons[0] = true
	out = tr.translate(s, nil)
	assert.Equal(t, []retained.Input{retained.MousePressed(retained.MouseButtonLeft)}, out)

	s = &snapshot{cursor: geom.Pt(300, 20), size: size, focused: true}
	s.buttons[0] = true
	out = tr.translate(s, nil)
	assert.Equal(t, []retained.Input{retained.MouseMoved(geom.Pt(300, 20))}, out, "moves outside are kept while a button is held")

	out = tr.translate(&snapshot{cursor: geom.Pt(300, 20), size: size, focused: true}, nil)
	assert.Equal(t, []retained.Input{
		retained.MouseLeftWindow(),
		retained.MouseReleased(retained.MouseButtonLeft),
	}, out)
}

func TestTranslateKeysAndWheel(t *testing.T) {
	var tr translator
	size := geom.Sz(200, 100)
	tr.translate(&snapshot{cursor: geom.Pt(1, 1), size: size}, nil)

	out := tr.translate(&snapshot{
		cursor:  geom.Pt(1, 1),
		size:    size,
		wheel:   geom.Pt(0, -1),
		pressed: []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyA, ebiten.KeyCapsLock},
		chars:   []rune("A"),
	}, nil)
	assert.Equal(t, []retained.Input{
		retained.Scrolled(geom.Pt(0, WheelStep)),
		retained.KeyPressed(retained.KeyShift),
		retained.KeyPressed("a"),
		retained.TextEntered("A"),
	}, out)

	out = tr.translate(&snapshot{
		cursor:   geom.Pt(1, 1),
		size:     size,
		released: []ebiten.Key{ebiten.KeyA},
		focused:  true,
	}, nil)
	assert.Equal(t, []retained.Input{
		retained.WindowFocused(true),
		retained.KeyReleased("a"),
	}, out)
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		in   ebiten.Key
		want retained.Key
		ok   bool
	}{
		{in: ebiten.KeyA, want: "a", ok: true},
		{in: ebiten.KeyZ, want: "z", ok: true},
		{in: ebiten.KeyDigit7, want: "7", ok: true},
		{in: ebiten.KeyF5, want: "F5", ok: true},
		{in: ebiten.KeyNumpadEnter, want: retained.KeyEnter, ok: true},
		{in: ebiten.KeyMetaRight, want: retained.KeySuper, ok: true},
		{in: ebiten.KeySlash, want: "/", ok: true},
		{in: ebiten.KeyCapsLock},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, ok := keyFor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCursorShape(t *testing.T) {
	assert.Equal(t, ebiten.CursorShapeText, cursorShape(retained.CursorText))
	assert.Equal(t, ebiten.CursorShapeMove, cursorShape(retained.CursorGrabbing))
	assert.Equal(t, ebiten.CursorShapeDefault, cursorShape(retained.Cursor(200)))
}
