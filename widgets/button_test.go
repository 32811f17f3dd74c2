package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

type saved struct{}

func TestButtonClick(t *testing.T) {
	clicks := 0
	root := &page{}
	root.build = func() *retained.Node {
		return screen(retained.NewNode(&Button{
			Label:   "Save",
			Message: saved{},
			OnClick: func() { clicks++ },
		}, fixed(100, 40)).Ref("save"))
	}
	h := newHarness(t, root)

	h.click(geom.Pt(50, 20))
	assert.Equal(t, 1, clicks)
	h.ui.Frame()
	assert.Equal(t, []retained.Message{saved{}}, root.received)

	t.Run("a quick second click still counts", func(t *testing.T) {
		h.click(geom.Pt(50, 20))
		h.click(geom.Pt(50, 20))
		assert.Equal(t, 3, clicks)
	})

	t.Run("release outside is not a click", func(t *testing.T) {
		h.input(retained.MouseMoved(geom.Pt(50, 20)), retained.MousePressed(retained.MouseButtonLeft),
			retained.MouseMoved(geom.Pt(300, 300)), retained.MouseReleased(retained.MouseButtonLeft))
		assert.Equal(t, 3, clicks)
	})
}

func TestButtonHoverAndPress(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Button{Label: "Go", Background: geom.Blue}, fixed(100, 40)).Ref("go"))
	}}
	h := newHarness(t, root)
	bg := func() geom.Color {
		return h.node("go").Renderables()[0].(*gfx.Rect).Color
	}
	require.Equal(t, geom.Blue, bg())

	h.input(retained.MouseMoved(geom.Pt(10, 10)))
	assert.Equal(t, retained.CursorPointer, h.window.Cursor())
	h.ui.Frame()
	hovered := bg()
	assert.NotEqual(t, geom.Blue, hovered)

	h.input(retained.MousePressed(retained.MouseButtonLeft))
	h.ui.Frame()
	assert.NotEqual(t, hovered, bg())

	h.input(retained.MouseReleased(retained.MouseButtonLeft), retained.MouseMoved(geom.Pt(400, 400)))
	assert.Equal(t, retained.CursorDefault, h.window.Cursor())
	h.ui.Frame()
	assert.Equal(t, geom.Blue, bg())
}

func TestButtonKeyboard(t *testing.T) {
	clicks := 0
	disabled := false
	root := &page{}
	root.build = func() *retained.Node {
		return screen(retained.NewNode(&Button{
			Label:    "OK",
			Disabled: disabled,
			OnClick:  func() { clicks++ },
		}, fixed(100, 40)).Focus(1).FocusWhenNew().Ref("ok"))
	}
	h := newHarness(t, root)
	require.Same(t, h.node("ok"), h.ui.Focused())

	h.press(retained.KeyEnter)
	h.press(retained.KeySpace)
	h.press("a")
	assert.Equal(t, 2, clicks)

	disabled = true
	root.MarkDirty()
	h.ui.Frame()
	h.press(retained.KeyEnter)
	h.click(geom.Pt(10, 10))
	assert.Equal(t, 2, clicks, "a disabled button ignores presses")
}

func TestButtonSizesToLabel(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(NewButton("A longer label", nil).Ref("b"))
	}}
	h := newHarness(t, root)
	box := h.node("b").AABB()
	fonts := h.ui.Caches().Fonts
	want := fonts.Measure(cache.Txt("A longer label"), "", DefaultTextSize, 1, geom.Size{})
	assert.InDelta(t, want.Width+24, box.Width(), 0.01)
	assert.InDelta(t, want.Height+12, box.Height(), 0.01)
}
