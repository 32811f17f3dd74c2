package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

func TestToggleUncontrolled(t *testing.T) {
	var changes []bool
	root := &page{}
	root.build = func() *retained.Node {
		return screen(retained.NewNode(&Toggle{
			OnChange: func(on bool) { changes = append(changes, on) },
		}, retained.Layout{}).Ref("t"))
	}
	h := newHarness(t, root)
	tg := func() *Toggle { return h.node("t").Component().(*Toggle) }
	assert.Equal(t, geom.Sz(36, 20), h.node("t").AABB().Size())

	h.click(geom.Pt(5, 5))
	assert.True(t, tg().Value())

	root.MarkDirty()
	h.ui.Frame()
	assert.True(t, tg().Value(), "re-viewing with the same On keeps the switch")

	h.click(geom.Pt(5, 5))
	assert.Equal(t, []bool{true, false}, changes)
}

func TestToggleControlled(t *testing.T) {
	on := false
	root := &page{}
	root.build = func() *retained.Node {
		return screen(retained.NewNode(&Toggle{
			On: on,
			OnChange: func(v bool) {
				on = v
				root.MarkDirty()
			},
		}, fixed(40, 20)).Focus(1).FocusWhenNew().Ref("t"))
	}
	h := newHarness(t, root)
	tg := func() *Toggle { return h.node("t").Component().(*Toggle) }

	h.press(retained.KeySpace)
	h.ui.Frame()
	assert.True(t, on)
	assert.True(t, tg().Value())

	on = false
	root.MarkDirty()
	h.ui.Frame()
	assert.False(t, tg().Value(), "the switch follows the prop")

	knob := h.node("t").Renderables()[1].(*gfx.Rect)
	assert.Equal(t, float32(2), knob.Pos.X, "the knob sits left when off")
}

func TestToggleRendersKnobRight(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Toggle{On: true}, fixed(40, 20)).Ref("t"))
	}}
	h := newHarness(t, root)
	rs := h.node("t").Renderables()
	require.Len(t, rs, 2)
	knob := rs[1].(*gfx.Rect)
	assert.Equal(t, geom.Sz(16, 16), knob.Size)
	assert.Equal(t, float32(40-2-16), knob.Pos.X)
	assert.Equal(t, AccentColor, rs[0].(*gfx.Rect).Color)
}
