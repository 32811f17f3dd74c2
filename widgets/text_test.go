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

func TestTextSizesToContent(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(NewText("hi there").Ref("t"))
	}}
	h := newHarness(t, root)
	fonts := h.ui.Caches().Fonts
	want := fonts.Measure(cache.Txt("hi there"), cache.DefaultFont, DefaultTextSize, 1, geom.Size{})
	assert.Equal(t, want, h.node("t").AABB().Size())

	texts := ofType[*gfx.Text](h.node("t").Renderables())
	require.Len(t, texts, 1)
	assert.Len(t, texts[0].Glyphs, len("hi there"))
	assert.Equal(t, DefaultTextColor, texts[0].Color)
}

func TestTextWrapsToWidth(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Text{Text: "several words that cannot fit"},
			retained.Layout{Size: retained.Dims(retained.Px(60), retained.Auto)}).Ref("t"))
	}}
	h := newHarness(t, root)
	lh := h.ui.Caches().Fonts.LineHeight(cache.DefaultFont, DefaultTextSize, 1)
	assert.Greater(t, h.node("t").AABB().Height(), lh*1.5)
}

func TestTextPaddingOffsetsGlyphs(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Text{Text: "x", Color: geom.Red},
			retained.Layout{Padding: geom.All(5)}).Ref("t"))
	}}
	h := newHarness(t, root)
	txt := h.node("t").Renderables()[0].(*gfx.Text)
	assert.Equal(t, geom.Pos{X: 5, Y: 5, Z: 2}, txt.Offset)
	assert.Equal(t, geom.Red, txt.Color)
}

func TestTextRerendersAtNewScale(t *testing.T) {
	root := &page{build: func() *retained.Node {
		return screen(NewText("scaled").Ref("t"))
	}}
	h := newHarness(t, root)
	before := h.node("t").Renderables()[0].(*gfx.Text).Glyphs[0].Glyph.Scale

	h.window.SetScale(2)
	h.input(retained.Resized())
	h.ui.Frame()
	after := h.node("t").Renderables()[0].(*gfx.Text).Glyphs[0].Glyph.Scale
	assert.InDelta(t, before*2, after, 1e-3)
}
