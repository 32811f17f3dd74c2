package widgets

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

func rasterID(t *testing.T, h *harness, n *retained.Node) cache.RasterID {
	t.Helper()
	rs := ofType[*gfx.Raster](n.Renderables())
	require.Len(t, rs, 1)
	var id cache.RasterID
	h.ui.Caches().Read(func(c *cache.Caches) {
		id = c.Images.Get(rs[0].Raster).ID
	})
	return id
}

func TestCanvasDraw(t *testing.T) {
	var calls []geom.Point
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Canvas{
			Size:  geom.PixelSize{Width: 4, Height: 4},
			Fill:  geom.White,
			Scale: 10,
			OnDraw: func(x, y int) []CanvasPixel {
				calls = append(calls, geom.Pt(float32(x), float32(y)))
				return []CanvasPixel{{X: x, Y: y, Color: geom.Red}}
			},
		}, retained.Layout{}).Ref("c"))
	}}
	h := newHarness(t, root)
	n := h.node("c")
	cv := n.Component().(*Canvas)
	assert.Equal(t, geom.Sz(40, 40), n.AABB().Size())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, cv.At(0, 0))
	before := rasterID(t, h, n)

	h.input(
		retained.MouseMoved(geom.Pt(15, 25)),
		retained.MousePressed(retained.MouseButtonLeft),
		retained.MouseMoved(geom.Pt(35, 5)),
		retained.MouseReleased(retained.MouseButtonLeft),
		retained.MouseMoved(geom.Pt(5, 5)),
	)
	assert.Equal(t, []geom.Point{geom.Pt(1, 2), geom.Pt(3, 0)}, calls, "only pointer positions with the button held draw")
	red := color.NRGBA{R: 255, A: 255}
	assert.Equal(t, red, cv.At(1, 2))
	assert.Equal(t, red, cv.At(3, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, cv.At(0, 0))

	h.ui.Frame()
	assert.Greater(t, rasterID(t, h, h.node("c")), before, "pixels edited in place are uploaded again")
}

func TestCanvasSetAndReset(t *testing.T) {
	seed := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	root := &page{build: func() *retained.Node {
		return screen(retained.NewNode(&Canvas{Pixels: seed, Size: geom.PixelSize{Width: 2, Height: 1}}, retained.Layout{}).Ref("c"))
	}}
	h := newHarness(t, root)
	cv := h.node("c").Component().(*Canvas)
	assert.Equal(t, color.NRGBA{R: 5, G: 6, B: 7, A: 8}, cv.At(1, 0))

	assert.False(t, cv.Set(2, 0, geom.Red), "off the canvas")
	assert.False(t, cv.Set(-1, 0, geom.Red))
	assert.Equal(t, color.NRGBA{}, cv.At(5, 5))

	root.MarkDirty()
	h.ui.Frame()
	assert.Equal(t, color.NRGBA{R: 5, G: 6, B: 7, A: 8}, h.node("c").Component().(*Canvas).At(1, 0),
		"re-viewing keeps the edited pixels")

	cv = h.node("c").Component().(*Canvas)
	cv.Reset(make([]byte, 3*3*4), geom.PixelSize{Width: 3, Height: 3})
	h.ui.Frame()
	assert.Equal(t, geom.Sz(3, 3), h.node("c").AABB().Size())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, seed, "the seed slice is copied, not edited")
}
