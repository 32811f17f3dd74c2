package ebitenwin

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

func TestAlphaToRGBA(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0x80, 0x80, 0x80, 0x80, 0xff, 0xff, 0xff, 0xff},
		alphaToRGBA([]byte{0, 0x80, 0xff}))
}

func TestTexVertices(t *testing.T) {
	src := []cache.TexVertex{{
		Pos:   [3]float32{10, 20, 3},
		UV:    [2]float32{0.5, 0.25},
		Color: geom.Red.Array(),
	}}
	vs := texVertices(nil, src, 256, 128)
	require.Len(t, vs, 1)
	assert.Equal(t, float32(10), vs[0].DstX)
	assert.Equal(t, float32(20), vs[0].DstY)
	assert.Equal(t, float32(128), vs[0].SrcX)
	assert.Equal(t, float32(32), vs[0].SrcY)
	assert.Equal(t, geom.Red.R, vs[0].ColorR)
	assert.Equal(t, geom.Red.A, vs[0].ColorA)
}

func TestClipRect(t *testing.T) {
	clip := geom.AABB{Pos: geom.Pos{X: 2, Y: 4}, BottomRight: geom.Pt(50.6, 80.2)}
	assert.Equal(t, image.Rect(2, 4, 51, 80), clipRect(clip))
}

func TestRoundedRect(t *testing.T) {
	var square, round vector.Path
	roundedRect(&square, 0, 0, 40, 20, 0)
	roundedRect(&round, 0, 0, 40, 20, 50)

	sv, _ := square.AppendVerticesAndIndicesForFilling(nil, nil)
	rv, _ := round.AppendVerticesAndIndicesForFilling(nil, nil)
	assert.GreaterOrEqual(t, len(sv), 4)
	assert.Greater(t, len(rv), len(sv), "corners add arc points")
	for _, v := range rv {
		assert.True(t, v.DstX >= -0.01 && v.DstX <= 40.01 && v.DstY >= -0.01 && v.DstY <= 20.01,
			"vertex %v,%v stays inside the box", v.DstX, v.DstY)
	}
}

func TestShapeVertices(t *testing.T) {
	c := cache.NewCaches(cache.WithMultithread(false))
	tri := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	half := geom.RGBA(1, 0, 0, 0.5)
	s := gfx.NewShape(c, geom.Pos{X: 5, Y: 7}, tri, []uint16{0, 1, 2}, half, geom.Black, 2, nil)

	vc, _ := c.Shapes.GetChunks(s.Buffer)
	src := c.Shapes.Vertices(s.Buffer)[:vc.N]
	vs := shapeVertices(nil, src, s.Offset)
	require.Len(t, vs, 3)
	assert.Equal(t, float32(15), vs[1].DstX)
	assert.Equal(t, float32(7), vs[1].DstY)
	assert.Equal(t, float32(17), vs[2].DstY)
	assert.Equal(t, float32(0.5), vs[0].ColorR, "colors are premultiplied")
	assert.Equal(t, float32(0.5), vs[0].ColorA)
	assert.Equal(t, float32(1), vs[0].SrcX)

	var p vector.Path
	outline(&p, src, s.Offset)
	sv, si := p.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: s.StrokeWidth})
	assert.NotEmpty(t, si)
	for _, v := range sv {
		assert.True(t, v.DstX >= 0 && v.DstX <= 20 && v.DstY >= 0 && v.DstY <= 22,
			"stroke vertex %v,%v stays near the moved triangle", v.DstX, v.DstY)
	}
}
