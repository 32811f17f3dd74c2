// Package gfx defines the primitives components emit from Render and the
// renderer draws: rectangles, tessellated shapes, glyph runs and rasters.
//
// Shape, Text and Raster hold handles into the window caches. Passing the
// previous frame's renderable to the constructor keeps the same slots when
// they are still large enough.
package gfx

import (
	"fmt"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
)

// Renderable is a drawable primitive. The concrete types are *Rect, *Shape,
// *Text and *Raster.
type Renderable interface {
	// Z returns the draw order. Higher values draw later.
	Z() float32
	renderable()
}

// Rect is a filled, optionally rounded and bordered rectangle.
type Rect struct {
	Pos         geom.Pos
	Size        geom.Size
	Color       geom.Color
	Radius      float32
	Border      float32
	BorderColor geom.Color
}

// NewRect builds a plain rectangle.
func NewRect(pos geom.Pos, size geom.Size, color geom.Color) *Rect {
	return &Rect{Pos: pos, Size: size, Color: color}
}

// WithBorder sets the border width and color.
func (r *Rect) WithBorder(width float32, color geom.Color) *Rect {
	r.Border = width
	r.BorderColor = color
	return r
}

// WithRadius sets the corner radius.
func (r *Rect) WithRadius(radius float32) *Rect {
	r.Radius = radius
	return r
}

// AABB returns the bounds of the rectangle.
func (r *Rect) AABB() geom.AABB { return geom.NewAABB(r.Pos, r.Size) }

func (r *Rect) Z() float32 { return r.Pos.Z }
func (r *Rect) renderable() {}

func (r *Rect) String() string {
	return fmt.Sprintf("Rect%v %v", r.AABB(), r.Color)
}

// Shape is a tessellated triangle mesh stored in the shape buffer cache.
// Vertex positions are relative to Offset. The mesh is filled with Fill; a
// positive StrokeWidth also strokes the closed polygon through the vertices
// in order.
type Shape struct {
	Buffer      cache.BufferHandle
	Offset      geom.Pos
	Fill        geom.Color
	Stroke      geom.Color
	StrokeWidth float32
}

// NewShape copies vertices and indices into the shape cache, reusing prev's
// chunks when they are big enough.
func NewShape(c *cache.Caches, offset geom.Pos, vertices []geom.Point, indices []uint16, fill, stroke geom.Color, strokeWidth float32, prev *Shape) *Shape {
	var h cache.BufferHandle
	if prev != nil {
		h = c.Shapes.AllocOrReuseChunk(prev.Buffer, len(vertices), len(indices))
	} else {
		h = c.Shapes.AllocChunk(len(vertices), len(indices))
	}

	color := fill.Array()
	vs := c.Shapes.Vertices(h)
	for i, p := range vertices {
		vs[i] = cache.Vertex{Pos: [3]float32{p.X, p.Y, 0}, Color: color}
	}
	copy(c.Shapes.Indices(h), indices)
	return &Shape{Buffer: h, Offset: offset, Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth}
}

func (s *Shape) Z() float32 { return s.Offset.Z }
func (s *Shape) renderable() {}

// Text is a run of positioned glyphs. Its buffer chunk holds one quad per
// glyph; vertices are written by PrepareGlyphs once the atlas placement is
// known.
type Text struct {
	Buffer cache.BufferHandle
	Glyphs []cache.SectionGlyph
	Color  geom.Color
	Offset geom.Pos
}

// NewText reserves four vertices and six indices per glyph.
func NewText(c *cache.Caches, glyphs []cache.SectionGlyph, color geom.Color, offset geom.Pos, prev *Text) *Text {
	nv, ni := len(glyphs)*4, len(glyphs)*6
	var h cache.BufferHandle
	if prev != nil {
		h = c.Texts.AllocOrReuseChunk(prev.Buffer, nv, ni)
	} else {
		h = c.Texts.AllocChunk(nv, ni)
	}
	writeQuadIndices(c.Texts.Indices(h), len(glyphs))
	return &Text{Buffer: h, Glyphs: glyphs, Color: color, Offset: offset}
}

func (t *Text) Z() float32 { return t.Offset.Z }
func (t *Text) renderable() {}

// Raster is an RGBA image drawn as a single textured quad.
type Raster struct {
	Raster cache.RasterHandle
	Buffer cache.BufferHandle
	Pos    geom.Pos
	Size   geom.Size
}

// NewRaster stores RGBA pixel data of the given size and a quad covering
// size at pos. Passing prev reuses both its raster slot and its buffer.
func NewRaster(c *cache.Caches, data []byte, px geom.PixelSize, pos geom.Pos, size geom.Size, prev *Raster) *Raster {
	var rh *cache.RasterHandle
	var h cache.BufferHandle
	if prev != nil {
		rh = &prev.Raster
		h = c.Rasters.AllocOrReuseChunk(prev.Buffer, 4, 6)
	} else {
		h = c.Rasters.AllocChunk(4, 6)
	}
	slot := c.Images.AllocOrReuse(rh)
	if prev == nil || !holds(c.Images.Get(slot), data, px) {
		c.Images.SetRaster(slot, data, px)
	}

	white := geom.White.Array()
	quad := [4]geom.Point{
		{X: 0, Y: 0},
		{X: size.Width, Y: 0},
		{X: size.Width, Y: size.Height},
		{X: 0, Y: size.Height},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	vs := c.Rasters.Vertices(h)
	for i, p := range quad {
		vs[i] = cache.TexVertex{Pos: [3]float32{p.X, p.Y, 0}, UV: uvs[i], Color: white}
	}
	writeQuadIndices(c.Rasters.Indices(h), 1)
	return &Raster{Raster: slot, Buffer: h, Pos: pos, Size: size}
}

func (r *Raster) Z() float32 { return r.Pos.Z }
func (r *Raster) renderable() {}

// holds reports whether the slot already stores these pixels.
func holds(d *cache.RasterData, data []byte, px geom.PixelSize) bool {
	return d.Size == px && len(d.Data) == len(data) && d.Sum == cache.PixelSum(data)
}

func writeQuadIndices(dst []uint16, quads int) {
	for q := 0; q < quads; q++ {
		base := uint16(q * 4)
		copy(dst[q*6:], []uint16{base, base + 1, base + 2, base, base + 2, base + 3})
	}
}

// Handles reports the cache slots a renderable occupies. The UI registers
// them every frame so the sweep keeps them.
type Handles struct {
	Shape  *cache.BufferHandle
	Text   *cache.BufferHandle
	Raster *cache.BufferHandle
	Image  *cache.RasterHandle
}

// HandlesOf returns the handles held by r.
func HandlesOf(r Renderable) Handles {
	switch r := r.(type) {
	case *Shape:
		return Handles{Shape: &r.Buffer}
	case *Text:
		return Handles{Text: &r.Buffer}
	case *Raster:
		return Handles{Raster: &r.Buffer, Image: &r.Raster}
	}
	return Handles{}
}

// Register marks every handle held by the renderables as live.
func Register(c *cache.Caches, rs []Renderable) {
	for _, r := range rs {
		h := HandlesOf(r)
		if h.Shape != nil {
			c.Shapes.Register(*h.Shape)
		}
		if h.Text != nil {
			c.Texts.Register(*h.Text)
		}
		if h.Raster != nil {
			c.Rasters.Register(*h.Raster)
		}
		if h.Image != nil {
			c.Images.Register(*h.Image)
		}
	}
}

// Prev returns prev[i] when it has type T, for handle reuse by position.
func Prev[T Renderable](prev []Renderable, i int) T {
	var zero T
	if i < 0 || i >= len(prev) {
		return zero
	}
	if t, ok := prev[i].(T); ok {
		return t
	}
	return zero
}
