package widgets

import (
	"github.com/chewxy/math32"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// cornerSegments is how many edges approximate each rounded corner.
const cornerSegments = 8

// RoundedRect fills its box with a tessellated rectangle whose corners are
// rounded independently. Unlike Div, whose corners are drawn by the
// renderer, it produces a Shape mesh.
type RoundedRect struct {
	retained.Base

	Background  geom.Color
	BorderColor geom.Color
	Border      float32
	// Radii are the logical corner radii: top left, top right, bottom
	// right and bottom left.
	Radii [4]float32
}

// AllCorners returns the same radius for every corner.
func AllCorners(r float32) [4]float32 { return [4]float32{r, r, r, r} }

func (r *RoundedRect) Render(ctx retained.RenderContext) []gfx.Renderable {
	if r.Background == (geom.Color{}) && r.Border <= 0 {
		return nil
	}
	radii := r.Radii
	for i := range radii {
		radii[i] *= ctx.Scale
	}
	pts, idx := roundedRectMesh(ctx.AABB.Width(), ctx.AABB.Height(), radii)
	if len(idx) == 0 {
		return nil
	}
	return []gfx.Renderable{gfx.NewShape(ctx.Caches, ctx.AABB.Pos, pts, idx,
		r.Background, orColor(r.BorderColor, BorderColor), r.Border*ctx.Scale,
		gfx.Prev[*gfx.Shape](ctx.Prev, 0))}
}

// roundedRectMesh returns the outline of a w by h rectangle with rounded
// corners, clockwise from the top left, and a triangle fan over it. Radii
// are clamped to half the shorter side.
func roundedRectMesh(w, h float32, radii [4]float32) ([]geom.Point, []uint16) {
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	limit := min(w, h) / 2
	corners := [4]geom.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	// Corner i sweeps a quarter turn starting at starts[i].
	starts := [4]float32{math32.Pi, 1.5 * math32.Pi, 0, 0.5 * math32.Pi}
	inward := [4]geom.Point{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}

	pts := make([]geom.Point, 0, 4*(cornerSegments+1))
	add := func(p geom.Point) {
		if n := len(pts); n > 0 && near(pts[n-1], p) {
			return
		}
		pts = append(pts, p)
	}
	for i, corner := range corners {
		r := geom.Clamp(radii[i], 0, limit)
		if r == 0 {
			add(corner)
			continue
		}
		c := corner.Add(inward[i].Mul(r))
		for s := 0; s <= cornerSegments; s++ {
			a := starts[i] + float32(s)/cornerSegments*math32.Pi/2
			add(geom.Pt(c.X+r*math32.Cos(a), c.Y+r*math32.Sin(a)))
		}
	}
	if len(pts) > 1 && near(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}

	idx := make([]uint16, 0, 3*(len(pts)-2))
	for i := 1; i+1 < len(pts); i++ {
		idx = append(idx, 0, uint16(i), uint16(i+1))
	}
	return pts, idx
}

func near(a, b geom.Point) bool {
	d := a.Sub(b).Abs()
	return d.X < 1e-3 && d.Y < 1e-3
}
