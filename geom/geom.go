// Package geom holds the dense value types shared by layout, rendering and
// event routing: points, sizes, bounding boxes and colors.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// ============================================================================
// Points and Sizes
// ============================================================================

// Point is a 2D position in logical or physical pixels.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point        { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point        { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(s float32) Point      { return Point{p.X * s, p.Y * s} }
func (p Point) Dist(o Point) float32     { return math32.Hypot(p.X-o.X, p.Y-o.Y) }
func (p Point) String() string           { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }
func (p Point) WithZ(z float32) Pos      { return Pos{X: p.X, Y: p.Y, Z: z} }
func (p Point) Equal(o Point) bool       { return p.X == o.X && p.Y == o.Y }
func (p Point) Abs() Point               { return Point{math32.Abs(p.X), math32.Abs(p.Y)} }
func (p Point) Round() Point             { return Point{math32.Round(p.X), math32.Round(p.Y)} }
func (p Point) Scale(s float32) Point    { return p.Mul(s) }
func (p Point) Neg() Point               { return Point{-p.X, -p.Y} }
func (p Point) IsZero() bool             { return p.X == 0 && p.Y == 0 }
func (p Point) Max(o Point) Point        { return Point{math32.Max(p.X, o.X), math32.Max(p.Y, o.Y)} }
func (p Point) Min(o Point) Point        { return Point{math32.Min(p.X, o.X), math32.Min(p.Y, o.Y)} }
func (p Point) ToSize() Size             { return Size{Width: p.X, Height: p.Y} }
func (p Point) InRect(r AABB) bool       { return r.Contains(p) }
func (p Point) Translate(dx, dy float32) Point { return Point{p.X + dx, p.Y + dy} }

// Pos is a position with a separate z coordinate used as render order.
type Pos struct {
	X, Y, Z float32
}

// Point drops the z coordinate.
func (p Pos) Point() Point { return Point{p.X, p.Y} }

// Add offsets the position in the plane, keeping z.
func (p Pos) Add(o Point) Pos { return Pos{p.X + o.X, p.Y + o.Y, p.Z} }

func (p Pos) String() string { return fmt.Sprintf("(%g,%g,z=%g)", p.X, p.Y, p.Z) }

// Size is a width and height in logical or physical pixels.
type Size struct {
	Width, Height float32
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h float32) Size { return Size{Width: w, Height: h} }

func (s Size) Scale(f float32) Size { return Size{s.Width * f, s.Height * f} }
func (s Size) IsZero() bool         { return s.Width == 0 && s.Height == 0 }
func (s Size) ToPoint() Point       { return Point{s.Width, s.Height} }
func (s Size) String() string       { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// Max returns the component-wise maximum of two sizes.
func (s Size) Max(o Size) Size {
	return Size{math32.Max(s.Width, o.Width), math32.Max(s.Height, o.Height)}
}

// PixelSize is an integer size, used for windows and rasters.
type PixelSize struct {
	Width, Height uint32
}

// Area is the number of pixels covered.
func (s PixelSize) Area() int { return int(s.Width) * int(s.Height) }

// ToSize converts to float dimensions.
func (s PixelSize) ToSize() Size { return Size{float32(s.Width), float32(s.Height)} }

func (s PixelSize) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// ============================================================================
// AABB
// ============================================================================

// AABB is an axis-aligned bounding box. Pos.Z is the render order of
// whatever the box bounds.
type AABB struct {
	Pos         Pos
	BottomRight Point
}

// NewAABB builds a box from a position and a size.
func NewAABB(pos Pos, size Size) AABB {
	return AABB{Pos: pos, BottomRight: Point{pos.X + size.Width, pos.Y + size.Height}}
}

// Rect builds a box at z=0 from x, y, width and height.
func Rect(x, y, w, h float32) AABB {
	return NewAABB(Pos{X: x, Y: y}, Size{w, h})
}

func (a AABB) Width() float32  { return a.BottomRight.X - a.Pos.X }
func (a AABB) Height() float32 { return a.BottomRight.Y - a.Pos.Y }
func (a AABB) Size() Size      { return Size{a.Width(), a.Height()} }
func (a AABB) TopLeft() Point  { return a.Pos.Point() }
func (a AABB) IsEmpty() bool   { return a.Width() <= 0 || a.Height() <= 0 }

// Center returns the midpoint of the box.
func (a AABB) Center() Point {
	return Point{(a.Pos.X + a.BottomRight.X) / 2, (a.Pos.Y + a.BottomRight.Y) / 2}
}

// Contains reports whether p lies inside the box. The top and left edges
// are inclusive, the bottom and right edges exclusive, so adjacent boxes
// never both claim a point.
func (a AABB) Contains(p Point) bool {
	return p.X >= a.Pos.X && p.X < a.BottomRight.X &&
		p.Y >= a.Pos.Y && p.Y < a.BottomRight.Y
}

// ContainsAABB reports whether o lies entirely within a.
func (a AABB) ContainsAABB(o AABB) bool {
	return o.Pos.X >= a.Pos.X && o.Pos.Y >= a.Pos.Y &&
		o.BottomRight.X <= a.BottomRight.X && o.BottomRight.Y <= a.BottomRight.Y
}

// Intersects reports whether the two boxes overlap with non-zero area.
func (a AABB) Intersects(o AABB) bool {
	return a.Pos.X < o.BottomRight.X && o.Pos.X < a.BottomRight.X &&
		a.Pos.Y < o.BottomRight.Y && o.Pos.Y < a.BottomRight.Y
}

// Intersect returns the overlapping region. ok is false when the boxes are
// disjoint. The result keeps a's z.
func (a AABB) Intersect(o AABB) (AABB, bool) {
	if !a.Intersects(o) {
		return AABB{}, false
	}
	return AABB{
		Pos: Pos{
			X: math32.Max(a.Pos.X, o.Pos.X),
			Y: math32.Max(a.Pos.Y, o.Pos.Y),
			Z: a.Pos.Z,
		},
		BottomRight: Point{
			X: math32.Min(a.BottomRight.X, o.BottomRight.X),
			Y: math32.Min(a.BottomRight.Y, o.BottomRight.Y),
		},
	}, true
}

// Union returns the smallest box containing both.
func (a AABB) Union(o AABB) AABB {
	return AABB{
		Pos: Pos{
			X: math32.Min(a.Pos.X, o.Pos.X),
			Y: math32.Min(a.Pos.Y, o.Pos.Y),
			Z: a.Pos.Z,
		},
		BottomRight: Point{
			X: math32.Max(a.BottomRight.X, o.BottomRight.X),
			Y: math32.Max(a.BottomRight.Y, o.BottomRight.Y),
		},
	}
}

// Inflate grows the box by margin on every side. Negative margins shrink
// it, never past zero size.
func (a AABB) Inflate(margin float32) AABB {
	r := AABB{
		Pos:         Pos{X: a.Pos.X - margin, Y: a.Pos.Y - margin, Z: a.Pos.Z},
		BottomRight: Point{X: a.BottomRight.X + margin, Y: a.BottomRight.Y + margin},
	}
	if r.BottomRight.X < r.Pos.X {
		c := a.Center().X
		r.Pos.X, r.BottomRight.X = c, c
	}
	if r.BottomRight.Y < r.Pos.Y {
		c := a.Center().Y
		r.Pos.Y, r.BottomRight.Y = c, c
	}
	return r
}

// Translate moves the box in the plane.
func (a AABB) Translate(d Point) AABB {
	return AABB{Pos: a.Pos.Add(d), BottomRight: a.BottomRight.Add(d)}
}

// Scale multiplies all coordinates (not z) by f.
func (a AABB) Scale(f float32) AABB {
	return AABB{
		Pos:         Pos{X: a.Pos.X * f, Y: a.Pos.Y * f, Z: a.Pos.Z},
		BottomRight: a.BottomRight.Mul(f),
	}
}

// LocalPoint converts a point into coordinates relative to the top-left.
func (a AABB) LocalPoint(p Point) Point { return p.Sub(a.TopLeft()) }

func (a AABB) String() string {
	return fmt.Sprintf("[%g,%g %gx%g z=%g]", a.Pos.X, a.Pos.Y, a.Width(), a.Height(), a.Pos.Z)
}

// ============================================================================
// Bounds (edges)
// ============================================================================

// Bounds holds one value per edge, used for padding, margins and borders.
type Bounds struct {
	Top, Right, Bottom, Left float32
}

// All returns bounds with the same value on every edge.
func All(v float32) Bounds { return Bounds{v, v, v, v} }

// Symmetric returns bounds with vertical and horizontal values.
func Symmetric(vertical, horizontal float32) Bounds {
	return Bounds{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Horizontal is Left + Right.
func (b Bounds) Horizontal() float32 { return b.Left + b.Right }

// Vertical is Top + Bottom.
func (b Bounds) Vertical() float32 { return b.Top + b.Bottom }

// Shrink removes the edges from the box.
func (b Bounds) Shrink(a AABB) AABB {
	r := AABB{
		Pos:         Pos{X: a.Pos.X + b.Left, Y: a.Pos.Y + b.Top, Z: a.Pos.Z},
		BottomRight: Point{X: a.BottomRight.X - b.Right, Y: a.BottomRight.Y - b.Bottom},
	}
	if r.BottomRight.X < r.Pos.X {
		r.BottomRight.X = r.Pos.X
	}
	if r.BottomRight.Y < r.Pos.Y {
		r.BottomRight.Y = r.Pos.Y
	}
	return r
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float32) float32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
