package widgets

import (
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// scrollBarWidth is the logical thickness of a Div's scroll thumb.
const scrollBarWidth = 6

// Div is a container with an optional background, border and rounded
// corners. With ScrollX or ScrollY in its layout it keeps its scroll offset
// and draws a thumb along the scrolling edges.
type Div struct {
	retained.State[divState]

	Background  geom.Color
	Border      float32
	BorderColor geom.Color
	Radius      float32
	// ScrollBar colors the thumb. Zero uses a translucent gray.
	ScrollBar geom.Color
}

type divState struct {
	scroll geom.Point
}

// NewDiv is a shorthand for a Div node with the given layout.
func NewDiv(layout retained.Layout) *retained.Node {
	return retained.NewNode(&Div{}, layout)
}

func (d *Div) ScrollPosition() geom.Point { return d.StateRef().scroll }

func (d *Div) SetScrollPosition(p geom.Point) {
	if d.StateRef().scroll.Equal(p) {
		return
	}
	d.StateMut().scroll = p
}

func (d *Div) Render(ctx retained.RenderContext) []gfx.Renderable {
	var out []gfx.Renderable
	if d.Background != (geom.Color{}) || d.Border > 0 {
		r := gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), d.Background).WithRadius(d.Radius * ctx.Scale)
		if d.Border > 0 {
			r.WithBorder(d.Border*ctx.Scale, orColor(d.BorderColor, BorderColor))
		}
		out = append(out, r)
	}
	n := d.Node()
	if n == nil || !n.Layout.Scrolls() {
		return out
	}
	view := contentBox(&d.Base, ctx)
	thumb := orColor(d.ScrollBar, geom.Gray.WithAlpha(0.5))
	scroll := d.StateRef().scroll.Scale(ctx.Scale)
	w := scrollBarWidth * ctx.Scale
	// The thumb sits between the background and the children.
	z := ctx.AABB.Pos.Z + 0.5
	if n.Layout.ScrollY {
		if off, size, ok := thumbSpan(view.Height(), ctx.Content.Height, scroll.Y); ok {
			pos := geom.Pos{X: ctx.AABB.BottomRight.X - w, Y: view.Pos.Y + off, Z: z}
			out = append(out, gfx.NewRect(pos, geom.Sz(w, size), thumb).WithRadius(w/2))
		}
	}
	if n.Layout.ScrollX {
		if off, size, ok := thumbSpan(view.Width(), ctx.Content.Width, scroll.X); ok {
			pos := geom.Pos{X: view.Pos.X + off, Y: ctx.AABB.BottomRight.Y - w, Z: z}
			out = append(out, gfx.NewRect(pos, geom.Sz(size, w), thumb).WithRadius(w/2))
		}
	}
	return out
}

// thumbSpan returns the offset and length of a scroll thumb along a track
// of length view scrolling content by scroll. ok is false when everything
// fits.
func thumbSpan(view, content, scroll float32) (off, size float32, ok bool) {
	if content <= view || view <= 0 {
		return 0, 0, false
	}
	size = max(view*view/content, scrollBarWidth)
	off = scroll / (content - view) * (view - size)
	return geom.Clamp(off, 0, view-size), size, true
}
