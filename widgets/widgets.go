// Package widgets holds reference components built on the retained
// component contract: Div, Text, Button, TextBox, Toggle, Canvas,
// RoundedRect, Select, RadioButtons and ToolTip.
//
// Components are plain structs. Exported fields are props: a parent's View
// builds new instances every time it runs and the reconciler keeps the old
// instance while the props compare equal. Func fields are callbacks and are
// refreshed without counting as a change.
package widgets

import (
	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// Default styling.
var (
	DefaultTextSize  float32 = 14
	DefaultTextColor         = geom.Hex(0x1f2328ff)
	AccentColor              = geom.Hex(0x0969daff)
	SurfaceColor             = geom.Hex(0xf6f8faff)
	BorderColor              = geom.Hex(0xd0d7deff)
	DisabledColor            = geom.Hex(0x8c959fff)
	ErrorColor               = geom.Hex(0xcf222eff)
)

func orColor(c, fallback geom.Color) geom.Color {
	if c == (geom.Color{}) {
		return fallback
	}
	return c
}

func orSize(s float32) float32 {
	if s <= 0 {
		return DefaultTextSize
	}
	return s
}

// contentBox returns the physical box inside the node's padding.
func contentBox(b *retained.Base, ctx retained.RenderContext) geom.AABB {
	n := b.Node()
	if n == nil {
		return ctx.AABB
	}
	p := n.Layout.Padding
	s := ctx.Scale
	return geom.Bounds{Top: p.Top * s, Right: p.Right * s, Bottom: p.Bottom * s, Left: p.Left * s}.Shrink(ctx.AABB)
}

// label lays out one run of text inside box and returns the Text renderable
// and its physical size. prev is the renderable to reuse.
func label(ctx retained.RenderContext, segs []cache.TextSegment, font string, size float32, color geom.Color, align cache.HorizontalAlign, box geom.AABB, prev *gfx.Text) (*gfx.Text, []cache.SectionGlyph) {
	glyphs := ctx.Caches.Fonts.LayoutText(segs, font, size, ctx.Scale, align, box.Size())
	return gfx.NewText(ctx.Caches, glyphs, color, box.Pos, prev), glyphs
}

// centeredY returns the top of a line of height h centered in box.
func centeredY(box geom.AABB, h float32) float32 {
	return box.Pos.Y + max(box.Height()-h, 0)/2
}
