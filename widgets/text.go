package widgets

import (
	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// Text draws a run of text, wrapped at word boundaries to its width.
type Text struct {
	retained.Base

	Text string
	// Segments, when set, replace Text with styled runs.
	Segments []cache.TextSegment
	Size     float32
	Font     string
	Color    geom.Color
	Align    cache.HorizontalAlign
}

// NewText is a shorthand for an auto-sized Text node.
func NewText(s string) *retained.Node {
	return retained.NewNode(&Text{Text: s}, retained.Layout{})
}

func (t *Text) segments() []cache.TextSegment {
	if t.Segments != nil {
		return t.Segments
	}
	return cache.Txt(t.Text)
}

func (t *Text) Measure(ctx retained.MeasureContext) geom.Size {
	return ctx.Fonts.Measure(t.segments(), t.Font, orSize(t.Size), 1, geom.Sz(ctx.MaxWidth, ctx.MaxHeight))
}

func (t *Text) Render(ctx retained.RenderContext) []gfx.Renderable {
	box := contentBox(&t.Base, ctx)
	// Half a pixel of slack keeps rounding from wrapping the last word of
	// a line that measured exactly to the box.
	box.BottomRight.X += ctx.Scale / 2
	txt, _ := label(ctx, t.segments(), t.Font, orSize(t.Size), orColor(t.Color, DefaultTextColor),
		t.Align, box, gfx.Prev[*gfx.Text](ctx.Prev, 0))
	return []gfx.Renderable{txt}
}
