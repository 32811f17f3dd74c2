package retained

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

// RenderItem is one primitive of a frame with the clip rectangle of its
// scrolling ancestors, in physical pixels.
type RenderItem struct {
	Renderable gfx.Renderable
	Clip       geom.AABB
	Clipped    bool
	Node       NodeID
}

// RenderList is a frame's primitives in draw order: ascending z, tree order
// within the same z.
type RenderList struct {
	Items []RenderItem
	// Size is the physical size of the surface.
	Size geom.PixelSize
	// Rerendered counts nodes whose Render ran this frame.
	Rerendered int
}

// Renderables returns the primitives without their clips.
func (l RenderList) Renderables() []gfx.Renderable {
	out := make([]gfx.Renderable, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Renderable
	}
	return out
}

// renderPass calls Render on every node that is new, dirty, moved or
// resized, or when the scale changed, and collects the frame's primitives.
//
// It runs with the caches write-locked. Every handle still referenced is
// registered before any component allocates, so allocation never hands out
// a chunk another node holds; a second mark before the sweep releases the
// chunks that were replaced.
type renderPass struct {
	caches  *cache.Caches
	scale   float32
	focused *Node
	logger  *slog.Logger
}

func (p *renderPass) run(root *Node) RenderList {
	c := p.caches
	c.Unmark()
	root.Walk(func(n *Node) bool {
		gfx.Register(c, n.renderables)
		return true
	})

	var list RenderList
	root.Walk(func(n *Node) bool {
		phys := n.AABB().Scale(p.scale)
		if n.needsRender || phys != n.renderedAABB || p.scale != n.renderScale {
			p.render(n, phys)
			list.Rerendered++
		}
		clip := n.clip.Scale(p.scale)
		for _, r := range n.renderables {
			list.Items = append(list.Items, RenderItem{Renderable: r, Clip: clip, Clipped: n.clipped, Node: n.id})
		}
		return true
	})
	slices.SortStableFunc(list.Items, func(a, b RenderItem) int {
		return cmp.Compare(a.Renderable.Z(), b.Renderable.Z())
	})

	c.Unmark()
	for _, it := range list.Items {
		gfx.Register(c, []gfx.Renderable{it.Renderable})
	}
	return list
}

func (p *renderPass) render(n *Node, phys geom.AABB) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("render panicked",
				slog.String("node", n.Path()),
				slog.String("component", typeTag(n.component)),
				slog.Any("panic", r))
		}
	}()
	ctx := RenderContext{
		AABB:    phys,
		Content: n.content.Scale(p.scale),
		Caches:  p.caches,
		Prev:    n.renderables,
		Scale:   p.scale,
		Focused: n == p.focused,
	}
	rs := n.component.Render(ctx)
	n.renderables = rs
	n.renderedAABB = phys
	n.renderScale = p.scale
	n.needsRender = false
}
