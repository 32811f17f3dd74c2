package retained

import "github.com/agiangrant/arbor/geom"

// ============================================================================
// Scroll Utilities
// ============================================================================
//
// Scroll offsets live on the node, or on the component when it implements
// Scroller. Layout clamps them to [0, content - viewport] every frame; the
// helpers here move them in response to wheel input and scroll-to signals.

// ScrollTo scrolls every scrolling ancestor of n so its box is visible.
func (r *Router) ScrollTo(n *Node) {
	box := n.aabb
	for a := n.parent; a != nil; a = a.parent {
		if !a.Layout.Scrolls() {
			continue
		}
		view := a.Layout.Padding.Shrink(a.aabb)
		var d geom.Point
		if a.Layout.ScrollX {
			d.X = revealDelta(box.Pos.X, box.BottomRight.X, view.Pos.X, view.BottomRight.X)
		}
		if a.Layout.ScrollY {
			d.Y = revealDelta(box.Pos.Y, box.BottomRight.Y, view.Pos.Y, view.BottomRight.Y)
		}
		if d.IsZero() {
			continue
		}
		cur := scrollOf(a)
		want := clampScroll(a, cur.Add(d))
		r.setScroll(a, want)
		box = box.Translate(want.Sub(cur).Neg())
	}
}

// revealDelta returns how far to scroll so [lo, hi] lies within
// [vlo, vhi], preferring to show the start when it does not fit.
func revealDelta(lo, hi, vlo, vhi float32) float32 {
	switch {
	case lo < vlo:
		return lo - vlo
	case hi > vhi:
		return min(hi-vhi, lo-vlo)
	}
	return 0
}

func scrollOf(n *Node) geom.Point {
	if s, ok := n.component.(Scroller); ok {
		return s.ScrollPosition()
	}
	return n.scroll
}

func (r *Router) setScroll(n *Node, p geom.Point) {
	n.scroll = p
	if s, ok := n.component.(Scroller); ok {
		s.SetScrollPosition(p)
	}
	r.scrolled = true
	r.window.Redraw()
}
