package retained

import (
	"github.com/chewxy/math32"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
)

// SizeMode specifies how a dimension (width or height) is calculated.
type SizeMode uint8

const (
	// SizeAuto sizes to fit content.
	SizeAuto SizeMode = iota

	// SizeFixed uses an explicit logical pixel value.
	SizeFixed

	// SizePercent uses a percentage of the parent's inner size.
	SizePercent
)

// Dimension is one width or height value.
type Dimension struct {
	Mode  SizeMode
	Value float32
}

// Auto sizes to content.
var Auto = Dimension{}

// Px is a fixed size in logical pixels.
func Px(v float32) Dimension { return Dimension{Mode: SizeFixed, Value: v} }

// Pct is a percentage (0-100) of the parent's inner size.
func Pct(v float32) Dimension { return Dimension{Mode: SizePercent, Value: v} }

// IsAuto reports whether the dimension sizes to content.
func (d Dimension) IsAuto() bool { return d.Mode == SizeAuto }

func (d Dimension) resolve(parent float32) (float32, bool) {
	switch d.Mode {
	case SizeFixed:
		return d.Value, true
	case SizePercent:
		if parent < 0 {
			return 0, false
		}
		return parent * d.Value / 100, true
	}
	return 0, false
}

// Dimensions pairs a width and a height.
type Dimensions struct {
	Width, Height Dimension
}

// Dims builds a Dimensions.
func Dims(w, h Dimension) Dimensions { return Dimensions{Width: w, Height: h} }

// Direction is the main axis of a container.
type Direction uint8

const (
	Row Direction = iota
	Column
)

// Alignment places children along an axis.
//
// On the main axis (AxisAlign) AlignStretch places like AlignStart; main
// sizes stretch through Layout.Grow instead, which takes free space under
// any alignment before the line is placed. On the cross axis
// (CrossAlign) AlignStretch sizes auto cross dimensions to the line.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignStretch
	AlignSpaceBetween
	AlignSpaceAround
)

// PositionType selects flow or absolute positioning.
type PositionType uint8

const (
	// PositionRelative places the node in its parent's flow.
	PositionRelative PositionType = iota
	// PositionAbsolute places the node at Inset offsets from the parent's
	// border box and takes it out of the flow. It is measured against the
	// parent's size, or against a larger fixed MaxSize.
	PositionAbsolute
)

// Inset holds the edge offsets of an absolutely positioned node. Auto edges
// are unset.
type Inset struct {
	Top, Right, Bottom, Left Dimension
}

// Layout is the flexbox subset understood by the layout engine. The zero
// value is an auto-sized row aligned to the start.
type Layout struct {
	Direction  Direction
	Wrap       bool
	AxisAlign  Alignment
	CrossAlign Alignment
	Gap        float32

	Margin  geom.Bounds
	Padding geom.Bounds

	Size    Dimensions
	MinSize Dimensions
	MaxSize Dimensions

	Position PositionType
	Inset    Inset
	ZIndex   float32
	Grow     float32

	ScrollX bool
	ScrollY bool
}

// Scrolls reports whether either axis scrolls.
func (l *Layout) Scrolls() bool { return l.ScrollX || l.ScrollY }

// LayoutConstraints are passed from parent to child during measurement.
type LayoutConstraints struct {
	// Available space for the child's margin box (the parent's inner size).
	// Negative means unbounded.
	AvailableWidth  float32
	AvailableHeight float32

	// Forced border box size, negative when the child sizes itself.
	Width  float32
	Height float32
}

func free(availW, availH float32) LayoutConstraints {
	return LayoutConstraints{AvailableWidth: availW, AvailableHeight: availH, Width: -1, Height: -1}
}

// ============================================================================
// Engine
// ============================================================================

type layoutEngine struct {
	fonts *cache.FontCache
}

// ComputeLayout sizes and positions every node under root in logical
// pixels. A root with children fills the window; a childless root takes
// its own size, so an empty tree lays out to a single zero-sized node.
//
// Scroll offsets are clamped to the content and written back to Scroller
// components. Running it twice on the same tree gives the same boxes.
func ComputeLayout(root *Node, window geom.Size, fonts *cache.FontCache) {
	e := &layoutEngine{fonts: fonts}
	c := free(window.Width, window.Height)
	if len(root.children) > 0 {
		c.Width, c.Height = window.Width, window.Height
	}
	root.rel = geom.Point{}
	e.measure(root, c)
	e.place(root, geom.Point{}, -1, geom.AABB{}, false)
}

// measure resolves n's border box size and arranges its children relative
// to it. The result is also stored on the node.
func (e *layoutEngine) measure(n *Node, c LayoutConstraints) geom.Size {
	l := &n.Layout
	pad := l.Padding

	w, wKnown := l.Size.Width.resolve(c.AvailableWidth)
	if c.Width >= 0 {
		w, wKnown = c.Width, true
	} else if wKnown {
		w = clampDim(w, l.MinSize.Width, l.MaxSize.Width, c.AvailableWidth)
	}
	h, hKnown := l.Size.Height.resolve(c.AvailableHeight)
	if c.Height >= 0 {
		h, hKnown = c.Height, true
	} else if hKnown {
		h = clampDim(h, l.MinSize.Height, l.MaxSize.Height, c.AvailableHeight)
	}

	innerW := inner(w, wKnown, c.AvailableWidth, l.Margin.Horizontal(), pad.Horizontal())
	innerH := inner(h, hKnown, c.AvailableHeight, l.Margin.Vertical(), pad.Vertical())

	content := e.content(n, innerW, innerH, wKnown, hKnown)
	if !wKnown || !hKnown {
		fw, fh := w, h
		if !wKnown {
			fw = clampDim(content.Width+pad.Horizontal(), l.MinSize.Width, l.MaxSize.Width, c.AvailableWidth)
		}
		if !hKnown {
			fh = clampDim(content.Height+pad.Vertical(), l.MinSize.Height, l.MaxSize.Height, c.AvailableHeight)
		}
		// Min and max may have changed the auto size; arrange again inside it.
		if fw != content.Width+pad.Horizontal() || fh != content.Height+pad.Vertical() {
			if len(n.children) > 0 {
				e.content(n, fw-pad.Horizontal(), fh-pad.Vertical(), true, true)
			}
		}
		w, h = fw, fh
	}

	n.size = geom.Sz(math32.Max(w, 0), math32.Max(h, 0))
	n.content = content
	e.absolute(n)
	return n.size
}

func inner(size float32, known bool, avail, margin, padding float32) float32 {
	if known {
		return math32.Max(size-padding, 0)
	}
	if avail < 0 {
		return -1
	}
	return math32.Max(avail-margin-padding, 0)
}

func clampDim(v float32, lo, hi Dimension, parent float32) float32 {
	if m, ok := hi.resolve(parent); ok && v > m {
		v = m
	}
	if m, ok := lo.resolve(parent); ok && v < m {
		v = m
	}
	return v
}

// content measures leaves through Measurer and containers through flow.
func (e *layoutEngine) content(n *Node, innerW, innerH float32, wKnown, hKnown bool) geom.Size {
	if len(n.children) == 0 {
		m, ok := n.component.(Measurer)
		if !ok {
			return geom.Size{}
		}
		maxW, maxH := innerW, innerH
		if maxW < 0 {
			maxW = math32.Inf(1)
		}
		if maxH < 0 {
			maxH = math32.Inf(1)
		}
		return m.Measure(MeasureContext{MaxWidth: maxW, MaxHeight: maxH, Fonts: e.fonts})
	}
	return e.flow(n, innerW, innerH, wKnown, hKnown)
}

// axis helpers let flow work on main and cross sizes for either direction.
func mainOf(d Direction, s geom.Size) float32 {
	if d == Row {
		return s.Width
	}
	return s.Height
}

func crossOf(d Direction, s geom.Size) float32 {
	if d == Row {
		return s.Height
	}
	return s.Width
}

func marginMain(d Direction, b geom.Bounds) (lead, total float32) {
	if d == Row {
		return b.Left, b.Horizontal()
	}
	return b.Top, b.Vertical()
}

func marginCross(d Direction, b geom.Bounds) (lead, total float32) {
	if d == Row {
		return b.Top, b.Vertical()
	}
	return b.Left, b.Horizontal()
}

func crossDim(d Direction, s Dimensions) Dimension {
	if d == Row {
		return s.Height
	}
	return s.Width
}

// forced builds constraints that pin the main and/or cross size.
func forced(d Direction, availW, availH, main, cross float32) LayoutConstraints {
	c := free(availW, availH)
	if d == Row {
		c.Width, c.Height = main, cross
	} else {
		c.Width, c.Height = cross, main
	}
	return c
}

type flowItem struct {
	n     *Node
	size  geom.Size
	main  float32 // outer main size, margins included
	cross float32 // outer cross size, margins included
}

type flowLine struct {
	items []flowItem
	main  float32 // sum of outer main sizes and gaps
	cross float32
}

// flow arranges the relative children of n in lines and returns the size of
// the content. Child positions are stored relative to n's border box.
func (e *layoutEngine) flow(n *Node, innerW, innerH float32, wKnown, hKnown bool) geom.Size {
	l := &n.Layout
	d := l.Direction

	innerMain, innerCross := innerW, innerH
	mainKnown, crossKnown := wKnown, hKnown
	if d == Column {
		innerMain, innerCross = innerH, innerW
		mainKnown, crossKnown = hKnown, wKnown
	}
	// Scrolling axes give children unbounded room.
	if (d == Row && l.ScrollX) || (d == Column && l.ScrollY) {
		mainKnown = false
	}

	measureItem := func(c *Node, cons LayoutConstraints) flowItem {
		s := e.measure(c, cons)
		_, mm := marginMain(d, c.Layout.Margin)
		_, mc := marginCross(d, c.Layout.Margin)
		return flowItem{n: c, size: s, main: mainOf(d, s) + mm, cross: crossOf(d, s) + mc}
	}

	var lines []flowLine
	var cur flowLine
	for _, c := range n.children {
		if c.Layout.Position == PositionAbsolute {
			continue
		}
		it := measureItem(c, free(innerW, innerH))
		gap := float32(0)
		if len(cur.items) > 0 {
			gap = l.Gap
		}
		if l.Wrap && mainKnown && len(cur.items) > 0 && cur.main+gap+it.main > innerMain {
			lines = append(lines, cur)
			cur, gap = flowLine{}, 0
		}
		cur.items = append(cur.items, it)
		cur.main += gap + it.main
		cur.cross = math32.Max(cur.cross, it.cross)
	}
	if len(cur.items) > 0 {
		lines = append(lines, cur)
	}

	// Grow distributes the free main space of each line.
	if mainKnown {
		for li := range lines {
			line := &lines[li]
			room := innerMain - line.main
			var total float32
			for _, it := range line.items {
				total += it.n.Layout.Grow
			}
			if room <= 0 || total <= 0 {
				continue
			}
			line.main, line.cross = 0, 0
			for i, it := range line.items {
				if g := it.n.Layout.Grow; g > 0 {
					main := mainOf(d, it.size) + room*g/total
					line.items[i] = measureItem(it.n, forced(d, innerW, innerH, main, -1))
				}
				if i > 0 {
					line.main += l.Gap
				}
				line.main += line.items[i].main
				line.cross = math32.Max(line.cross, line.items[i].cross)
			}
		}
	}

	// A single line fills a known cross size.
	if !l.Wrap && crossKnown && len(lines) == 1 {
		lines[0].cross = innerCross
	}

	// Stretch sizes auto cross dimensions to the line.
	if l.CrossAlign == AlignStretch {
		for li := range lines {
			line := &lines[li]
			for i, it := range line.items {
				if !crossDim(d, it.n.Layout.Size).IsAuto() {
					continue
				}
				_, mc := marginCross(d, it.n.Layout.Margin)
				want := line.cross - mc
				if want != crossOf(d, it.size) {
					line.items[i] = measureItem(it.n, forced(d, innerW, innerH, mainOf(d, it.size), want))
				}
			}
		}
	}

	var contentMain, contentCross float32
	for i, line := range lines {
		contentMain = math32.Max(contentMain, line.main)
		if i > 0 {
			contentCross += l.Gap
		}
		contentCross += line.cross
	}

	boxMain, boxCross := contentMain, contentCross
	if mainKnown {
		boxMain = innerMain
	}
	if crossKnown {
		boxCross = innerCross
	}

	lineGap := l.Gap
	crossPos := float32(0)
	if l.Wrap {
		crossPos, lineGap = distribute(l.CrossAlign, boxCross-contentCross, len(lines), l.Gap)
	}

	for _, line := range lines {
		pos, gap := distribute(l.AxisAlign, boxMain-line.main, len(line.items), l.Gap)
		for _, it := range line.items {
			lm, _ := marginMain(d, it.n.Layout.Margin)
			lc, _ := marginCross(d, it.n.Layout.Margin)
			off := float32(0)
			switch l.CrossAlign {
			case AlignCenter:
				off = (line.cross - it.cross) / 2
			case AlignEnd:
				off = line.cross - it.cross
			}
			main := pos + lm
			cross := crossPos + off + lc
			if d == Row {
				it.n.rel = geom.Pt(l.Padding.Left+main, l.Padding.Top+cross)
			} else {
				it.n.rel = geom.Pt(l.Padding.Left+cross, l.Padding.Top+main)
			}
			pos += it.main + gap
		}
		crossPos += line.cross + lineGap
	}

	if d == Row {
		return geom.Sz(contentMain, contentCross)
	}
	return geom.Sz(contentCross, contentMain)
}

// distribute returns the leading offset and the spacing between count items
// sharing room free space.
func distribute(a Alignment, room float32, count int, gap float32) (lead, spacing float32) {
	if room <= 0 || count == 0 {
		return 0, gap
	}
	switch a {
	case AlignCenter:
		return room / 2, gap
	case AlignEnd:
		return room, gap
	case AlignSpaceBetween:
		if count == 1 {
			return 0, gap
		}
		return 0, gap + room/float32(count-1)
	case AlignSpaceAround:
		each := room / float32(count)
		return each / 2, gap + each
	}
	return 0, gap
}

// absolute lays out the absolutely positioned children of n against its
// border box.
func (e *layoutEngine) absolute(n *Node) {
	bw, bh := n.size.Width, n.size.Height
	for _, c := range n.children {
		if c.Layout.Position != PositionAbsolute {
			continue
		}
		in := c.Layout.Inset
		m := c.Layout.Margin
		left, hasL := in.Left.resolve(bw)
		right, hasR := in.Right.resolve(bw)
		top, hasT := in.Top.resolve(bh)
		bottom, hasB := in.Bottom.resolve(bh)

		cons := free(bw, bh)
		// A fixed max size lets the child overflow a smaller parent.
		if mw, ok := c.Layout.MaxSize.Width.resolve(-1); ok {
			cons.AvailableWidth = math32.Max(bw, mw)
		}
		if mh, ok := c.Layout.MaxSize.Height.resolve(-1); ok {
			cons.AvailableHeight = math32.Max(bh, mh)
		}
		if hasL && hasR && c.Layout.Size.Width.IsAuto() {
			cons.Width = math32.Max(bw-left-right-m.Horizontal(), 0)
		}
		if hasT && hasB && c.Layout.Size.Height.IsAuto() {
			cons.Height = math32.Max(bh-top-bottom-m.Vertical(), 0)
		}
		s := e.measure(c, cons)

		x := n.Layout.Padding.Left + m.Left
		switch {
		case hasL:
			x = left + m.Left
		case hasR:
			x = bw - right - s.Width - m.Right
		}
		y := n.Layout.Padding.Top + m.Top
		switch {
		case hasT:
			y = top + m.Top
		case hasB:
			y = bh - bottom - s.Height - m.Bottom
		}
		c.rel = geom.Pt(x, y)
	}
}

// place converts relative positions to absolute boxes, clamps scroll
// offsets and assigns z and clip rectangles.
func (e *layoutEngine) place(n *Node, origin geom.Point, parentZ float32, clip geom.AABB, clipped bool) {
	l := &n.Layout
	n.aabb = geom.NewAABB(origin.WithZ(0), n.size)
	n.z = parentZ + 1 + l.ZIndex
	n.clip, n.clipped = clip, clipped

	if l.Scrolls() {
		p := n.scroll
		s, ok := n.component.(Scroller)
		if ok {
			p = s.ScrollPosition()
		}
		n.scroll = clampScroll(n, p)
		if ok && !p.Equal(n.scroll) {
			s.SetScrollPosition(n.scroll)
		}
		viewport := l.Padding.Shrink(n.aabb)
		if clipped {
			if c, ok := clip.Intersect(viewport); ok {
				viewport = c
			} else {
				viewport = geom.NewAABB(viewport.Pos, geom.Size{})
			}
		}
		clip, clipped = viewport, true
	} else {
		n.scroll = geom.Point{}
	}

	for _, c := range n.children {
		e.place(c, origin.Add(c.rel).Sub(n.scroll), n.z, clip, clipped)
	}
}

// clampScroll limits p to [0, content - viewport] on the scrolling axes.
func clampScroll(n *Node, p geom.Point) geom.Point {
	l := &n.Layout
	viewW := n.size.Width - l.Padding.Horizontal()
	viewH := n.size.Height - l.Padding.Vertical()
	if l.ScrollX {
		p.X = geom.Clamp(p.X, 0, math32.Max(n.content.Width-viewW, 0))
	} else {
		p.X = 0
	}
	if l.ScrollY {
		p.Y = geom.Clamp(p.Y, 0, math32.Max(n.content.Height-viewH, 0))
	} else {
		p.Y = 0
	}
	return p
}
