package retained

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

func layoutTree(t *testing.T, root Component, window geom.Size) *Node {
	t.Helper()
	n, _ := NewReconciler(nil).Reconcile(root)
	ComputeLayout(n, window, cache.NewFontCache())
	return n
}

func boxes(root *Node) map[string]geom.AABB {
	out := map[string]geom.AABB{}
	root.Walk(func(n *Node) bool {
		out[n.Path()] = n.AABB()
		return true
	})
	return out
}

func TestCenteredChild(t *testing.T) {
	root := &app{build: func() *Node {
		return NewNode(&box{Color: geom.White}, Layout{
			Size:       Dims(Pct(100), Pct(100)),
			AxisAlign:  AlignCenter,
			CrossAlign: AlignCenter,
		}).Push(NewNode(&box{Color: geom.Red}, fixed(100, 100)))
	}}
	h := newHarness(t, root)

	list := h.ui.Frame()
	require.Len(t, list.Items, 2)
	bg, ok := list.Items[0].Renderable.(*gfx.Rect)
	require.True(t, ok)
	assert.Equal(t, geom.White, bg.Color)
	assert.Equal(t, geom.Sz(800, 600), bg.Size)

	red, ok := list.Items[1].Renderable.(*gfx.Rect)
	require.True(t, ok)
	assert.Equal(t, geom.Red, red.Color)
	assert.Equal(t, geom.Pos{X: 350, Y: 250, Z: 2}, red.Pos)
	assert.Equal(t, geom.Sz(100, 100), red.Size)
	assert.Equal(t, geom.PixelSize{Width: 800, Height: 600}, list.Size)

	t.Run("scale", func(t *testing.T) {
		h.window.SetScale(2)
		require.True(t, h.ui.NeedsFrame())
		list := h.ui.Frame()
		red := list.Items[1].Renderable.(*gfx.Rect)
		assert.Equal(t, geom.Pos{X: 700, Y: 500, Z: 2}, red.Pos)
		assert.Equal(t, geom.Sz(200, 200), red.Size)
		assert.Equal(t, 3, list.Rerendered)
	})
}

func TestEmptyTree(t *testing.T) {
	h := newHarness(t, &app{})
	list := h.ui.Frame()
	assert.Empty(t, list.Items)
	assert.Equal(t, geom.Size{}, h.ui.Root().AABB().Size())
	assert.Nil(t, h.ui.Router().HitTest(geom.Pt(10, 10)))
}

func TestLayoutIsIdempotent(t *testing.T) {
	root := &app{build: func() *Node {
		return NewNode(&box{}, Layout{Direction: Column, Gap: 4, Padding: geom.All(8), Size: Dims(Pct(100), Auto)}).Push(
			NewNode(&box{}, Layout{Size: Dims(Pct(50), Px(20)), Margin: geom.All(2)}),
			NewNode(&box{}, Layout{Direction: Row, Wrap: true, Size: Dims(Px(120), Auto)}).Push(
				NewNode(&box{}, fixed(50, 10)),
				NewNode(&box{}, fixed(50, 10)),
				NewNode(&box{}, fixed(50, 10)),
			),
			NewNode(&box{}, Layout{Position: PositionAbsolute, Inset: Inset{Right: Px(0), Bottom: Px(0)}, Size: Dims(Px(10), Px(10))}),
		)
	}}
	n := layoutTree(t, root, geom.Sz(400, 300))
	first := boxes(n)
	ComputeLayout(n, geom.Sz(400, 300), cache.NewFontCache())
	if diff := cmp.Diff(first, boxes(n)); diff != "" {
		t.Errorf("second layout moved nodes (-first +second):\n%s", diff)
	}
}

func TestFlowLayout(t *testing.T) {
	tests := []struct {
		name   string
		parent Layout
		kids   []Layout
		want   []geom.AABB
	}{
		{
			name:   "row with gap",
			parent: Layout{Gap: 10},
			kids:   []Layout{fixed(50, 20), fixed(30, 40)},
			want:   []geom.AABB{geom.Rect(0, 0, 50, 20), geom.Rect(60, 0, 30, 40)},
		},
		{
			name:   "column with padding",
			parent: Layout{Direction: Column, Padding: geom.All(5)},
			kids:   []Layout{fixed(50, 20), fixed(30, 40)},
			want:   []geom.AABB{geom.Rect(5, 5, 50, 20), geom.Rect(5, 25, 30, 40)},
		},
		{
			name:   "grow splits free space",
			parent: Layout{Size: Dims(Px(300), Px(50)), CrossAlign: AlignStretch},
			kids:   []Layout{{Grow: 1}, {Grow: 2}},
			want:   []geom.AABB{geom.Rect(0, 0, 100, 50), geom.Rect(100, 0, 200, 50)},
		},
		{
			name:   "grow fills the line under any axis alignment",
			parent: Layout{Size: Dims(Px(300), Px(20)), AxisAlign: AlignCenter},
			kids:   []Layout{fixed(50, 20), {Grow: 1, Size: Dims(Auto, Px(20))}},
			want:   []geom.AABB{geom.Rect(0, 0, 50, 20), geom.Rect(50, 0, 250, 20)},
		},
		{
			name:   "axis stretch places like start",
			parent: Layout{Size: Dims(Px(200), Px(20)), AxisAlign: AlignStretch},
			kids:   []Layout{fixed(20, 20), fixed(20, 20)},
			want:   []geom.AABB{geom.Rect(0, 0, 20, 20), geom.Rect(20, 0, 20, 20)},
		},
		{
			name:   "space between",
			parent: Layout{Size: Dims(Px(200), Px(20)), AxisAlign: AlignSpaceBetween},
			kids:   []Layout{fixed(20, 20), fixed(20, 20), fixed(20, 20)},
			want:   []geom.AABB{geom.Rect(0, 0, 20, 20), geom.Rect(90, 0, 20, 20), geom.Rect(180, 0, 20, 20)},
		},
		{
			name:   "wrap",
			parent: Layout{Size: Dims(Px(100), Auto), Wrap: true},
			kids:   []Layout{fixed(60, 10), fixed(60, 10)},
			want:   []geom.AABB{geom.Rect(0, 0, 60, 10), geom.Rect(0, 10, 60, 10)},
		},
		{
			name:   "stretch",
			parent: Layout{Size: Dims(Px(100), Px(40)), CrossAlign: AlignStretch},
			kids:   []Layout{{Size: Dims(Px(20), Auto)}},
			want:   []geom.AABB{geom.Rect(0, 0, 20, 40)},
		},
		{
			name:   "min and max",
			parent: Layout{},
			kids:   []Layout{{MinSize: Dims(Px(30), Px(30))}, {Size: Dims(Px(500), Px(10)), MaxSize: Dims(Px(100), Auto)}},
			want:   []geom.AABB{geom.Rect(0, 0, 30, 30), geom.Rect(30, 0, 100, 10)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &app{build: func() *Node {
				p := NewNode(&box{}, tt.parent)
				for _, k := range tt.kids {
					p.Push(NewNode(&box{}, k))
				}
				// The wrapper keeps the parent from being stretched to the window.
				return NewNode(&box{}, Layout{Direction: Column}).Push(p)
			}}
			n := layoutTree(t, root, geom.Sz(800, 600))
			parent := n.Descend([]int{0, 0})
			require.NotNil(t, parent)
			require.Len(t, parent.Children(), len(tt.want))
			for i, want := range tt.want {
				got := parent.Child(i).AABB()
				got.Pos.Z = 0
				assert.Equal(t, want, got, "child %d", i)
			}
		})
	}
}

func TestAbsoluteInsets(t *testing.T) {
	root := &app{build: func() *Node {
		return NewNode(&box{}, Layout{Size: Dims(Px(200), Px(100)), Padding: geom.All(10)}).Push(
			NewNode(&box{}, Layout{Position: PositionAbsolute, Inset: Inset{Left: Px(5), Right: Px(5), Top: Px(0)}, Size: Dims(Auto, Px(10))}),
			NewNode(&box{}, Layout{Position: PositionAbsolute, Inset: Inset{Right: Px(0), Bottom: Px(0)}, Size: Dims(Px(20), Px(20))}),
		)
	}}
	n := layoutTree(t, root, geom.Sz(800, 600))
	view := n.Child(0)

	a := view.Child(0).AABB()
	assert.Equal(t, geom.Pt(5, 0), a.TopLeft())
	assert.Equal(t, geom.Sz(190, 10), a.Size())

	b := view.Child(1).AABB()
	assert.Equal(t, geom.Pt(180, 80), b.TopLeft())
}

func TestZFollowsDepthAndZIndex(t *testing.T) {
	root := &app{build: func() *Node {
		return NewNode(&box{}, fill).Push(
			NewNode(&box{}, fixed(10, 10)),
			NewNode(&box{}, Layout{Size: Dims(Px(10), Px(10)), ZIndex: 5}).Push(
				NewNode(&box{}, fixed(5, 5)),
			),
		)
	}}
	n := layoutTree(t, root, geom.Sz(100, 100))
	assert.Equal(t, float32(0), n.Z())
	assert.Equal(t, float32(1), n.Child(0).Z())
	assert.Equal(t, float32(2), n.Descend([]int{0, 0}).Z())
	assert.Equal(t, float32(7), n.Descend([]int{0, 1}).Z())
	assert.Equal(t, float32(8), n.Descend([]int{0, 1, 0}).Z())
}

func TestScrollClamp(t *testing.T) {
	root := &app{build: func() *Node {
		list := NewNode(&box{}, Layout{Direction: Column, ScrollY: true, Size: Dims(Px(100), Px(100))})
		for range 5 {
			list.Push(NewNode(&box{}, fixed(100, 50)))
		}
		return NewNode(&box{}, fill).Push(list)
	}}
	h := newHarness(t, root)
	list := h.ui.Root().Descend([]int{0, 0})
	require.NotNil(t, list)
	assert.Equal(t, geom.Sz(100, 250), list.ContentSize())

	h.input(MouseMoved(geom.Pt(50, 50)), Scrolled(geom.Pt(0, 1000)))
	require.True(t, h.ui.NeedsFrame())
	h.ui.Frame()
	assert.Equal(t, geom.Pt(0, 150), list.Scroll())
	assert.Equal(t, float32(-150), list.Child(0).AABB().Pos.Y)
	assert.Equal(t, float32(50), list.Child(4).AABB().Pos.Y)

	h.input(Scrolled(geom.Pt(0, -40)))
	h.ui.Frame()
	assert.Equal(t, geom.Pt(0, 110), list.Scroll())

	h.input(Scrolled(geom.Pt(0, -1000)))
	h.ui.Frame()
	assert.Equal(t, geom.Pt(0, 0), list.Scroll())
}

func TestScrollClippedHitTest(t *testing.T) {
	root := &app{build: func() *Node {
		list := NewNode(&box{}, Layout{Direction: Column, ScrollY: true, Size: Dims(Px(100), Px(100))})
		for range 4 {
			list.Push(NewNode(&box{}, fixed(100, 50)))
		}
		return NewNode(&box{}, fill).Push(list)
	}}
	h := newHarness(t, root)
	list := h.ui.Root().Descend([]int{0, 0})

	// The third row lies below the viewport and must not be hit.
	got := h.ui.Router().HitTest(geom.Pt(50, 120))
	assert.NotEqual(t, list.Child(2), got)
	assert.Equal(t, list.Child(1), h.ui.Router().HitTest(geom.Pt(50, 60)))
}

// wide wants W logical pixels and takes what it is offered up to that.
type wide struct {
	Base
	W float32
}

func (w *wide) Measure(ctx MeasureContext) geom.Size {
	return geom.Sz(min(w.W, ctx.MaxWidth), 10)
}

func TestAbsoluteOverflowsUpToMaxSize(t *testing.T) {
	root := &app{build: func() *Node {
		return NewNode(&box{}, fixed(20, 20)).Push(
			NewNode(&wide{W: 500}, Layout{Position: PositionAbsolute, MaxSize: Dims(Px(300), Auto)}),
			NewNode(&wide{W: 500}, Layout{Position: PositionAbsolute}),
		)
	}}
	n := layoutTree(t, root, geom.Sz(800, 600))
	view := n.Child(0)
	assert.Equal(t, float32(300), view.Child(0).AABB().Width())
	assert.Equal(t, float32(20), view.Child(1).AABB().Width(), "without a max size the parent bounds the child")
}
