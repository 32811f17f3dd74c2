package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

type choice struct {
	I      int
	Option string
}

func selectPage(selected *int, changes *[]choice) *page {
	root := &page{}
	root.build = func() *retained.Node {
		return screen(retained.NewNode(&Select{
			Options:  []string{"One", "Two", "Three"},
			Selected: *selected,
			OnChange: func(i int, o string) { *changes = append(*changes, choice{i, o}) },
		}, fixed(120, 30)).Ref("sel"))
	}
	return root
}

func entry(h *harness, i int) *retained.Node {
	return find(h.ui.Root(), func(e *selectEntry) bool { return e.Index == i })
}

func TestSelectPickWithPointer(t *testing.T) {
	selected := 1
	var changes []choice
	h := newHarness(t, selectPage(&selected, &changes))
	sel := func() *Select { return h.node("sel").Component().(*Select) }
	require.Nil(t, entry(h, 0), "closed until clicked")

	h.click(geom.Pt(5, 5))
	h.ui.Frame()
	require.True(t, sel().IsOpen())
	require.NotNil(t, entry(h, 2))
	box := find[*selectBox](h.ui.Root(), nil)
	assert.GreaterOrEqual(t, entry(h, 0).AABB().Pos.Y, box.AABB().BottomRight.Y, "the list opens below the box")
	assert.True(t, entry(h, 1).Component().(*selectEntry).Hovered, "the current choice starts highlighted")

	h.input(retained.MouseMoved(entry(h, 2).AABB().Center()))
	h.ui.Frame()
	assert.True(t, entry(h, 2).Component().(*selectEntry).Hovered)
	assert.Len(t, ofType[*gfx.Rect](entry(h, 2).Renderables()), 1)

	h.click(entry(h, 2).AABB().Center())
	h.ui.Frame()
	if diff := cmp.Diff([]choice{{2, "Three"}}, changes); diff != "" {
		t.Errorf("changes (-want +got):\n%s", diff)
	}
	assert.False(t, sel().IsOpen())
	assert.Equal(t, 2, sel().Value())
	assert.Nil(t, entry(h, 0))
	assert.Equal(t, "Three", find[*selectBox](h.ui.Root(), nil).Component().(*selectBox).Label)
}

func TestSelectKeyboard(t *testing.T) {
	selected := 0
	var changes []choice
	h := newHarness(t, selectPage(&selected, &changes))
	sel := func() *Select { return h.node("sel").Component().(*Select) }

	h.click(geom.Pt(5, 5))
	h.ui.Frame()
	require.Same(t, find[*selectBox](h.ui.Root(), nil), h.ui.Focused())
	h.press(retained.KeyUp)
	h.press(retained.KeyDown)
	h.press(retained.KeyDown)
	h.press(retained.KeyDown)
	h.ui.Frame()
	require.True(t, sel().IsOpen())
	assert.True(t, entry(h, 2).Component().(*selectEntry).Hovered, "arrows stop at the last option")

	h.press(retained.KeyEnter)
	h.ui.Frame()
	assert.Equal(t, []choice{{2, "Three"}}, changes)
	assert.False(t, sel().IsOpen())

	h.press(retained.KeySpace)
	h.ui.Frame()
	assert.True(t, sel().IsOpen(), "space opens a focused select")
	h.press(retained.KeyEscape)
	h.ui.Frame()
	assert.False(t, sel().IsOpen())
	assert.Len(t, changes, 1)
}

func TestSelectClosesOnBlur(t *testing.T) {
	selected := 0
	var changes []choice
	h := newHarness(t, selectPage(&selected, &changes))
	sel := func() *Select { return h.node("sel").Component().(*Select) }

	h.click(geom.Pt(5, 5))
	h.ui.Frame()
	require.True(t, sel().IsOpen())
	h.click(geom.Pt(500, 500))
	h.ui.Frame()
	assert.False(t, sel().IsOpen())
	assert.Empty(t, changes)
}

func TestSelectFollowsProp(t *testing.T) {
	selected := 0
	var changes []choice
	root := selectPage(&selected, &changes)
	h := newHarness(t, root)

	selected = 2
	root.MarkDirty()
	h.ui.Frame()
	assert.Equal(t, 2, h.node("sel").Component().(*Select).Value())
	assert.Empty(t, changes, "a new prop is not a change")
}
