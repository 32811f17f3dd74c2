package retained

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/geom"
)

func focusLog(log *[]string) func(b *box, e *Event) {
	return func(b *box, e *Event) {
		if e.Type() == EventFocus || e.Type() == EventBlur {
			*log = append(*log, fmt.Sprintf("%s %s", e.Type(), b.Name))
		}
	}
}

func TestFocusSwitchByRef(t *testing.T) {
	var log []string
	root := &app{build: func() *Node {
		return NewNode(&box{}, fill).Push(
			NewNode(&box{Name: "left", OnEvent: focusLog(&log)}, fixed(100, 100)).Focus(1).Ref("left"),
			NewNode(&box{Name: "right", OnEvent: focusLog(&log)}, fixed(100, 100)).Focus(1).Ref("right"),
		)
	}}
	root.onEvent = func(e *Event) {
		if e.Type() != EventKeyDown || !e.Modifiers().Ctrl() {
			return
		}
		switch e.Key() {
		case "1":
			e.FocusRef("left")
		case "2":
			e.FocusRef("right")
		case "3":
			e.FocusRef("missing")
		}
	}
	h := newHarness(t, root)

	h.input(KeyPressed(KeyControl), KeyPressed("1"), KeyReleased("1"))
	assert.Equal(t, "left", h.ui.Focused().Name())
	assert.Equal(t, []string{"Focus left"}, log)

	log = nil
	h.input(KeyPressed("2"), KeyReleased("2"))
	assert.Equal(t, "right", h.ui.Focused().Name())
	assert.Equal(t, []string{"Blur left", "Focus right"}, log, "blur is sent before focus")

	t.Run("unknown ref", func(t *testing.T) {
		h.input(KeyPressed("3"), KeyReleased("3"))
		assert.Equal(t, "right", h.ui.Focused().Name())
		assert.Contains(t, h.logs.String(), "reference not found")
	})

	t.Run("stack", func(t *testing.T) {
		stack := h.ui.Router().Focus().Stack()
		require.Len(t, stack, 2)
		assert.Same(t, h.ui.Root(), stack[0])
		assert.Equal(t, "right", stack[1].Name())
	})
}

// modal closes itself on Escape.
type modal struct {
	State[string]
}

type closeModal struct{}

func (m *modal) HandleEvent(e *Event) {
	switch e.Type() {
	case EventTextEntry:
		*m.StateMut() += e.Text()
	case EventKeyDown:
		if e.Key() == KeyEscape {
			e.Emit(closeModal{})
		}
	}
}

func TestModalEscapeReleasesState(t *testing.T) {
	var m *modal
	show := true
	root := &app{}
	root.build = func() *Node {
		v := NewNode(&box{Name: "page"}, fill).Push(
			NewNode(&box{Name: "field"}, fixed(100, 20)).Focus(0).Ref("field"),
		)
		if show {
			m = &modal{}
			v.Push(NewNode(m, Layout{Position: PositionAbsolute, Size: Dims(Px(200), Px(200))}).Focus(10).FocusWhenNew())
		}
		return v
	}
	root.update = func(msg Message) []Message {
		if _, ok := msg.(closeModal); ok {
			show = false
			root.MarkDirty()
			return nil
		}
		return []Message{msg}
	}
	h := newHarness(t, root)
	mounted := h.ui.Focused().Component().(*modal)
	require.Same(t, m, mounted, "a new modal takes focus")

	h.input(TextEntered("hi"))
	assert.Equal(t, "hi", *mounted.StateRef())

	h.input(KeyPressed(KeyEscape))
	require.True(t, h.ui.NeedsFrame())
	h.ui.Frame()

	assert.Equal(t, 1, h.ui.Stats().Removed)
	assert.Nil(t, mounted.TakeState())
	assert.Same(t, h.ui.Root(), h.ui.Focused(), "focus falls back to the enclosing context")
}

func TestFocusWhenNewRespectsPriority(t *testing.T) {
	showLow := false
	root := &app{build: func() *Node {
		v := NewNode(&box{}, fill).Push(
			NewNode(&box{Name: "dialog"}, fixed(100, 100)).Focus(5).FocusWhenNew(),
		)
		if showLow {
			v.Push(NewNode(&box{Name: "toast"}, fixed(10, 10)).Focus(1).FocusWhenNew())
		}
		return v
	}}
	h := newHarness(t, root)
	require.Equal(t, "dialog", h.ui.Focused().Component().(*box).Name)

	showLow = true
	root.MarkDirty()
	h.ui.Frame()
	assert.Equal(t, "dialog", h.ui.Focused().Component().(*box).Name, "a lower priority context cannot steal focus")
}

func TestFocusChildAndNestedContexts(t *testing.T) {
	var log []string
	root := &app{build: func() *Node {
		return NewNode(&box{}, fill).Push(
			NewNode(&box{Name: "form", OnEvent: func(b *box, e *Event) {
				focusLog(&log)(b, e)
				if e.Type() == EventClick {
					e.FocusChild(1)
				}
			}}, Layout{Direction: Column}).Focus(2).Push(
				NewNode(&box{Name: "first", OnEvent: focusLog(&log)}, fixed(50, 10)),
				NewNode(&box{Name: "second", OnEvent: focusLog(&log)}, fixed(50, 10)),
			),
		)
	}}
	root.onEvent = func(e *Event) {
		if e.Type() == EventKeyDown && e.Key() == KeyEscape {
			e.Blur()
		}
	}
	h := newHarness(t, root)

	h.click(geom.Pt(5, 15))
	require.Equal(t, "second", h.ui.Focused().Component().(*box).Name)
	fm := h.ui.Router().Focus()
	assert.Equal(t, "form", fm.Context().Component().(*box).Name)
	assert.Equal(t, 2, fm.Priority(fm.Context()))

	// Blur from inside a context goes to the context, then out of it.
	h.input(KeyPressed(KeyEscape))
	assert.Equal(t, "form", h.ui.Focused().Component().(*box).Name)
	h.input(KeyReleased(KeyEscape), KeyPressed(KeyEscape))
	assert.Same(t, h.ui.Root(), h.ui.Focused())
	assert.Equal(t, []string{"Focus second", "Blur second", "Focus form", "Blur form"}, log)
}

func TestFocusScrollsIntoView(t *testing.T) {
	root := &app{build: func() *Node {
		list := NewNode(&box{}, Layout{Direction: Column, ScrollY: true, Size: Dims(Px(100), Px(100))})
		for i := range 6 {
			n := NewNode(&box{}, fixed(100, 50))
			if i == 4 {
				n.Ref("target")
			}
			list.Push(n)
		}
		return NewNode(&box{}, fill).Push(list)
	}}
	root.onEvent = func(e *Event) {
		if e.Type() == EventKeyDown && e.Key() == KeyDown {
			e.ScrollToRef("target")
		}
	}
	h := newHarness(t, root)
	h.input(KeyPressed(KeyDown))
	h.ui.Frame()

	list := h.ui.Root().Descend([]int{0, 0})
	assert.Equal(t, geom.Pt(0, 150), list.Scroll())
	target := list.Child(4).AABB()
	assert.Equal(t, float32(50), target.Pos.Y)
	assert.Equal(t, float32(100), target.BottomRight.Y)
}

func TestFocusRefPrefersHigherPriority(t *testing.T) {
	r := NewReconciler(nil)
	root := &app{build: func() *Node {
		return NewNode(&box{}, fill).Push(
			NewNode(&box{Name: "low"}, Layout{}).Focus(1).Push(NewNode(&box{Name: "a"}, Layout{}).Ref("ok")),
			NewNode(&box{Name: "high"}, Layout{}).Focus(3).Push(NewNode(&box{Name: "b"}, Layout{}).Ref("ok")),
			NewNode(&box{Name: "c"}, Layout{}).Ref("ok"),
		)
	}}
	n, _ := r.Reconcile(root)
	fm := newFocusManager(discardLogger())
	fm.rebuild(n, r.Lookup, r.Mounted())
	assert.Equal(t, "b", fm.Ref("ok").Component().(*box).Name)
}
