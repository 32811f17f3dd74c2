package widgets

import (
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// Toggle is an on/off switch. On is the initial and externally controlled
// value: the switch follows it whenever the prop changes, and flips itself
// on click or on Enter and Space while focused.
type Toggle struct {
	retained.State[toggleState]

	On       bool
	OnChange func(on bool)

	Color    geom.Color
	Disabled bool
}

type toggleState struct {
	on bool
	// prop is the last On value seen.
	prop bool
}

func (t *Toggle) Init() {
	t.SetState(toggleState{on: t.On, prop: t.On})
}

func (t *Toggle) ReplaceState(v any) {
	t.State.ReplaceState(v)
	if st := t.StateRef(); st.prop != t.On {
		st.on, st.prop = t.On, t.On
	}
}

// Value returns whether the switch is on.
func (t *Toggle) Value() bool { return t.StateRef().on }

func (t *Toggle) Measure(retained.MeasureContext) geom.Size {
	return geom.Sz(36, 20)
}

func (t *Toggle) Render(ctx retained.RenderContext) []gfx.Renderable {
	on := t.StateRef().on
	track := BorderColor
	if on {
		track = orColor(t.Color, AccentColor)
	}
	if t.Disabled {
		track = DisabledColor
	}
	box := ctx.AABB
	h := box.Height()
	bg := gfx.NewRect(box.Pos, box.Size(), track).WithRadius(h / 2)
	if ctx.Focused {
		bg.WithBorder(2*ctx.Scale, DefaultTextColor)
	}

	inset := 2 * ctx.Scale
	d := max(h-2*inset, 0)
	x := box.Pos.X + inset
	if on {
		x = box.BottomRight.X - inset - d
	}
	knob := gfx.NewRect(geom.Pos{X: x, Y: box.Pos.Y + inset, Z: box.Pos.Z}, geom.Sz(d, d), geom.White).WithRadius(d / 2)
	return []gfx.Renderable{bg, knob}
}

func (t *Toggle) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseEnter:
		e.Window().SetCursor(retained.CursorPointer)
	case retained.EventMouseLeave:
		e.Window().SetCursor(retained.CursorDefault)
	case retained.EventClick, retained.EventDoubleClick:
		if e.Button() == retained.MouseButtonLeft {
			t.flip(e)
		}
	case retained.EventKeyPress:
		if e.Key() == retained.KeyEnter || e.Key() == retained.KeySpace {
			t.flip(e)
		}
	}
}

func (t *Toggle) flip(e *retained.Event) {
	if t.Disabled {
		return
	}
	e.StopBubbling()
	st := t.StateMut()
	st.on = !st.on
	if t.OnChange != nil {
		t.OnChange(st.on)
	}
}
