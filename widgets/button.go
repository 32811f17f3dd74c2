package widgets

import (
	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// Button is a labelled push button. A click, or Enter or Space while it is
// focused, calls OnClick and emits Message when it is set.
type Button struct {
	retained.State[buttonState]

	Label string
	// Message is emitted to the ancestors on every press.
	Message retained.Message
	OnClick func()

	Background geom.Color
	Hover      geom.Color
	Press      geom.Color
	TextColor  geom.Color
	TextSize   float32
	Radius     float32
	Disabled   bool
}

type buttonState struct {
	hovered bool
	pressed bool
}

// NewButton is a shorthand for a padded, auto-sized button.
func NewButton(text string, onClick func()) *retained.Node {
	return retained.NewNode(&Button{Label: text, OnClick: onClick},
		retained.Layout{Padding: geom.Symmetric(6, 12)})
}

func (b *Button) Measure(ctx retained.MeasureContext) geom.Size {
	return ctx.Fonts.Measure(cache.Txt(b.Label), "", orSize(b.TextSize), 1, geom.Sz(ctx.MaxWidth, ctx.MaxHeight))
}

func (b *Button) background() geom.Color {
	st := b.StateRef()
	base := orColor(b.Background, AccentColor)
	switch {
	case b.Disabled:
		return DisabledColor
	case st.pressed:
		return orColor(b.Press, base.Darken(0.2))
	case st.hovered:
		return orColor(b.Hover, base.Lighten(0.1))
	}
	return base
}

func (b *Button) Render(ctx retained.RenderContext) []gfx.Renderable {
	bg := gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), b.background()).WithRadius(orRadius(b.Radius) * ctx.Scale)
	if ctx.Focused {
		bg.WithBorder(2*ctx.Scale, DefaultTextColor)
	}

	box := contentBox(&b.Base, ctx)
	size := orSize(b.TextSize)
	lh := ctx.Caches.Fonts.LineHeight("", size, ctx.Scale)
	box.Pos.Y = centeredY(box, lh)
	box.BottomRight.Y = box.Pos.Y + lh
	txt, _ := label(ctx, cache.Txt(b.Label), "", size, orColor(b.TextColor, geom.White),
		cache.AlignCenter, box, gfx.Prev[*gfx.Text](ctx.Prev, 1))
	return []gfx.Renderable{bg, txt}
}

func (b *Button) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseEnter:
		b.StateMut().hovered = true
		if b.Disabled {
			e.Window().SetCursor(retained.CursorNotAllowed)
		} else {
			e.Window().SetCursor(retained.CursorPointer)
		}
	case retained.EventMouseLeave:
		st := b.StateMut()
		st.hovered, st.pressed = false, false
		e.Window().SetCursor(retained.CursorDefault)
	case retained.EventMouseDown:
		if e.Button() == retained.MouseButtonLeft && !b.Disabled {
			b.StateMut().pressed = true
		}
	case retained.EventMouseUp:
		if b.StateRef().pressed {
			b.StateMut().pressed = false
		}
	case retained.EventClick, retained.EventDoubleClick:
		if e.Button() == retained.MouseButtonLeft {
			b.press(e)
		}
	case retained.EventKeyPress:
		if e.Key() == retained.KeyEnter || e.Key() == retained.KeySpace {
			b.press(e)
		}
	}
}

func (b *Button) press(e *retained.Event) {
	if b.Disabled {
		return
	}
	e.StopBubbling()
	if b.OnClick != nil {
		b.OnClick()
	}
	if b.Message != nil {
		e.Emit(b.Message)
	}
}

func orRadius(r float32) float32 {
	if r <= 0 {
		return 4
	}
	return r
}
