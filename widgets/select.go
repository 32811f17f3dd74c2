package widgets

import (
	"strconv"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// Select is a dropdown. Clicking the box, or Enter, Space or the arrow
// keys while it is focused, opens a list of Options below it; choosing an
// entry calls OnChange. Selected is the initial and externally controlled
// choice. Losing focus or Escape closes the list.
type Select struct {
	retained.State[selectState]

	Options  []string
	Selected int
	OnChange func(i int, option string)

	TextSize float32
	// MaxHeight bounds the open list, which scrolls beyond it. Zero means
	// 240.
	MaxHeight float32
}

type selectState struct {
	open     bool
	selected int
	hovering int
	prop     int
}

type (
	selectToggle  struct{}
	selectClose   struct{}
	selectConfirm struct{}
	selectHover   int
	selectPick    int
	selectMove    int
)

func (s *Select) Init() {
	s.SetState(selectState{selected: s.Selected, hovering: s.Selected, prop: s.Selected})
}

func (s *Select) ReplaceState(v any) {
	s.State.ReplaceState(v)
	if st := s.StateRef(); st.prop != s.Selected {
		st.selected, st.prop = s.Selected, s.Selected
	}
}

// Value returns the index of the chosen option.
func (s *Select) Value() int { return s.StateRef().selected }

// IsOpen reports whether the list is showing.
func (s *Select) IsOpen() bool { return s.StateRef().open }

func (s *Select) View() *retained.Node {
	st := s.StateRef()
	var current string
	if st.selected >= 0 && st.selected < len(s.Options) {
		current = s.Options[st.selected]
	}
	root := NewDiv(retained.Layout{Direction: retained.Column, CrossAlign: retained.AlignStretch}).Push(
		retained.NewNode(&selectBox{Label: current, TextSize: s.TextSize, Open: st.open},
			retained.Layout{Padding: geom.Symmetric(6, 10)}))
	if !st.open {
		return root
	}
	maxHeight := s.MaxHeight
	if maxHeight <= 0 {
		maxHeight = 240
	}
	list := retained.NewNode(&Div{Background: geom.White, Border: 1}, retained.Layout{
		Direction:  retained.Column,
		CrossAlign: retained.AlignStretch,
		ScrollY:    true,
		Position:   retained.PositionAbsolute,
		Inset:      retained.Inset{Top: retained.Pct(100), Left: retained.Px(0), Right: retained.Px(0)},
		MaxSize:    retained.Dims(retained.Auto, retained.Px(maxHeight)),
		ZIndex:     toolTipZ,
	}).Key("list")
	for i, opt := range s.Options {
		list.Push(retained.NewNode(&selectEntry{Label: opt, Index: i, Hovered: i == st.hovering, TextSize: s.TextSize},
			retained.Layout{Padding: geom.Symmetric(4, 10)}).Key(strconv.Itoa(i)))
	}
	return root.Push(list)
}

func (s *Select) Update(msg retained.Message) []retained.Message {
	st := s.StateRef()
	switch m := msg.(type) {
	case selectToggle:
		st = s.StateMut()
		st.hovering = st.selected
		st.open = !st.open
	case selectClose:
		if st.open {
			s.StateMut().open = false
		}
	case selectHover:
		if st.hovering != int(m) {
			s.StateMut().hovering = int(m)
		}
	case selectMove:
		st = s.StateMut()
		if !st.open {
			st.open, st.hovering = true, st.selected
			break
		}
		st.hovering = max(min(st.hovering+int(m), len(s.Options)-1), 0)
	case selectConfirm:
		if st.open {
			s.pick(st.hovering)
		} else {
			st = s.StateMut()
			st.open, st.hovering = true, st.selected
		}
	case selectPick:
		s.pick(int(m))
	default:
		return []retained.Message{msg}
	}
	return nil
}

func (s *Select) pick(i int) {
	st := s.StateMut()
	st.open = false
	if i < 0 || i >= len(s.Options) {
		return
	}
	st.selected, st.hovering = i, i
	if s.OnChange != nil {
		s.OnChange(i, s.Options[i])
	}
}

// selectBox shows the current choice and a caret.
type selectBox struct {
	retained.Base

	Label    string
	TextSize float32
	Open     bool
}

func (b *selectBox) caret() float32 { return orSize(b.TextSize) / 2 }

func (b *selectBox) Measure(ctx retained.MeasureContext) geom.Size {
	size := orSize(b.TextSize)
	s := ctx.Fonts.Measure(cache.Txt(b.Label), "", size, 1, geom.Sz(ctx.MaxWidth, ctx.MaxHeight))
	s.Width += b.caret() + 8
	s.Height = max(s.Height, ctx.Fonts.LineHeight("", size, 1))
	return s
}

func (b *selectBox) Render(ctx retained.RenderContext) []gfx.Renderable {
	bg := gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), geom.White).WithRadius(orRadius(0) * ctx.Scale)
	border := BorderColor
	if ctx.Focused {
		border = AccentColor
	}
	bg.WithBorder(ctx.Scale, border)

	box := contentBox(&b.Base, ctx)
	size := orSize(b.TextSize)
	lh := ctx.Caches.Fonts.LineHeight("", size, ctx.Scale)
	caret := b.caret() * ctx.Scale
	text := box
	text.Pos.Y = centeredY(box, lh)
	text.BottomRight.Y = text.Pos.Y + lh
	text.BottomRight.X -= caret + 8*ctx.Scale
	txt, _ := label(ctx, cache.Txt(b.Label), "", size, DefaultTextColor, cache.AlignLeft, text,
		gfx.Prev[*gfx.Text](ctx.Prev, 1))

	// A downward triangle, flipped while the list is open.
	top, bottom := float32(0), caret/2
	if b.Open {
		top, bottom = bottom, top
	}
	at := geom.Pos{X: box.BottomRight.X - caret, Y: centeredY(box, caret/2), Z: ctx.AABB.Pos.Z}
	tri := gfx.NewShape(ctx.Caches, at,
		[]geom.Point{{X: 0, Y: top}, {X: caret, Y: top}, {X: caret / 2, Y: bottom}},
		[]uint16{0, 1, 2}, DefaultTextColor, geom.Color{}, 0, gfx.Prev[*gfx.Shape](ctx.Prev, 2))
	return []gfx.Renderable{bg, txt, tri}
}

func (b *selectBox) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseEnter:
		e.Window().SetCursor(retained.CursorPointer)
	case retained.EventMouseLeave:
		e.Window().SetCursor(retained.CursorDefault)
	case retained.EventClick:
		if e.Button() == retained.MouseButtonLeft {
			e.Emit(selectToggle{})
			e.Focus()
		}
	case retained.EventBlur:
		e.Emit(selectClose{})
	case retained.EventKeyDown:
		switch e.Key() {
		case retained.KeyUp:
			e.Emit(selectMove(-1))
		case retained.KeyDown:
			e.Emit(selectMove(1))
		case retained.KeyEnter, retained.KeySpace:
			e.Emit(selectConfirm{})
		case retained.KeyEscape:
			e.Emit(selectClose{})
		}
	}
}

// selectEntry is one option of an open Select.
type selectEntry struct {
	retained.Base

	Label    string
	Index    int
	Hovered  bool
	TextSize float32
}

func (s *selectEntry) Measure(ctx retained.MeasureContext) geom.Size {
	return ctx.Fonts.Measure(cache.Txt(s.Label), "", orSize(s.TextSize), 1, geom.Sz(ctx.MaxWidth, ctx.MaxHeight))
}

func (s *selectEntry) Render(ctx retained.RenderContext) []gfx.Renderable {
	fg := DefaultTextColor
	var out []gfx.Renderable
	if s.Hovered {
		fg = geom.White
		out = append(out, gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), AccentColor))
	}
	txt, _ := label(ctx, cache.Txt(s.Label), "", orSize(s.TextSize), fg, cache.AlignLeft,
		contentBox(&s.Base, ctx), gfx.Prev[*gfx.Text](ctx.Prev, len(out)))
	return append(out, txt)
}

func (s *selectEntry) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseEnter:
		e.Emit(selectHover(s.Index))
	case retained.EventMouseMove:
		e.StopBubbling()
	case retained.EventClick:
		if e.Button() == retained.MouseButtonLeft {
			e.StopBubbling()
			e.Emit(selectPick(s.Index))
		}
	}
}
