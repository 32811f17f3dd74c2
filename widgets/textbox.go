package widgets

import (
	"sort"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// textInset is the logical gap between a TextBox's edge and its text.
const textInset = 4

// TextBox is a single-line text input.
//
// Value seeds the content and replaces it whenever the prop changes. Every
// edit calls OnChange; Enter and losing focus call OnCommit when the text
// differs from the last commit. The cursor blinks on Tick while focused.
type TextBox struct {
	retained.State[textBoxState]

	Value       string
	Placeholder string
	MaxLength   int
	// Filter drops typed or pasted runes it returns false for.
	Filter   func(r rune) bool
	OnChange func(text string)
	OnCommit func(text string)
	// Validate runs on commit. A failing value is not committed and the
	// box shows an error border until a valid commit.
	Validate Validator

	Size       float32
	Font       string
	Color      geom.Color
	Background geom.Color
}

type textBoxState struct {
	buf       *TextBuffer
	prop      string
	committed string
	focused   bool
	blinkOff  bool
	err       error
	// carets are the logical x offsets of each cursor position, from the
	// last render.
	carets []float32
}

func (t *TextBox) Init() {
	t.SetState(textBoxState{buf: NewTextBuffer(t.Value), prop: t.Value, committed: t.Value})
	t.configure()
}

func (t *TextBox) ReplaceState(v any) {
	t.State.ReplaceState(v)
	st := t.StateRef()
	if st.buf == nil {
		st.buf = NewTextBuffer(t.Value)
		st.prop, st.committed = t.Value, t.Value
	} else if st.prop != t.Value {
		st.prop = t.Value
		if st.buf.Text() != t.Value {
			st.buf.SetText(t.Value)
			st.committed = t.Value
		}
	}
	t.configure()
}

func (t *TextBox) configure() {
	b := t.StateRef().buf
	b.MaxLength = t.MaxLength
	b.Filter = t.Filter
}

// Text returns the current content.
func (t *TextBox) Text() string {
	if b := t.StateRef().buf; b != nil {
		return b.Text()
	}
	return t.Value
}

// Cursor returns the cursor position in runes.
func (t *TextBox) Cursor() int {
	if b := t.StateRef().buf; b != nil {
		return b.Cursor()
	}
	return 0
}

// Err returns the error of the last rejected commit, nil once a value
// passes Validate.
func (t *TextBox) Err() error { return t.StateRef().err }

func (t *TextBox) Measure(ctx retained.MeasureContext) geom.Size {
	size := orSize(t.Size)
	s := ctx.Fonts.Measure(cache.Txt(t.Text()), t.Font, size, 1, geom.Size{})
	return geom.Sz(s.Width+2*textInset, ctx.Fonts.LineHeight(t.Font, size, 1)+2*textInset)
}

func (t *TextBox) Render(ctx retained.RenderContext) []gfx.Renderable {
	st := t.StateRef()
	bg := gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), orColor(t.Background, geom.White)).WithRadius(3 * ctx.Scale)
	switch {
	case st.err != nil:
		bg.WithBorder(2*ctx.Scale, ErrorColor)
	case ctx.Focused:
		bg.WithBorder(2*ctx.Scale, AccentColor)
	default:
		bg.WithBorder(ctx.Scale, BorderColor)
	}

	size := orSize(t.Size)
	lh := ctx.Caches.Fonts.LineHeight(t.Font, size, ctx.Scale)
	inset := textInset * ctx.Scale
	box := geom.Bounds{Left: inset, Right: inset}.Shrink(ctx.AABB)
	box.Pos.Y = centeredY(ctx.AABB, lh)
	box.BottomRight.Y = box.Pos.Y + lh
	// Single line: no wrapping.
	box.BottomRight.X = box.Pos.X

	text, color := st.buf.Text(), orColor(t.Color, DefaultTextColor)
	if text == "" && t.Placeholder != "" && !ctx.Focused {
		text, color = t.Placeholder, DisabledColor
	}
	txt, glyphs := label(ctx, cache.Txt(text), t.Font, size, color, cache.AlignLeft, box, gfx.Prev[*gfx.Text](ctx.Prev, 1))
	if text == st.buf.Text() {
		st.carets = caretStops(st.buf, glyphs, ctx.Scale)
	} else {
		st.carets = []float32{0}
	}

	out := []gfx.Renderable{bg, txt}
	if ctx.Focused && !st.blinkOff {
		x := box.Pos.X + st.carets[min(st.buf.Cursor(), len(st.carets)-1)]*ctx.Scale
		out = append(out, gfx.NewRect(geom.Pos{X: x, Y: box.Pos.Y, Z: box.Pos.Z}, geom.Sz(max(ctx.Scale, 1), lh), color))
	}
	return out
}

// caretStops returns the logical x of every cursor position of b, given
// the glyphs laid out for its text. Positions inside a multi-rune glyph
// share the glyph's start.
func caretStops(b *TextBuffer, glyphs []cache.SectionGlyph, scale float32) []float32 {
	stops := make([]float32, b.Len()+1)
	end := float32(0)
	if n := len(glyphs); n > 0 {
		end = glyphs[n-1].Glyph.Position.X + glyphs[n-1].Advance
	}
	g := 0
	for i := range b.Len() {
		off := b.ByteOffset(i)
		for g < len(glyphs) && glyphs[g].Index < off {
			g++
		}
		if g < len(glyphs) {
			stops[i] = glyphs[g].Glyph.Position.X / scale
		} else {
			stops[i] = end / scale
		}
	}
	stops[b.Len()] = end / scale
	return stops
}

// caretAt returns the cursor position nearest to logical x.
func caretAt(stops []float32, x float32) int {
	i := sort.Search(len(stops), func(i int) bool { return stops[i] >= x })
	if i == len(stops) {
		return len(stops) - 1
	}
	if i > 0 && x-stops[i-1] < stops[i]-x {
		return i - 1
	}
	return i
}

func (t *TextBox) HandleEvent(e *retained.Event) {
	st := t.StateRef()
	switch e.Type() {
	case retained.EventMouseEnter:
		e.Window().SetCursor(retained.CursorText)
	case retained.EventMouseLeave:
		e.Window().SetCursor(retained.CursorDefault)
	case retained.EventClick:
		e.Focus()
		if len(st.carets) > 0 {
			st.buf.SetCursor(caretAt(st.carets, e.Local().X-textInset))
		}
		t.wake()
	case retained.EventDoubleClick:
		st.buf.End()
		t.wake()
	case retained.EventFocus:
		st.focused = true
		t.wake()
	case retained.EventBlur:
		st.focused = false
		t.commit()
		t.MarkDirty()
	case retained.EventTextEntry:
		t.edit(st.buf.Insert(e.Text()))
	case retained.EventKeyDown:
		t.key(e)
	case retained.EventTick:
		if st.focused {
			t.StateMut().blinkOff = !st.blinkOff
		}
	}
}

func (t *TextBox) key(e *retained.Event) {
	b := t.StateRef().buf
	word := e.Modifiers().WordJump()
	switch e.Key() {
	case retained.KeyBackspace:
		if word {
			t.edit(b.DeleteWord(false))
		} else {
			t.edit(b.Delete(-1))
		}
	case retained.KeyDelete:
		if word {
			t.edit(b.DeleteWord(true))
		} else {
			t.edit(b.Delete(1))
		}
	case retained.KeyLeft:
		if word {
			b.MoveWord(false)
		} else {
			b.Move(-1)
		}
	case retained.KeyRight:
		if word {
			b.MoveWord(true)
		} else {
			b.Move(1)
		}
	case retained.KeyHome:
		b.Home()
	case retained.KeyEnd:
		b.End()
	case retained.KeyEnter:
		t.commit()
	case "v":
		if e.Modifiers().Shortcut() {
			if d, ok := e.Window().GetFromClipboard(); ok {
				t.edit(b.Insert(d.Text))
			}
		}
	case "c":
		if e.Modifiers().Shortcut() {
			e.Window().PutOnClipboard(retained.Data{Text: b.Text()})
		}
	case "z":
		if e.Modifiers().Shortcut() {
			if e.Modifiers().Shift() {
				t.edit(b.Redo())
			} else {
				t.edit(b.Undo())
			}
		}
	default:
		return
	}
	e.StopBubbling()
	t.wake()
}

// wake shows the cursor and schedules a render.
func (t *TextBox) wake() {
	t.StateMut().blinkOff = false
}

func (t *TextBox) edit(changed bool) {
	if !changed {
		return
	}
	t.wake()
	if t.OnChange != nil {
		t.OnChange(t.StateRef().buf.Text())
	}
}

func (t *TextBox) commit() {
	st := t.StateRef()
	text := st.buf.Text()
	var err error
	if t.Validate != nil && text != st.committed {
		err = t.Validate(text)
	}
	if err != st.err {
		t.StateMut().err = err
	}
	if err != nil || text == st.committed {
		return
	}
	st.committed = text
	if t.OnCommit != nil {
		t.OnCommit(text)
	}
}
