package widgets

import (
	"slices"
	"strconv"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

// RadioButtons is a group of joined buttons of which one, or with
// MultiSelect several, are selected. Selected is the initial and externally
// controlled selection; clicks change it and call OnChange with the new
// selection.
//
// Buttons flow along Direction and start a new line after MaxPerLine of
// them. The outer corners of the group are rounded.
type RadioButtons struct {
	retained.State[radioState]

	Options []string
	// ToolTips, when set, holds one tip per option.
	ToolTips   []string
	Selected   []int
	Direction  retained.Direction
	MaxPerLine int
	// MultiSelect allows several selected buttons and implies Nullable.
	MultiSelect bool
	// Nullable lets a click on a selected button clear it.
	Nullable bool
	OnChange func(selected []int)

	TextSize float32
	Radius   float32
}

type radioState struct {
	selected []int
	// prop is the last Selected value seen.
	prop []int
}

type radioClicked int

func (r *RadioButtons) Init() {
	r.SetState(radioState{selected: slices.Clone(r.Selected), prop: slices.Clone(r.Selected)})
}

func (r *RadioButtons) ReplaceState(v any) {
	r.State.ReplaceState(v)
	if st := r.StateRef(); !slices.Equal(st.prop, r.Selected) {
		st.selected, st.prop = slices.Clone(r.Selected), slices.Clone(r.Selected)
	}
}

// Value returns the selected indices.
func (r *RadioButtons) Value() []int { return slices.Clone(r.StateRef().selected) }

func (r *RadioButtons) View() *retained.Node {
	cross := retained.Column
	if r.Direction == retained.Column {
		cross = retained.Row
	}
	n := len(r.Options)
	limit := r.MaxPerLine
	if limit <= 0 || limit > n {
		limit = n
	}
	lines := 1
	if n > 0 {
		lines = (n + limit - 1) / limit
	}
	rows, cols := lines, limit
	if r.Direction == retained.Column {
		rows, cols = limit, lines
	}

	radius := r.Radius
	if radius <= 0 {
		radius = orRadius(0)
	}
	selected := r.StateRef().selected
	root := NewDiv(retained.Layout{Direction: cross})
	var line *retained.Node
	for pos, opt := range r.Options {
		i, j := pos/max(limit, 1), pos%max(limit, 1)
		if j == 0 {
			line = NewDiv(retained.Layout{Direction: r.Direction, CrossAlign: retained.AlignStretch}).Key(strconv.Itoa(i))
			root.Push(line)
		}
		row, col := i, j
		if r.Direction == retained.Column {
			row, col = j, i
		}
		last := pos+1 == n
		var radii [4]float32
		if row == 0 && col == 0 {
			radii[0] = radius
		}
		if row == 0 && (col+1 == cols || last) {
			radii[1] = radius
		}
		if last {
			radii[2] = radius
		}
		if col == 0 && (row+1 == rows || last) {
			radii[3] = radius
		}
		var tip string
		if pos < len(r.ToolTips) {
			tip = r.ToolTips[pos]
		}
		line.Push(retained.NewNode(&radioButton{
			Label:    opt,
			ToolTip:  tip,
			Index:    pos,
			Selected: slices.Contains(selected, pos),
			Radii:    radii,
			TextSize: r.TextSize,
		}, retained.Layout{}).Key(strconv.Itoa(j)))
	}
	return root
}

func (r *RadioButtons) Update(msg retained.Message) []retained.Message {
	c, ok := msg.(radioClicked)
	if !ok {
		return []retained.Message{msg}
	}
	next, changed := r.toggle(int(c))
	if !changed {
		return nil
	}
	r.StateMut().selected = next
	if r.OnChange != nil {
		r.OnChange(slices.Clone(next))
	}
	return nil
}

// toggle returns the selection after clicking button i.
func (r *RadioButtons) toggle(i int) ([]int, bool) {
	cur := r.StateRef().selected
	switch {
	case slices.Contains(cur, i):
		if !r.Nullable && !r.MultiSelect {
			return cur, false
		}
		return slices.DeleteFunc(slices.Clone(cur), func(v int) bool { return v == i }), true
	case r.MultiSelect:
		return append([]int{i}, cur...), true
	}
	return []int{i}, true
}

// radioButton is one button of a RadioButtons group.
type radioButton struct {
	retained.State[tipState]

	Label    string
	ToolTip  string
	Index    int
	Selected bool
	Radii    [4]float32
	TextSize float32
}

func (b *radioButton) View() *retained.Node {
	bg, fg := SurfaceColor, DefaultTextColor
	switch {
	case b.Selected:
		bg, fg = AccentColor, geom.White
	case b.StateRef().hovered:
		bg = SurfaceColor.Darken(0.05)
	}
	face := retained.NewNode(&RoundedRect{Background: bg, Border: 1, Radii: b.Radii},
		retained.Layout{
			Padding:    geom.Symmetric(6, 12),
			AxisAlign:  retained.AlignCenter,
			CrossAlign: retained.AlignCenter,
		}).Push(retained.NewNode(&Text{Text: b.Label, Size: b.TextSize, Color: fg}, retained.Layout{}))
	var width float32
	if n := b.Node(); n != nil {
		width = n.AABB().Width()
	}
	if tip := b.StateRef().node(b.ToolTip, width); tip != nil {
		face.Push(tip.Key("tip"))
	}
	return face
}

func (b *radioButton) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseEnter:
		b.StateMut().hovered = true
		e.Window().SetCursor(retained.CursorPointer)
	case retained.EventMouseLeave:
		*b.StateMut() = tipState{}
		e.Window().SetCursor(retained.CursorDefault)
	case retained.EventMouseMove:
		b.StateRef().move(e)
		e.StopBubbling()
	case retained.EventTick:
		if b.StateRef().tick(e) {
			b.MarkDirty()
		}
	case retained.EventClick:
		if e.Button() == retained.MouseButtonLeft {
			e.StopBubbling()
			e.Emit(radioClicked(b.Index))
		}
	}
}
