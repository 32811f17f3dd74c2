package widgets

import (
	"time"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

// ToolTipDelay is how long the pointer must rest before a tip opens.
const ToolTipDelay = time.Second

const (
	toolTipMaxWidth = 300
	toolTipOffset   = 14
	toolTipZ        = 1000
)

// ToolTip is a bordered box of wrapped text, at most 300 logical pixels
// wide. Components show one through tipState.
type ToolTip struct {
	retained.Base

	Text       string
	TextSize   float32
	TextColor  geom.Color
	Background geom.Color
}

func (t *ToolTip) View() *retained.Node {
	return retained.NewNode(&Div{Background: orColor(t.Background, SurfaceColor), Border: 1},
		retained.Layout{
			Padding: geom.All(6),
			MaxSize: retained.Dims(retained.Px(toolTipMaxWidth), retained.Auto),
		}).Push(retained.NewNode(&Text{Text: t.Text, Size: t.TextSize, Color: t.TextColor}, retained.Layout{}))
}

// tipState tracks the pointer resting on a component. Ticks open the tip
// once the pointer has not moved for ToolTipDelay.
type tipState struct {
	hovered bool
	since   time.Time
	at      geom.Point
	open    bool
	// left places the tip left of the pointer when it would leave the
	// window on the right.
	left bool
}

func (t *tipState) move(e *retained.Event) {
	t.hovered = true
	t.since = e.Time()
	if !t.open {
		t.at = e.Local()
	}
}

// tick reports whether the tip just opened.
func (t *tipState) tick(e *retained.Event) bool {
	if !t.hovered || t.open || e.Time().Sub(t.since) < ToolTipDelay {
		return false
	}
	t.open = true
	pointer := e.Position().X - e.Local().X + t.at.X
	t.left = pointer+toolTipOffset+toolTipMaxWidth > e.Window().LogicalSize().Width
	return true
}

// node returns the tip positioned against a parent of the given width, or
// nil while closed.
func (t *tipState) node(text string, width float32) *retained.Node {
	if !t.open || text == "" {
		return nil
	}
	in := retained.Inset{Top: retained.Px(t.at.Y)}
	if t.left {
		in.Right = retained.Px(width - t.at.X + toolTipOffset)
	} else {
		in.Left = retained.Px(t.at.X + toolTipOffset)
	}
	return retained.NewNode(&ToolTip{Text: text}, retained.Layout{
		Position: retained.PositionAbsolute,
		Inset:    in,
		ZIndex:   toolTipZ,
		MaxSize:  retained.Dims(retained.Px(toolTipMaxWidth), retained.Auto),
	})
}
