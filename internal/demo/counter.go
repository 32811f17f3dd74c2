package demo

import (
	"fmt"

	"github.com/agiangrant/arbor/retained"
	"github.com/agiangrant/arbor/widgets"
)

// Counter shows a number and buttons that change it by Step.
type Counter struct {
	retained.State[int]
	Step int
}

type adjust int

type reset struct{}

// Count returns the current value.
func (c *Counter) Count() int { return *c.StateRef() }

func (c *Counter) View() *retained.Node {
	step := max(c.Step, 1)
	return widgets.NewDiv(column(12)).Push(
		retained.NewNode(&widgets.Text{Text: fmt.Sprintf("Count: %d", c.Count()), Size: 24}, retained.Layout{}).Ref("count"),
		widgets.NewDiv(row(8)).Push(
			retained.NewNode(&widgets.Button{Label: "-", Message: adjust(-step)}, buttonLayout()).Ref("dec"),
			retained.NewNode(&widgets.Button{Label: "+", Message: adjust(step)}, buttonLayout()).Ref("inc"),
			retained.NewNode(&widgets.Button{Label: "Reset", Message: reset{}, Disabled: c.Count() == 0}, buttonLayout()).Ref("reset"),
		),
	)
}

func (c *Counter) Update(msg retained.Message) []retained.Message {
	switch m := msg.(type) {
	case adjust:
		*c.StateMut() += int(m)
	case reset:
		*c.StateMut() = 0
	default:
		return []retained.Message{msg}
	}
	return nil
}
