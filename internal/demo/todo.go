package demo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
	"github.com/agiangrant/arbor/widgets"
)

// Todo is a list of tasks with an input to add more.
type Todo struct {
	retained.State[todoState]
}

type todoState struct {
	items []todoItem
	next  int
	// input is bumped on every add so a fresh, empty TextBox is mounted.
	input int
}

type todoItem struct {
	id    int
	title string
	done  bool
}

type clearDone struct{}

// Items returns the task titles and whether each is done.
func (t *Todo) Items() (titles []string, done []bool) {
	for _, it := range t.StateRef().items {
		titles = append(titles, it.title)
		done = append(done, it.done)
	}
	return titles, done
}

func (t *Todo) add(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	s := t.StateMut()
	s.next++
	s.items = append(s.items, todoItem{id: s.next, title: title})
	s.input++
}

func (t *Todo) setDone(id int, done bool) {
	s := t.StateMut()
	for i := range s.items {
		if s.items[i].id == id {
			s.items[i].done = done
		}
	}
}

func (t *Todo) View() *retained.Node {
	s := t.StateRef()

	input := retained.NewNode(&widgets.TextBox{
		Placeholder: "What needs doing?",
		MaxLength:   120,
		OnCommit:    t.add,
	}, retained.Layout{Size: retained.Dims(retained.Pct(100), retained.Auto)}).
		Key("input-" + strconv.Itoa(s.input)).Ref("input").Focus(1).FocusWhenNew()

	list := widgets.NewDiv(retained.Layout{
		Direction: retained.Column,
		Gap:       4,
		Grow:      1,
		ScrollY:   true,
		Size:      retained.Dims(retained.Pct(100), retained.Auto),
	}).Ref("list")
	left := 0
	for _, it := range s.items {
		id := it.id
		color := widgets.DefaultTextColor
		if it.done {
			color = widgets.DisabledColor
		} else {
			left++
		}
		list.Push(widgets.NewDiv(row(8)).Key("item-"+strconv.Itoa(id)).Push(
			retained.NewNode(&widgets.Toggle{
				On:       it.done,
				OnChange: func(on bool) { t.setDone(id, on) },
			}, retained.Layout{}).Ref("done-"+strconv.Itoa(id)),
			retained.NewNode(&widgets.Text{Text: it.title, Color: color}, retained.Layout{}),
		))
	}

	return widgets.NewDiv(column(8)).Push(
		retained.NewNode(&widgets.Text{Text: "Todo", Size: 20}, retained.Layout{}),
		input,
		list,
		widgets.NewDiv(row(8)).Push(
			retained.NewNode(&widgets.Text{Text: fmt.Sprintf("%d left", left)}, retained.Layout{Grow: 1}).Ref("left"),
			retained.NewNode(&widgets.Button{
				Label:      "Clear done",
				Message:    clearDone{},
				Disabled:   left == len(s.items),
				Background: geom.Hex(0x57606aff),
			}, buttonLayout()).Ref("clear"),
		),
	)
}

func (t *Todo) Update(msg retained.Message) []retained.Message {
	if _, ok := msg.(clearDone); !ok {
		return []retained.Message{msg}
	}
	s := t.StateMut()
	kept := s.items[:0]
	for _, it := range s.items {
		if !it.done {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}
