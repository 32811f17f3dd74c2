package retained

import (
	"github.com/agiangrant/arbor/geom"
)

// InputKind identifies a raw input from the window.
type InputKind uint8

const (
	InputMouseMove InputKind = iota + 1
	InputMouseDown
	InputMouseUp
	InputScroll
	InputKeyDown
	InputKeyUp
	InputText
	InputResize
	InputWindowFocus
	InputMouseLeaveWindow
	InputTimer
	InputDragEnter
	InputDragOver
	InputDragLeave
	InputDrop
	InputExit
)

// Input is a raw window input. Positions are in logical pixels.
type Input struct {
	Kind    InputKind
	Pos     geom.Point
	Button  MouseButton
	Key     Key
	Repeat  bool
	Text    string
	Delta   geom.Point
	Focused bool
	Data    []Data
}

func MouseMoved(p geom.Point) Input { return Input{Kind: InputMouseMove, Pos: p} }

func MousePressed(b MouseButton) Input { return Input{Kind: InputMouseDown, Button: b} }

func MouseReleased(b MouseButton) Input { return Input{Kind: InputMouseUp, Button: b} }

// Scrolled is a wheel movement in logical pixels. Positive Y scrolls down.
func Scrolled(delta geom.Point) Input { return Input{Kind: InputScroll, Delta: delta} }

func KeyPressed(k Key) Input { return Input{Kind: InputKeyDown, Key: k} }

func KeyRepeated(k Key) Input { return Input{Kind: InputKeyDown, Key: k, Repeat: true} }

func KeyReleased(k Key) Input { return Input{Kind: InputKeyUp, Key: k} }

func TextEntered(s string) Input { return Input{Kind: InputText, Text: s} }

func Resized() Input { return Input{Kind: InputResize} }

func WindowFocused(focused bool) Input { return Input{Kind: InputWindowFocus, Focused: focused} }

func MouseLeftWindow() Input { return Input{Kind: InputMouseLeaveWindow} }

func Timer() Input { return Input{Kind: InputTimer} }

// DragEntered starts an OS drag over the window carrying data.
func DragEntered(data ...Data) Input { return Input{Kind: InputDragEnter, Data: data} }

func DraggedOver(p geom.Point) Input { return Input{Kind: InputDragOver, Pos: p} }

func DragLeft() Input { return Input{Kind: InputDragLeave} }

func Dropped(p geom.Point) Input { return Input{Kind: InputDrop, Pos: p} }

func Exit() Input { return Input{Kind: InputExit} }

// ============================================================================
// Event cache
// ============================================================================

// EventCache remembers what is held down so every event carries accurate
// modifiers and key releases can be matched with their presses.
type EventCache struct {
	mods    Modifiers
	keys    map[Key]bool
	buttons [MouseButtonMiddle + 1]bool
	pointer geom.Point
}

func newEventCache() EventCache {
	return EventCache{keys: map[Key]bool{}}
}

// Modifiers returns the modifier keys currently held.
func (c *EventCache) Modifiers() Modifiers { return c.mods }

// Pointer returns the last pointer position.
func (c *EventCache) Pointer() geom.Point { return c.pointer }

// KeyHeld reports whether k is down.
func (c *EventCache) KeyHeld(k Key) bool { return c.keys[k] }

// ButtonHeld reports whether b is down.
func (c *EventCache) ButtonHeld(b MouseButton) bool {
	return int(b) < len(c.buttons) && c.buttons[b]
}

func (c *EventCache) keyDown(k Key) {
	c.keys[k] = true
	c.mods |= k.modifier()
}

// keyUp reports whether k was held.
func (c *EventCache) keyUp(k Key) bool {
	held := c.keys[k]
	delete(c.keys, k)
	c.mods &^= k.modifier()
	return held
}

func (c *EventCache) buttonDown(b MouseButton) {
	if int(b) < len(c.buttons) {
		c.buttons[b] = true
	}
}

func (c *EventCache) buttonUp(b MouseButton) {
	if int(b) < len(c.buttons) {
		c.buttons[b] = false
	}
}

// clear forgets everything held, used when the window loses focus.
func (c *EventCache) clear() {
	c.mods = 0
	clear(c.keys)
	c.buttons = [MouseButtonMiddle + 1]bool{}
}
