package retained

import (
	"fmt"
	"sync"
	"time"

	"github.com/agiangrant/arbor/geom"
)

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event.
type EventType uint8

const (
	// Mouse events
	EventMouseEnter EventType = iota + 1
	EventMouseLeave
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventClick
	EventDoubleClick
	EventMouseWheel

	// Keyboard events
	EventKeyDown
	EventKeyUp
	EventKeyPress // Key released after being held
	EventTextEntry

	// Focus events
	EventFocus
	EventBlur

	// Drag events synthesized from pointer motion
	EventDragStart
	EventDrag
	EventDragEnd

	// Drag and drop from outside the window
	EventDragTarget
	EventDragEnter
	EventDragLeave
	EventDrop

	// Timer broadcast
	EventTick
)

var eventNames = [...]string{
	EventMouseEnter:  "MouseEnter",
	EventMouseLeave:  "MouseLeave",
	EventMouseMove:   "MouseMove",
	EventMouseDown:   "MouseDown",
	EventMouseUp:     "MouseUp",
	EventClick:       "Click",
	EventDoubleClick: "DoubleClick",
	EventMouseWheel:  "MouseWheel",
	EventKeyDown:     "KeyDown",
	EventKeyUp:       "KeyUp",
	EventKeyPress:    "KeyPress",
	EventTextEntry:   "TextEntry",
	EventFocus:       "Focus",
	EventBlur:        "Blur",
	EventDragStart:   "DragStart",
	EventDrag:        "Drag",
	EventDragEnd:     "DragEnd",
	EventDragTarget:  "DragTarget",
	EventDragEnter:   "DragEnter",
	EventDragLeave:   "DragLeave",
	EventDrop:        "Drop",
	EventTick:        "Tick",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) && eventNames[t] != "" {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// IsPointer reports whether the event carries a pointer position.
func (t EventType) IsPointer() bool {
	return t <= EventMouseWheel || (t >= EventDragStart && t <= EventDrop)
}

// EventPhase indicates when in the event propagation cycle we are.
type EventPhase uint8

const (
	// PhaseCapture - event travels from root down to target.
	// Parents can intercept before children see it.
	PhaseCapture EventPhase = iota

	// PhaseTarget - event is at the target node.
	PhaseTarget

	// PhaseBubble - event travels from target up to root.
	// Normal handling phase - most handlers use this.
	PhaseBubble
)

func (p EventPhase) String() string {
	switch p {
	case PhaseCapture:
		return "Capture"
	case PhaseTarget:
		return "Target"
	case PhaseBubble:
		return "Bubble"
	}
	return fmt.Sprintf("EventPhase(%d)", p)
}

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// ============================================================================
// Keys
// ============================================================================

// Key is a logical key. Printable keys use the character they produce
// without modifiers ("a", "2"); others use their name.
type Key string

const (
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
	KeyBackspace Key = "Backspace"
	KeyDelete    Key = "Delete"
	KeyTab       Key = "Tab"
	KeySpace     Key = " "
	KeyLeft      Key = "ArrowLeft"
	KeyRight     Key = "ArrowRight"
	KeyUp        Key = "ArrowUp"
	KeyDown      Key = "ArrowDown"
	KeyHome      Key = "Home"
	KeyEnd       Key = "End"
	KeyPageUp    Key = "PageUp"
	KeyPageDown  Key = "PageDown"

	KeyShift   Key = "Shift"
	KeyControl Key = "Control"
	KeyAlt     Key = "Alt"
	KeySuper   Key = "Super"
)

// modifier returns the modifier bit a key controls.
func (k Key) modifier() Modifiers {
	switch k {
	case KeyShift:
		return ModShift
	case KeyControl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeySuper:
		return ModSuper
	}
	return 0
}

// ============================================================================
// Event
// ============================================================================

type signalKind uint8

const (
	signalFocus signalKind = iota
	signalBlur
	signalFocusRef
	signalFocusChild
	signalScrollToRef
	signalScrollToChild
)

// signal is a request a handler makes of the router. Signals are applied
// after dispatch so handlers never observe a half-changed tree.
type signal struct {
	kind signalKind
	node *Node
	ref  string
	path []int
}

// Event is passed to HandleEvent and HandleCapture. It is only valid during
// the call; the router reuses it afterwards.
type Event struct {
	eventType     EventType
	target        *Node
	currentTarget *Node
	phase         EventPhase

	bubblingStopped bool
	defaultPrevented bool

	position    geom.Point
	button      MouseButton
	mods        Modifiers
	key         Key
	repeat      bool
	text        string
	scrollDelta geom.Point
	delta       geom.Point
	step        geom.Point
	data        []Data
	time        time.Time

	window  Window
	emitted []emitted
	signals []signal
}

type emitted struct {
	from *Node
	msg  Message
}

var eventPool = sync.Pool{
	New: func() any {
		return &Event{}
	},
}

func acquireEvent(t EventType, now time.Time, win Window) *Event {
	e := eventPool.Get().(*Event)
	e.eventType = t
	e.time = now
	e.window = win
	return e
}

// release clears the event and returns it to the pool. Emitted messages and
// signals must have been taken first.
func (e *Event) release() {
	emitted, signals := e.emitted[:0], e.signals[:0]
	clear(e.emitted)
	clear(e.signals)
	*e = Event{emitted: emitted, signals: signals}
	eventPool.Put(e)
}

// Type returns the event type.
func (e *Event) Type() EventType { return e.eventType }

// Target returns the node that was hit (for pointer events) or focused (for
// keyboard events).
func (e *Event) Target() *Node { return e.target }

// CurrentTarget returns the node currently handling the event.
func (e *Event) CurrentTarget() *Node { return e.currentTarget }

// Phase returns the current propagation phase.
func (e *Event) Phase() EventPhase { return e.phase }

// Time returns when the input arrived.
func (e *Event) Time() time.Time { return e.time }

// Position returns the pointer position in logical window coordinates.
func (e *Event) Position() geom.Point { return e.position }

// Local returns the pointer position relative to the current target.
func (e *Event) Local() geom.Point {
	if e.currentTarget == nil {
		return e.position
	}
	return e.currentTarget.aabb.LocalPoint(e.position)
}

// Button returns the button of press, release, click and drag events.
func (e *Event) Button() MouseButton { return e.button }

// Modifiers returns the modifier keys held when the event was created.
func (e *Event) Modifiers() Modifiers { return e.mods }

// Key returns the key of keyboard events.
func (e *Event) Key() Key { return e.key }

// Repeat reports whether a KeyDown is an auto-repeat.
func (e *Event) Repeat() bool { return e.repeat }

// Text returns the text of TextEntry events.
func (e *Event) Text() string { return e.text }

// ScrollDelta returns the wheel delta in logical pixels.
func (e *Event) ScrollDelta() geom.Point { return e.scrollDelta }

// Delta returns the cumulative pointer movement since DragStart.
func (e *Event) Delta() geom.Point { return e.delta }

// Step returns the pointer movement since the previous Drag event.
func (e *Event) Step() geom.Point { return e.step }

// Data returns the payload of drag and drop events.
func (e *Event) Data() []Data { return e.data }

// Window returns the window the event came from, for clipboard and cursor
// access.
func (e *Event) Window() Window { return e.window }

// StopBubbling prevents the event from reaching further ancestors.
func (e *Event) StopBubbling() { e.bubblingStopped = true }

// IsBubblingStopped reports whether StopBubbling was called.
func (e *Event) IsBubblingStopped() bool { return e.bubblingStopped }

// PreventDefault prevents the router's default action, such as wheel
// scrolling.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// IsDefaultPrevented reports whether PreventDefault was called.
func (e *Event) IsDefaultPrevented() bool { return e.defaultPrevented }

// Emit queues a message for the Update of the current target's ancestors.
func (e *Event) Emit(msg Message) {
	e.emitted = append(e.emitted, emitted{from: e.currentTarget, msg: msg})
}

// MarkDirty marks the current target for a new View.
func (e *Event) MarkDirty() {
	if e.currentTarget != nil {
		e.currentTarget.component.base().MarkDirty()
	}
}

// Focus gives keyboard focus to the current target and stops bubbling.
func (e *Event) Focus() {
	e.signals = append(e.signals, signal{kind: signalFocus, node: e.currentTarget})
	e.bubblingStopped = true
}

// Blur returns focus to the enclosing focus context.
func (e *Event) Blur() {
	e.signals = append(e.signals, signal{kind: signalBlur, node: e.currentTarget})
}

// FocusRef focuses the node registered under name.
func (e *Event) FocusRef(name string) {
	e.signals = append(e.signals, signal{kind: signalFocusRef, node: e.currentTarget, ref: name})
}

// FocusChild focuses the descendant of the current target at path, indexed
// through each node's children.
func (e *Event) FocusChild(path ...int) {
	e.signals = append(e.signals, signal{kind: signalFocusChild, node: e.currentTarget, path: path})
}

// ScrollToRef scrolls every scrolling ancestor of the named node so it is
// visible.
func (e *Event) ScrollToRef(name string) {
	e.signals = append(e.signals, signal{kind: signalScrollToRef, node: e.currentTarget, ref: name})
}

// ScrollToChild scrolls the descendant of the current target at path into
// view.
func (e *Event) ScrollToChild(path ...int) {
	e.signals = append(e.signals, signal{kind: signalScrollToChild, node: e.currentTarget, path: path})
}

func (e *Event) String() string {
	return fmt.Sprintf("%s@%v", e.eventType, e.position)
}
