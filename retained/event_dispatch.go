package retained

import (
	"log/slog"
	"time"

	"github.com/agiangrant/arbor/geom"
)

// Pointer gesture thresholds, in logical pixels.
const (
	DoubleClickInterval         = 500 * time.Millisecond
	DoubleClickDistance float32 = 4
	DragThreshold       float32 = 3
	// A drag released closer than this to where it started also clicks.
	DragClickDistance float32 = 30
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Router turns raw window input into component events. It owns the pointer
// history (hover set, press, drag, last click) and the focus manager, and
// queues the messages handlers emit until the UI drains them.
//
// Nodes are remembered by NodeID between inputs so a frame that rebuilds
// node objects does not break a gesture in progress.
type Router struct {
	root   *Node
	lookup func(NodeID) *Node
	focus  *FocusManager
	window Window
	cache  EventCache
	now    Clock
	logger *slog.Logger

	hover []NodeID

	press struct {
		active bool
		button MouseButton
		pos    geom.Point
		target NodeID
	}
	drag struct {
		active bool
		button MouseButton
		source NodeID
		start  geom.Point
		last   geom.Point
	}
	lastClick struct {
		valid  bool
		at     time.Time
		pos    geom.Point
		target NodeID
	}
	osDrag struct {
		active bool
		data   []Data
		target NodeID
	}

	messages []emitted
	scrolled bool
	depth    int
}

func newRouter(focus *FocusManager, window Window, now Clock, logger *slog.Logger) *Router {
	return &Router{
		focus:  focus,
		window: window,
		cache:  newEventCache(),
		now:    now,
		logger: logger,
	}
}

// setTree points the router at a freshly reconciled tree.
func (r *Router) setTree(root *Node, lookup func(NodeID) *Node) {
	r.root, r.lookup = root, lookup
}

func (r *Router) node(id NodeID) *Node {
	if id == 0 || r.lookup == nil {
		return nil
	}
	return r.lookup(id)
}

// Cache returns what is currently held down.
func (r *Router) Cache() *EventCache { return &r.cache }

// Focus returns the focus manager.
func (r *Router) Focus() *FocusManager { return r.focus }

// Dragging reports whether a pointer drag is in progress.
func (r *Router) Dragging() bool { return r.drag.active }

// takeMessages returns the queued messages in emission order.
func (r *Router) takeMessages() []emitted {
	m := r.messages
	r.messages = nil
	return m
}

// HandleInput applies one raw input. Inputs are applied in arrival order
// and every handler they trigger has returned when HandleInput does.
func (r *Router) HandleInput(in Input) {
	if r.root == nil {
		return
	}
	switch in.Kind {
	case InputMouseMove:
		r.mouseMove(in.Pos)
	case InputMouseDown:
		r.mouseDown(in.Button)
	case InputMouseUp:
		r.mouseUp(in.Button)
	case InputScroll:
		r.wheel(in.Delta)
	case InputKeyDown:
		r.cache.keyDown(in.Key)
		e := r.event(EventKeyDown)
		e.key, e.repeat = in.Key, in.Repeat
		r.dispatch(e, r.focus.Focused(), true)
	case InputKeyUp:
		held := r.cache.keyUp(in.Key)
		if held {
			e := r.event(EventKeyPress)
			e.key = in.Key
			r.dispatch(e, r.focus.Focused(), true)
		}
		e := r.event(EventKeyUp)
		e.key = in.Key
		r.dispatch(e, r.focus.Focused(), true)
	case InputText:
		// Shortcuts are not text.
		if r.cache.mods&(ModCtrl|ModAlt|ModSuper) != 0 || in.Text == "" {
			return
		}
		e := r.event(EventTextEntry)
		e.text = in.Text
		r.dispatch(e, r.focus.Focused(), true)
	case InputWindowFocus:
		if !in.Focused {
			if r.drag.active {
				r.endDrag(r.cache.pointer)
			}
			r.press.active = false
			r.cache.clear()
		}
	case InputMouseLeaveWindow:
		r.leaveAll()
		if r.drag.active {
			r.endDrag(r.cache.pointer)
		}
		r.press.active = false
	case InputTimer:
		r.root.Walk(func(n *Node) bool {
			r.dispatch(r.event(EventTick), n, false)
			return true
		})
	case InputDragEnter:
		r.osDrag.active = true
		r.osDrag.data = in.Data
		r.osDrag.target = 0
	case InputDragOver:
		r.dragOver(in.Pos)
	case InputDragLeave:
		if t := r.node(r.osDrag.target); t != nil {
			r.dispatch(r.dropEvent(EventDragLeave, r.cache.pointer), t, false)
		}
		r.resetOSDrag()
	case InputDrop:
		target := r.node(r.osDrag.target)
		if target == nil {
			target = r.root
		}
		if t := r.node(r.osDrag.target); t != nil {
			r.dispatch(r.dropEvent(EventDragLeave, in.Pos), t, false)
		}
		r.dispatch(r.dropEvent(EventDrop, in.Pos), target, true)
		r.resetOSDrag()
	}
}

func (r *Router) event(t EventType) *Event {
	e := acquireEvent(t, r.now(), r.window)
	e.position = r.cache.pointer
	return e
}

// ============================================================================
// Hit Testing
// ============================================================================

// HitTest returns the node under p: the one with the greatest z, then the
// deepest, then the last in tree order. Nodes clipped away by a scrolling
// ancestor are skipped.
func (r *Router) HitTest(p geom.Point) *Node {
	if r.root == nil {
		return nil
	}
	var best *Node
	bestDepth := -1
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n.aabb.Contains(p) && (!n.clipped || n.clip.Contains(p)) {
			if best == nil || n.z > best.z || (n.z == best.z && depth >= bestDepth) {
				best, bestDepth = n, depth
			}
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(r.root, 0)
	return best
}

// ============================================================================
// Mouse Event Dispatch
// ============================================================================

func (r *Router) mouseMove(p geom.Point) {
	r.cache.pointer = p
	target := r.HitTest(p)

	if r.press.active && !r.drag.active && p.Dist(r.press.pos) > DragThreshold {
		r.startDrag()
	}

	r.dispatch(r.event(EventMouseMove), target, true)

	if r.drag.active {
		if src := r.node(r.drag.source); src != nil {
			e := r.event(EventDrag)
			e.button = r.drag.button
			e.delta = p.Sub(r.drag.start)
			e.step = p.Sub(r.drag.last)
			r.dispatch(e, src, true)
		}
		r.drag.last = p
		return
	}
	r.updateHover(target)
}

// startDrag promotes the current press to a drag when a node on the press
// chain opts in with DragStarter.
func (r *Router) startDrag() {
	var src *Node
	for n := r.node(r.press.target); n != nil; n = n.parent {
		if _, ok := n.component.(DragStarter); ok {
			src = n
			break
		}
	}
	if src == nil {
		return
	}
	r.drag.active = true
	r.drag.button = r.press.button
	r.drag.source = src.id
	r.drag.start = r.press.pos
	r.drag.last = r.press.pos

	e := r.event(EventDragStart)
	e.position, e.button = r.press.pos, r.press.button
	r.dispatch(e, src, true)

	e = r.event(EventDrag)
	e.position, e.button = r.press.pos, r.press.button
	r.dispatch(e, src, true)
}

func (r *Router) endDrag(p geom.Point) {
	if src := r.node(r.drag.source); src != nil {
		e := r.event(EventDragEnd)
		e.position = p
		e.button = r.drag.button
		e.delta = p.Sub(r.drag.start)
		e.step = p.Sub(r.drag.last)
		r.dispatch(e, src, true)
	}
	r.drag.active = false
	r.drag.source = 0
}

func (r *Router) mouseDown(b MouseButton) {
	r.cache.buttonDown(b)
	p := r.cache.pointer
	target := r.HitTest(p)

	r.press.active = true
	r.press.button = b
	r.press.pos = p
	r.press.target = 0
	if target != nil {
		r.press.target = target.id
	}

	e := r.event(EventMouseDown)
	e.button = b
	r.dispatch(e, target, true)
}

func (r *Router) mouseUp(b MouseButton) {
	r.cache.buttonUp(b)
	p := r.cache.pointer
	target := r.HitTest(p)

	e := r.event(EventMouseUp)
	e.button = b
	r.dispatch(e, target, true)

	wasPress := r.press.active && r.press.button == b
	pressed := r.press.target
	if wasPress {
		r.press.active = false
	}
	dragged := r.drag.active && r.drag.button == b
	if dragged {
		start := r.drag.start
		r.endDrag(p)
		if p.Dist(start) >= DragClickDistance {
			return
		}
	}
	if !wasPress || target == nil || target.id != pressed {
		return
	}

	now := r.now()
	double := !dragged && b == MouseButtonLeft && r.lastClick.valid &&
		r.lastClick.target == target.id &&
		now.Sub(r.lastClick.at) < DoubleClickInterval &&
		p.Dist(r.lastClick.pos) <= DoubleClickDistance
	if double {
		r.lastClick.valid = false
		e := r.event(EventDoubleClick)
		e.button = b
		r.dispatch(e, target, true)
	} else {
		if b == MouseButtonLeft {
			r.lastClick.valid = true
			r.lastClick.at = now
			r.lastClick.pos = p
			r.lastClick.target = target.id
		}
		e := r.event(EventClick)
		e.button = b
		r.dispatch(e, target, true)
	}

	// Clicking outside the focused node blurs it. Focus is read after the
	// click handlers ran.
	if f := r.focus.Focused(); f != nil && f != r.root && !f.IsAncestorOf(target) {
		r.setFocus(nil)
	}
}

func (r *Router) wheel(d geom.Point) {
	target := r.HitTest(r.cache.pointer)
	if target == nil {
		return
	}
	e := r.event(EventMouseWheel)
	e.scrollDelta = d
	if !r.dispatch(e, target, true) {
		r.defaultScroll(target, d)
	}
}

// defaultScroll scrolls the nearest scrolling ancestor that can still move
// in the wheel's direction.
func (r *Router) defaultScroll(target *Node, d geom.Point) {
	for n := target; n != nil; n = n.parent {
		if !n.Layout.Scrolls() {
			continue
		}
		cur := scrollOf(n)
		want := clampScroll(n, cur.Add(d))
		if !want.Equal(cur) {
			r.setScroll(n, want)
			return
		}
	}
}

// updateHover sends MouseLeave to nodes no longer under the pointer,
// deepest first, then MouseEnter to newly covered ones, outermost first.
func (r *Router) updateHover(target *Node) {
	var chain []*Node
	if target != nil {
		chain = acquireChain(target)
		defer releaseChain(chain)
	}

	now := acquireHoverSet()
	defer releaseHoverSet(now)
	for _, n := range chain {
		now[n.id] = true
	}
	before := acquireHoverSet()
	defer releaseHoverSet(before)
	for _, id := range r.hover {
		before[id] = true
	}

	for i := len(r.hover) - 1; i >= 0; i-- {
		if now[r.hover[i]] {
			continue
		}
		if n := r.node(r.hover[i]); n != nil {
			r.dispatch(r.event(EventMouseLeave), n, false)
		}
	}
	for _, n := range chain {
		if !before[n.id] {
			r.dispatch(r.event(EventMouseEnter), n, false)
		}
	}

	r.hover = r.hover[:0]
	for _, n := range chain {
		r.hover = append(r.hover, n.id)
	}
}

// Hovered returns the node IDs under the pointer, outermost first.
func (r *Router) Hovered() []NodeID { return r.hover }

func (r *Router) leaveAll() {
	for i := len(r.hover) - 1; i >= 0; i-- {
		if n := r.node(r.hover[i]); n != nil {
			r.dispatch(r.event(EventMouseLeave), n, false)
		}
	}
	r.hover = r.hover[:0]
}

// ============================================================================
// Drag and Drop from Outside
// ============================================================================

func (r *Router) dropEvent(t EventType, p geom.Point) *Event {
	e := r.event(t)
	e.position = p
	e.data = r.osDrag.data
	return e
}

func (r *Router) dragOver(p geom.Point) {
	r.cache.pointer = p
	if !r.osDrag.active {
		r.osDrag.active = true
	}
	target := r.HitTest(p)
	r.dispatch(r.dropEvent(EventDragTarget, p), target, true)

	var accept *Node
	for n := target; n != nil; n = n.parent {
		if dt, ok := n.component.(DropTarget); ok && dt.AcceptsDrop(r.osDrag.data) {
			accept = n
			break
		}
	}
	r.window.SetDropTargetValid(accept != nil)

	var id NodeID
	if accept != nil {
		id = accept.id
	}
	if id == r.osDrag.target {
		return
	}
	if old := r.node(r.osDrag.target); old != nil {
		r.dispatch(r.dropEvent(EventDragLeave, p), old, false)
	}
	r.osDrag.target = id
	if accept != nil {
		r.dispatch(r.dropEvent(EventDragEnter, p), accept, false)
	}
}

func (r *Router) resetOSDrag() {
	r.osDrag.active = false
	r.osDrag.data = nil
	r.osDrag.target = 0
	r.window.SetDropTargetValid(false)
}

// ============================================================================
// Focus and Scrolling
// ============================================================================

// SetFocus focuses n, sending Blur and Focus when focus moves. A nil node
// falls back to the enclosing focus context.
func (r *Router) SetFocus(n *Node) { r.setFocus(n) }

func (r *Router) setFocus(n *Node) {
	from, changed := r.focus.set(n)
	if changed {
		r.focusChanged(from, r.focus.Focused())
	}
}

// focusChanged sends Blur to the old node and Focus to the new one, then
// scrolls the new one into view.
func (r *Router) focusChanged(from, to *Node) {
	if r.depth > 8 {
		r.logger.Warn("focus handlers keep moving focus, giving up",
			slog.String("node", to.Path()))
		return
	}
	r.depth++
	defer func() { r.depth-- }()

	if from != nil {
		r.dispatch(r.event(EventBlur), from, false)
	}
	if to != nil {
		r.dispatch(r.event(EventFocus), to, false)
		r.ScrollTo(to)
	}
}

func (r *Router) applySignals(sigs []signal) {
	for _, s := range sigs {
		switch s.kind {
		case signalFocus:
			r.setFocus(s.node)
		case signalBlur:
			r.setFocus(nil)
		case signalFocusRef, signalScrollToRef:
			n := r.focus.Ref(s.ref)
			if n == nil {
				r.logger.Warn("reference not found", slog.String("ref", s.ref))
				continue
			}
			if s.kind == signalFocusRef {
				r.setFocus(n)
			} else {
				r.ScrollTo(n)
			}
		case signalFocusChild, signalScrollToChild:
			n := s.node.Descend(s.path)
			if n == nil {
				r.logger.Warn("child not found", slog.String("node", s.node.Path()), slog.Any("path", s.path))
				continue
			}
			if s.kind == signalFocusChild {
				r.setFocus(n)
			} else {
				r.ScrollTo(n)
			}
		}
	}
}

// ============================================================================
// Event Dispatch Helpers
// ============================================================================

// dispatch sends e through the capture, target and bubble phases of the
// chain from the root to target. Non-bubbling events only reach the target.
// It reports whether a handler stopped bubbling or prevented the default.
// The event is released before signals are applied.
func (r *Router) dispatch(e *Event, target *Node, bubbles bool) bool {
	if target == nil {
		e.release()
		return false
	}
	e.target = target
	e.mods = r.cache.mods

	chain := acquireChain(target)
	if bubbles {
		for _, n := range chain[:len(chain)-1] {
			c, ok := n.component.(Capturer)
			if !ok {
				continue
			}
			e.phase, e.currentTarget = PhaseCapture, n
			r.call(n, e, c.HandleCapture)
			if e.bubblingStopped {
				break
			}
		}
	}

	if !e.bubblingStopped || !bubbles {
		e.phase, e.currentTarget = PhaseTarget, target
		if ds, ok := target.component.(DragStarter); ok && e.eventType == EventDragStart {
			r.call(target, e, ds.OnDragStart)
		}
		r.call(target, e, target.component.HandleEvent)
	}

	if bubbles {
		for i := len(chain) - 2; i >= 0 && !e.bubblingStopped; i-- {
			e.phase, e.currentTarget = PhaseBubble, chain[i]
			r.call(chain[i], e, chain[i].component.HandleEvent)
		}
	}
	releaseChain(chain)

	handled := e.bubblingStopped || e.defaultPrevented
	r.messages = append(r.messages, e.emitted...)
	var sigs []signal
	if len(e.signals) > 0 {
		sigs = append(sigs, e.signals...)
	}
	e.release()
	r.applySignals(sigs)
	return handled
}

// call runs a handler, recovering a panic so one failing component does not
// take down the event loop. The event continues to the remaining nodes.
func (r *Router) call(n *Node, e *Event, fn func(*Event)) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("event handler panicked",
				slog.String("event", e.eventType.String()),
				slog.String("node", n.Path()),
				slog.String("component", typeTag(n.component)),
				slog.Any("panic", p))
		}
	}()
	fn(e)
}
