package retained

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/agiangrant/arbor/cache"
)

// DefaultTickInterval is how often hosts send Timer input.
const DefaultTickInterval = 500 * time.Millisecond

// UIOption configures a UI.
type UIOption func(*UI)

// WithLogger sets the logger shared by the reconciler, router and focus
// manager.
func WithLogger(l *slog.Logger) UIOption {
	return func(u *UI) { u.logger = l }
}

// WithClock replaces time.Now for gesture timing.
func WithClock(c Clock) UIOption {
	return func(u *UI) { u.now = c }
}

// UI drives one window: it routes input, drains messages, reconciles,
// lays out and renders. All methods must be called from the UI goroutine.
type UI struct {
	root   Component
	window Window
	caches *cache.Caches
	logger *slog.Logger
	now    Clock

	rec    *Reconciler
	focus  *FocusManager
	router *Router
	tree   *Node

	pending     []emitted
	needsFrame  bool
	exit        bool
	lastFocused NodeID
	lastScale   float32

	stats      Stats
	sweep      cache.SweepStats
	frameCount atomic.Uint64
}

// NewUI mounts root in window. The tree is reconciled and laid out
// immediately so input can be routed before the first frame.
func NewUI(root Component, window Window, caches *cache.Caches, opts ...UIOption) *UI {
	u := &UI{
		root:       root,
		window:     window,
		caches:     caches,
		now:        time.Now,
		needsFrame: true,
	}
	for _, o := range opts {
		o(u)
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	u.rec = NewReconciler(u.logger)
	u.focus = newFocusManager(u.logger)
	u.router = newRouter(u.focus, window, u.now, u.logger)
	u.rebuild()
	return u
}

// Root returns the current node tree.
func (u *UI) Root() *Node { return u.tree }

// Router returns the input router.
func (u *UI) Router() *Router { return u.router }

// Focused returns the node holding keyboard focus.
func (u *UI) Focused() *Node { return u.focus.Focused() }

// Caches returns the window caches.
func (u *UI) Caches() *cache.Caches { return u.caches }

// Stats returns what the last reconciliation did.
func (u *UI) Stats() Stats { return u.stats }

// SweepStats returns the cache slots released by the last frame.
func (u *UI) SweepStats() cache.SweepStats { return u.sweep }

// FrameCount returns how many frames were produced.
func (u *UI) FrameCount() uint64 { return u.frameCount.Load() }

// Exited reports whether an Exit input arrived.
func (u *UI) Exited() bool { return u.exit }

// HandleInput routes one input and asks the window for a frame when
// anything changed.
func (u *UI) HandleInput(in Input) {
	switch in.Kind {
	case InputResize:
		u.needsFrame = true
	case InputExit:
		u.exit = true
		return
	}
	u.router.HandleInput(in)
	if u.NeedsFrame() {
		u.window.Redraw()
	}
}

// Update sends a message to the root component's Update.
func (u *UI) Update(msg Message) {
	u.pending = append(u.pending, emitted{msg: msg})
	u.needsFrame = true
	u.window.Redraw()
}

// NeedsFrame reports whether a component is dirty, a message is queued,
// the window changed or something scrolled since the last frame.
func (u *UI) NeedsFrame() bool {
	if u.needsFrame || u.router.scrolled || len(u.pending) > 0 || len(u.router.messages) > 0 {
		return true
	}
	if u.window.ScaleFactor() != u.lastScale {
		return true
	}
	return anyDirty(u.tree)
}

func anyDirty(root *Node) bool {
	dirty := false
	root.Walk(func(n *Node) bool {
		if n.component.base().dirty {
			dirty = true
		}
		return !dirty
	})
	return dirty
}

// Frame produces the next render list: queued messages are delivered,
// dirty components viewed, the tree laid out and changed nodes rendered.
// Cache slots no longer referenced are released.
func (u *UI) Frame() RenderList {
	u.drain()
	// Focus moved by a new node sends Focus and Blur, whose handlers may
	// dirty components again; one more pass settles them.
	for pass := 0; pass < 2; pass++ {
		if !u.rebuild() {
			break
		}
		u.drain()
		if !anyDirty(u.tree) {
			break
		}
	}

	focused := u.focus.Focused()
	if focused != nil && focused.id != u.lastFocused {
		focused.needsRender = true
		if old := u.rec.Lookup(u.lastFocused); old != nil {
			old.needsRender = true
		}
		u.lastFocused = focused.id
	}

	scale := u.window.ScaleFactor()
	var list RenderList
	u.caches.Write(func(c *cache.Caches) {
		p := renderPass{caches: c, scale: scale, focused: focused, logger: u.logger}
		list = p.run(u.tree)
		u.sweep = c.Sweep()
	})
	list.Size = u.window.PhysicalSize()

	u.lastScale = scale
	u.needsFrame = false
	u.router.scrolled = false
	u.frameCount.Add(1)
	if u.sweep.Total() > 0 {
		u.logger.Debug("swept caches", slog.Int("shapes", u.sweep.Shapes), slog.Int("texts", u.sweep.Texts),
			slog.Int("rasters", u.sweep.Rasters), slog.Int("images", u.sweep.Images))
	}
	return list
}

// rebuild reconciles, carries focus over and lays out. It reports whether
// focus moved.
func (u *UI) rebuild() bool {
	root, st := u.rec.Reconcile(u.root)
	u.tree, u.stats = root, st
	u.router.setTree(root, u.rec.Lookup)
	from, to, moved := u.focus.rebuild(root, u.rec.Lookup, u.rec.Mounted())

	size := u.window.LogicalSize()
	u.caches.Read(func(c *cache.Caches) {
		ComputeLayout(root, size, c.Fonts)
	})
	if moved {
		u.router.focusChanged(from, to)
	}
	return moved
}

// drain delivers queued messages in emission order. Each message goes to
// the Update of the emitting node's ancestors, nearest first; whatever an
// Update returns continues upwards.
func (u *UI) drain() {
	msgs := append(u.pending, u.router.takeMessages()...)
	u.pending = nil
	for _, m := range msgs {
		start := u.tree
		if m.from != nil {
			start = m.from.parent
		}
		pending := []Message{m.msg}
		for n := start; n != nil && len(pending) > 0; n = n.parent {
			var next []Message
			for _, msg := range pending {
				next = append(next, u.update(n, msg)...)
			}
			pending = next
		}
		for _, msg := range pending {
			u.logger.Debug("unhandled message", slog.Any("msg", msg))
		}
	}
}

func (u *UI) update(n *Node, msg Message) (out []Message) {
	defer func() {
		if p := recover(); p != nil {
			u.logger.Error("update panicked",
				slog.String("node", n.Path()),
				slog.String("component", typeTag(n.component)),
				slog.Any("panic", p))
			out = nil
		}
	}()
	return n.component.Update(msg)
}
