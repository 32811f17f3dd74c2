package retained

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

// box is a leaf or container that fills its box with Color and forwards
// events to OnEvent.
type box struct {
	Base
	Color   geom.Color
	Name    string
	OnEvent func(b *box, e *Event)
}

func (b *box) Render(ctx RenderContext) []gfx.Renderable {
	if b.Color == (geom.Color{}) {
		return nil
	}
	return []gfx.Renderable{gfx.NewRect(ctx.AABB.Pos, ctx.AABB.Size(), b.Color)}
}

func (b *box) HandleEvent(e *Event) {
	if b.OnEvent != nil {
		b.OnEvent(b, e)
	}
}

// app is a root component built from closures so each test can describe its
// own tree.
type app struct {
	Base
	build    func() *Node
	update   func(msg Message) []Message
	onEvent  func(e *Event)
	received []Message
}

func (a *app) View() *Node {
	if a.build == nil {
		return nil
	}
	return a.build()
}

func (a *app) Update(msg Message) []Message {
	a.received = append(a.received, msg)
	if a.update != nil {
		return a.update(msg)
	}
	return nil
}

func (a *app) HandleEvent(e *Event) {
	if a.onEvent != nil {
		a.onEvent(e)
	}
}

// counter keeps an int across reconciliations.
type counter struct {
	State[int]
	Label string
}

func (c *counter) HandleEvent(e *Event) {
	if e.Type() == EventClick {
		*c.StateMut()++
	}
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	ui     *UI
	window *HeadlessWindow
	clock  *fakeClock
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, root Component) *harness {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := &harness{
		window: NewHeadlessWindow(geom.Sz(800, 600), 1),
		clock:  newFakeClock(),
		logs:   logs,
	}
	h.ui = NewUI(root, h.window, cache.NewCaches(cache.WithMultithread(false)),
		WithLogger(logger), WithClock(h.clock.Now))
	h.ui.Frame()
	return h
}

func (h *harness) input(ins ...Input) {
	for _, in := range ins {
		h.ui.HandleInput(in)
	}
}

func (h *harness) click(p geom.Point) {
	h.input(MouseMoved(p), MousePressed(MouseButtonLeft), MouseReleased(MouseButtonLeft))
}

// fill is a layout that takes the whole parent.
var fill = Layout{Size: Dims(Pct(100), Pct(100))}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func fixed(w, h float32) Layout {
	return Layout{Size: Dims(Px(w), Px(h))}
}
