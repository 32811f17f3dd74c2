package widgets

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// page is a root component built from a closure.
type page struct {
	retained.Base
	build    func() *retained.Node
	received []retained.Message
}

func (p *page) View() *retained.Node { return p.build() }

func (p *page) Update(msg retained.Message) []retained.Message {
	p.received = append(p.received, msg)
	return nil
}

type harness struct {
	ui     *retained.UI
	window *retained.HeadlessWindow
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, root retained.Component, opts ...retained.UIOption) *harness {
	t.Helper()
	logs := &bytes.Buffer{}
	h := &harness{
		window: retained.NewHeadlessWindow(geom.Sz(800, 600), 1),
		logs:   logs,
	}
	opts = append([]retained.UIOption{
		retained.WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	}, opts...)
	h.ui = retained.NewUI(root, h.window, cache.NewCaches(cache.WithMultithread(false)), opts...)
	h.ui.Frame()
	return h
}

func (h *harness) input(ins ...retained.Input) {
	for _, in := range ins {
		h.ui.HandleInput(in)
	}
}

func (h *harness) click(p geom.Point) {
	h.input(retained.MouseMoved(p), retained.MousePressed(retained.MouseButtonLeft), retained.MouseReleased(retained.MouseButtonLeft))
}

func (h *harness) press(k retained.Key) {
	h.input(retained.KeyPressed(k), retained.KeyReleased(k))
}

func (h *harness) node(ref string) *retained.Node {
	return h.ui.Root().Find(ref)
}

// screen wraps children in a full-window Div.
func screen(children ...*retained.Node) *retained.Node {
	return NewDiv(retained.Layout{Size: retained.Dims(retained.Pct(100), retained.Pct(100))}).Push(children...)
}

func fixed(w, h float32) retained.Layout {
	return retained.Layout{Size: retained.Dims(retained.Px(w), retained.Px(h))}
}

func ofType[T gfx.Renderable](rs []gfx.Renderable) []T {
	var out []T
	for _, r := range rs {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// onPlatform makes keyboard conventions follow goos for the test.
func onPlatform(t *testing.T, goos string) {
	prev := retained.Platform
	retained.Platform = goos
	t.Cleanup(func() { retained.Platform = prev })
}

// find returns the first node whose component is a T matching ok.
func find[T retained.Component](root *retained.Node, ok func(T) bool) *retained.Node {
	var found *retained.Node
	root.Walk(func(n *retained.Node) bool {
		if found != nil {
			return false
		}
		if c, is := n.Component().(T); is && (ok == nil || ok(c)) {
			found = n
			return false
		}
		return true
	})
	return found
}
