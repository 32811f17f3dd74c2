package ebitenwin

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/retained"
)

// game implements ebiten.Game for one UI.
type game struct {
	ctx    context.Context
	win    *Window
	ui     *retained.UI
	render *renderer

	tr       translator
	snap     snapshot
	inputs   []retained.Input
	lastTick time.Time
	cursor   retained.Cursor
	list     retained.RenderList
	fresh    bool
}

func newGame(ctx context.Context, w *Window, ui *retained.UI) *game {
	return &game{
		ctx:      ctx,
		win:      w,
		ui:       ui,
		render:   newRenderer(w.logger),
		lastTick: time.Now(),
		cursor:   retained.Cursor(255),
	}
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ErrWindowClosed
	default:
	}
	if ebiten.IsWindowBeingClosed() {
		g.ui.HandleInput(retained.Exit())
	}
	if g.ui.Exited() {
		return ErrWindowClosed
	}

	if p := g.win.takePending(); p != nil {
		ebiten.SetWindowTitle(p.title)
		ebiten.SetWindowSize(int(p.size.Width), int(p.size.Height))
		applyMode(p.resizable)
	}

	if g.win.resized.Swap(false) {
		g.ui.HandleInput(retained.Resized())
	}
	poll(g.win.ScaleFactor(), g.win.LogicalSize(), &g.snap)
	g.inputs = g.tr.translate(&g.snap, g.inputs[:0])
	if now := time.Now(); now.Sub(g.lastTick) >= g.win.cfg.TickInterval {
		g.lastTick = now
		g.inputs = append(g.inputs, retained.Timer())
	}
	for _, in := range g.inputs {
		g.ui.HandleInput(in)
	}

	g.win.mu.Lock()
	cursor := g.win.cursor
	g.win.mu.Unlock()
	if cursor != g.cursor {
		g.cursor = cursor
		ebiten.SetCursorShape(cursorShape(cursor))
	}

	if g.win.redraw.Swap(false) || g.ui.NeedsFrame() {
		g.list = g.ui.Frame()
		g.fresh = true
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	caches := g.ui.Caches()
	if g.fresh {
		g.fresh = false
		caches.Write(func(c *cache.Caches) { g.render.prepare(c, g.list) })
	}
	screen.Fill(g.win.cfg.Background)
	caches.Read(func(c *cache.Caches) { g.render.draw(screen, c, g.list) })
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.win.layout(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

func (g *game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.win.layout(outsideWidth, outsideHeight)
}
