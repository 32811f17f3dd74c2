// Package ebitenwin runs a retained UI in a desktop window driven by
// ebiten.
package ebitenwin

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

// ErrWindowClosed ends the game loop when the window is closed, the UI
// exits or the context is cancelled.
var ErrWindowClosed = errors.New("window closed")

// Config describes the window.
type Config struct {
	Title     string
	Size      geom.Size
	Resizable bool
	// Scale picks the scale factor from the display's. Nil uses the
	// display's.
	Scale func(system float32) float32
	// TickInterval is how often Timer input is sent. Zero uses
	// retained.DefaultTickInterval.
	TickInterval time.Duration
	Background   geom.Color
	Logger       *slog.Logger
}

// settings are changes to apply on the next tick.
type settings struct {
	title     string
	size      geom.Size
	resizable bool
}

// Window is a retained.Window backed by the ebiten window. The clipboard
// is kept in the process.
type Window struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	size      geom.Size
	scale     float32
	clipboard *retained.Data
	cursor    retained.Cursor
	dropValid bool
	pending   *settings

	redraw  atomic.Bool
	resized atomic.Bool

	// deviceScale reports the display's scale factor.
	deviceScale func() float32
}

// New creates a window. Nothing is shown until Run.
func New(cfg Config) *Window {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = retained.DefaultTickInterval
	}
	if cfg.Background == (geom.Color{}) {
		cfg.Background = geom.White
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		cfg:    cfg,
		logger: logger,
		size:   cfg.Size,
		scale:  1,
		deviceScale: func() float32 {
			return float32(ebiten.Monitor().DeviceScaleFactor())
		},
	}
}

func (w *Window) LogicalSize() geom.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *Window) PhysicalSize() geom.PixelSize {
	w.mu.Lock()
	defer w.mu.Unlock()
	return physical(w.size, w.scale)
}

func physical(s geom.Size, scale float32) geom.PixelSize {
	return geom.PixelSize{
		Width:  uint32(math.Round(float64(s.Width * scale))),
		Height: uint32(math.Round(float64(s.Height * scale))),
	}
}

func (w *Window) ScaleFactor() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// Redraw asks for a frame on the next tick.
func (w *Window) Redraw() { w.redraw.Store(true) }

func (w *Window) GetFromClipboard() (retained.Data, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clipboard == nil {
		return retained.Data{}, false
	}
	return *w.clipboard, true
}

func (w *Window) PutOnClipboard(d retained.Data) {
	w.mu.Lock()
	w.clipboard = &d
	w.mu.Unlock()
}

// SetCursor records the cursor; it is applied on the next tick.
func (w *Window) SetCursor(c retained.Cursor) {
	w.mu.Lock()
	w.cursor = c
	w.mu.Unlock()
}

// StartDrag reports false: ebiten has no outgoing OS drag.
func (w *Window) StartDrag(retained.Data) bool { return false }

func (w *Window) SetDropTargetValid(valid bool) {
	w.mu.Lock()
	w.dropValid = valid
	w.mu.Unlock()
}

// Configure changes the title, size and resizability from any goroutine.
func (w *Window) Configure(title string, size geom.Size, resizable bool) {
	w.mu.Lock()
	w.pending = &settings{title: title, size: size, resizable: resizable}
	w.mu.Unlock()
}

func (w *Window) takePending() *settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := w.pending
	w.pending = nil
	return p
}

// layout records the outside size in logical pixels and returns the
// screen size in physical pixels.
func (w *Window) layout(outsideW, outsideH float64) (float64, float64) {
	scale := float32(1)
	if w.deviceScale != nil {
		scale = w.deviceScale()
	}
	if w.cfg.Scale != nil {
		scale = w.cfg.Scale(scale)
	}
	if scale <= 0 {
		scale = 1
	}
	size := geom.Sz(float32(outsideW), float32(outsideH))

	w.mu.Lock()
	changed := size != w.size || scale != w.scale
	w.size, w.scale = size, scale
	w.mu.Unlock()
	if changed {
		w.resized.Store(true)
	}
	return math.Ceil(outsideW * float64(scale)), math.Ceil(outsideH * float64(scale))
}

func applyMode(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// Run shows the window and drives ui until the window closes, the UI
// exits or ctx is done. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context, ui *retained.UI) error {
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(int(w.cfg.Size.Width), int(w.cfg.Size.Height))
	applyMode(w.cfg.Resizable)
	ebiten.SetWindowClosingHandled(true)

	g := newGame(ctx, w, ui)
	err := ebiten.RunGame(g)
	if errors.Is(err, ErrWindowClosed) {
		w.logger.Debug("window closed", slog.Uint64("frames", ui.FrameCount()))
		return nil
	}
	return err
}
