// Package arbor opens windows running a retained UI.
//
// OpenBlocking owns a desktop window and its event loop. OpenParented
// mounts a UI in a window the caller already drives, which then forwards
// input and asks for frames through the returned Embedded.
package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/internal/ebitenwin"
	"github.com/agiangrant/arbor/retained"
)

var (
	// ErrParentRequired is returned by OpenParented without a host.
	ErrParentRequired = errors.New("arbor: parent window required")
	// ErrNoRoot is returned when the root constructor is nil or returns nil.
	ErrNoRoot = errors.New("arbor: no root component")
)

// Host is a window owned by an embedding application. Present draws a
// frame; the caches hold the vertex and glyph data its renderables point
// into and are read-locked for the call.
type Host interface {
	retained.Window
	Present(list retained.RenderList, caches *cache.Caches) error
}

// session is what both entry points set up: logger, caches with fonts and
// the UI.
type session struct {
	ui     *retained.UI
	caches *cache.Caches
	logger *slog.Logger
}

func newSession(win retained.Window, newRoot func() retained.Component, opts WindowOptions) (*session, error) {
	if newRoot == nil {
		return nil, ErrNoRoot
	}
	logger, err := opts.logger()
	if err != nil {
		return nil, err
	}
	caches := cache.NewCaches(opts.Atlas.drawCache(logger)...)
	if err := loadFonts(caches, opts.Fonts); err != nil {
		return nil, err
	}
	root := newRoot()
	if root == nil {
		return nil, ErrNoRoot
	}
	ui := retained.NewUI(root, win, caches, retained.WithLogger(logger))
	logger.Debug("mounted root", slog.Int("nodes", ui.Stats().Nodes), slog.Int("fonts", len(opts.Fonts)))
	return &session{ui: ui, caches: caches, logger: logger}, nil
}

func loadFonts(caches *cache.Caches, fonts []FontOption) error {
	for _, f := range fonts {
		data := f.Data
		if len(data) == 0 {
			var err error
			data, err = os.ReadFile(f.Path)
			if err != nil {
				return fmt.Errorf("failed to read font %q: %w", f.Name, err)
			}
		}
		var addErr error
		caches.Write(func(c *cache.Caches) {
			_, addErr = c.Fonts.AddFont(f.Name, data)
		})
		if addErr != nil {
			return fmt.Errorf("font %q: %w", f.Name, addErr)
		}
	}
	return nil
}

// OpenBlocking opens a desktop window running the component newRoot
// returns and blocks until it closes. It must be called from the main
// goroutine.
//
// When opts.ConfigPath is set the file is watched and title, size and
// resizability changes are applied to the open window.
func OpenBlocking(newRoot func() retained.Component, opts WindowOptions) error {
	return OpenBlockingContext(context.Background(), newRoot, opts)
}

// OpenBlockingContext is OpenBlocking that also closes the window when
// ctx is done.
func OpenBlockingContext(ctx context.Context, newRoot func() retained.Component, opts WindowOptions) error {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	opts.Logger = logger
	win := ebitenwin.New(ebitenwin.Config{
		Title:     opts.Title,
		Size:      opts.Size(),
		Resizable: opts.Resizable,
		Scale:     opts.Scale.Resolve,
		Logger:    logger,
	})
	s, err := newSession(win, newRoot, opts)
	if err != nil {
		return err
	}
	if opts.ConfigPath != "" {
		err := WatchOptions(ctx, opts.ConfigPath, func(o WindowOptions, err error) {
			if err != nil {
				logger.Warn("failed to reload options", slog.String("path", opts.ConfigPath), slog.Any("err", err))
				return
			}
			o = o.withDefaults()
			logger.Info("reloaded options", slog.String("path", opts.ConfigPath), slog.String("title", o.Title))
			win.Configure(o.Title, o.Size(), o.Resizable)
		})
		if err != nil {
			logger.Warn("options will not be reloaded", slog.Any("err", err))
		}
	}
	return win.Run(ctx, s.ui)
}

// Embedded is a UI mounted in a host window.
type Embedded struct {
	host Host
	s    *session
}

// OpenParented mounts the component newRoot returns in parent. Title,
// size and resizability in opts are ignored; the host owns its window.
// A fixed Scale overrides the host's scale factor.
func OpenParented(parent Host, newRoot func() retained.Component, opts WindowOptions) (*Embedded, error) {
	if parent == nil {
		return nil, ErrParentRequired
	}
	if opts.Scale.Factor > 0 {
		parent = scaledHost{Host: parent, scale: opts.Scale.Factor}
	}
	s, err := newSession(parent, newRoot, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return &Embedded{host: parent, s: s}, nil
}

// HandleInput routes one input from the host.
func (e *Embedded) HandleInput(in retained.Input) { e.s.ui.HandleInput(in) }

// Update sends a message to the root component.
func (e *Embedded) Update(msg retained.Message) { e.s.ui.Update(msg) }

// NeedsFrame reports whether Frame would change anything.
func (e *Embedded) NeedsFrame() bool { return e.s.ui.NeedsFrame() }

// Frame builds the next frame and presents it.
func (e *Embedded) Frame() error {
	list := e.s.ui.Frame()
	var err error
	e.s.caches.Read(func(c *cache.Caches) {
		err = e.host.Present(list, c)
	})
	if err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}

// UI returns the mounted UI.
func (e *Embedded) UI() *retained.UI { return e.s.ui }

// Exited reports whether the host sent an Exit input.
func (e *Embedded) Exited() bool { return e.s.ui.Exited() }

// scaledHost reports a fixed scale factor and the logical size that
// follows from it.
type scaledHost struct {
	Host
	scale float32
}

func (h scaledHost) ScaleFactor() float32 { return h.scale }

func (h scaledHost) LogicalSize() geom.Size {
	px := h.Host.PhysicalSize()
	return geom.Sz(float32(px.Width)/h.scale, float32(px.Height)/h.scale)
}
