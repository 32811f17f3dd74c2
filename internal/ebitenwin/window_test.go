package ebitenwin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

func newTestWindow(cfg Config, device float32) *Window {
	w := New(cfg)
	w.deviceScale = func() float32 { return device }
	return w
}

func TestWindowLayout(t *testing.T) {
	w := newTestWindow(Config{Size: geom.Sz(300, 200)}, 2)
	assert.Equal(t, geom.Sz(300, 200), w.LogicalSize())

	pw, ph := w.layout(400, 250)
	assert.Equal(t, 800.0, pw)
	assert.Equal(t, 500.0, ph)
	assert.Equal(t, geom.Sz(400, 250), w.LogicalSize())
	assert.Equal(t, float32(2), w.ScaleFactor())
	assert.Equal(t, geom.PixelSize{Width: 800, Height: 500}, w.PhysicalSize())
	assert.True(t, w.resized.Swap(false))

	w.layout(400, 250)
	assert.False(t, w.resized.Load(), "an unchanged layout is not a resize")
}

func TestWindowScalePolicy(t *testing.T) {
	w := newTestWindow(Config{Scale: func(float32) float32 { return 1.5 }}, 2)
	pw, _ := w.layout(100, 100)
	assert.Equal(t, 150.0, pw)
	assert.Equal(t, float32(1.5), w.ScaleFactor())
}

func TestWindowClipboard(t *testing.T) {
	w := New(Config{})
	_, ok := w.GetFromClipboard()
	assert.False(t, ok)

	w.PutOnClipboard(retained.Data{Text: "hello"})
	d, ok := w.GetFromClipboard()
	require.True(t, ok)
	assert.Equal(t, "hello", d.Text)
	assert.False(t, w.StartDrag(d))
}

func TestWindowConfigure(t *testing.T) {
	w := New(Config{Title: "a"})
	assert.Nil(t, w.takePending())

	w.Configure("b", geom.Sz(640, 480), false)
	w.Configure("c", geom.Sz(320, 240), true)
	p := w.takePending()
	require.NotNil(t, p)
	assert.Equal(t, settings{title: "c", size: geom.Sz(320, 240), resizable: true}, *p)
	assert.Nil(t, w.takePending())
}

func TestWindowDefaults(t *testing.T) {
	w := New(Config{})
	assert.Equal(t, retained.DefaultTickInterval, w.cfg.TickInterval)
	assert.Equal(t, geom.White, w.cfg.Background)

	w.Redraw()
	assert.True(t, w.redraw.Load())
}
