package retained

import (
	"sync"

	"github.com/agiangrant/arbor/geom"
)

// Cursor is a mouse cursor shape.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorResizeEW
	CursorResizeNS
	CursorNotAllowed
)

// Data is a clipboard or drag and drop payload.
type Data struct {
	Text   string
	Path   string
	Custom []byte
}

// Window is the platform window the UI runs in. Calls that reach the OS
// report failure through their results and never panic.
type Window interface {
	// LogicalSize is the size in device-independent pixels.
	LogicalSize() geom.Size
	// PhysicalSize is the size of the drawing surface in pixels.
	PhysicalSize() geom.PixelSize
	// ScaleFactor is physical pixels per logical pixel.
	ScaleFactor() float32
	// Redraw asks for another frame.
	Redraw()
	GetFromClipboard() (Data, bool)
	PutOnClipboard(d Data)
	SetCursor(c Cursor)
	// StartDrag begins an OS drag with the payload. It returns false when
	// the platform does not support it.
	StartDrag(d Data) bool
	// SetDropTargetValid tells the OS whether the hovered node accepts the
	// data being dragged in.
	SetDropTargetValid(valid bool)
}

// HeadlessWindow is an in-memory Window for tests and for hosts that draw
// offscreen.
type HeadlessWindow struct {
	mu        sync.Mutex
	size      geom.Size
	scale     float32
	clipboard *Data
	cursor    Cursor
	redraws   int
	dragged   []Data
	dropValid bool
}

// NewHeadlessWindow creates a window of the given logical size.
func NewHeadlessWindow(size geom.Size, scale float32) *HeadlessWindow {
	if scale <= 0 {
		scale = 1
	}
	return &HeadlessWindow{size: size, scale: scale}
}

func (w *HeadlessWindow) LogicalSize() geom.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *HeadlessWindow) PhysicalSize() geom.PixelSize {
	w.mu.Lock()
	defer w.mu.Unlock()
	return geom.PixelSize{
		Width:  uint32(w.size.Width * w.scale),
		Height: uint32(w.size.Height * w.scale),
	}
}

func (w *HeadlessWindow) ScaleFactor() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// Resize changes the logical size. Send a Resized input afterwards.
func (w *HeadlessWindow) Resize(size geom.Size) {
	w.mu.Lock()
	w.size = size
	w.mu.Unlock()
}

// SetScale changes the scale factor.
func (w *HeadlessWindow) SetScale(scale float32) {
	w.mu.Lock()
	w.scale = scale
	w.mu.Unlock()
}

func (w *HeadlessWindow) Redraw() {
	w.mu.Lock()
	w.redraws++
	w.mu.Unlock()
}

// Redraws returns how many times Redraw was called.
func (w *HeadlessWindow) Redraws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

func (w *HeadlessWindow) GetFromClipboard() (Data, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clipboard == nil {
		return Data{}, false
	}
	return *w.clipboard, true
}

func (w *HeadlessWindow) PutOnClipboard(d Data) {
	w.mu.Lock()
	w.clipboard = &d
	w.mu.Unlock()
}

func (w *HeadlessWindow) SetCursor(c Cursor) {
	w.mu.Lock()
	w.cursor = c
	w.mu.Unlock()
}

// Cursor returns the last cursor set.
func (w *HeadlessWindow) Cursor() Cursor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *HeadlessWindow) StartDrag(d Data) bool {
	w.mu.Lock()
	w.dragged = append(w.dragged, d)
	w.mu.Unlock()
	return true
}

// Dragged returns the payloads passed to StartDrag.
func (w *HeadlessWindow) Dragged() []Data {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Data(nil), w.dragged...)
}

func (w *HeadlessWindow) SetDropTargetValid(valid bool) {
	w.mu.Lock()
	w.dropValid = valid
	w.mu.Unlock()
}

// DropTargetValid returns the last value passed to SetDropTargetValid.
func (w *HeadlessWindow) DropTargetValid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropValid
}
