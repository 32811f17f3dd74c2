package retained

import (
	"log/slog"
	"reflect"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

// Message is any value a component emits for its ancestors' Update.
type Message any

// Component is a node of the declarative tree. Embed Base (or State) to get
// no-op defaults and override what is needed.
//
// A component either describes children with View or draws itself with
// Render. It may do both: Render draws behind the children.
type Component interface {
	// Init runs once, when the component is first mounted.
	Init()
	// View returns the subtree this component expands to, or nil for leaves.
	View() *Node
	// Render returns the primitives to draw for this node.
	Render(ctx RenderContext) []gfx.Renderable
	// Update handles a message emitted by a descendant and returns the
	// messages it did not handle, which continue to the next ancestor.
	Update(msg Message) []Message
	// HandleEvent receives target and bubble phase events.
	HandleEvent(e *Event)
	// TakeState moves the retained state out of the component.
	TakeState() any
	// ReplaceState installs state taken from the previous instance. Values
	// of the wrong type are dropped.
	ReplaceState(s any)

	base() *Base
}

// Capturer receives capture phase events, root first, before the target.
type Capturer interface {
	HandleCapture(e *Event)
}

// DragStarter opts a component in to drag synthesis. Once the pointer moves
// past the drag threshold with a button held, OnDragStart is called and the
// component receives the Drag and DragEnd events that follow.
type DragStarter interface {
	OnDragStart(e *Event)
}

// Measurer reports the intrinsic content size of a leaf, excluding padding.
type Measurer interface {
	Measure(ctx MeasureContext) geom.Size
}

// Container names the path, inside the component's own View, where children
// pushed onto its node are inserted. An empty path is the view root.
type Container interface {
	ContainerPath() []int
}

// Scroller stores the scroll offset of a node with ScrollX or ScrollY set.
// Layout clamps the offset and writes it back.
type Scroller interface {
	ScrollPosition() geom.Point
	SetScrollPosition(p geom.Point)
}

// PropsEqualer replaces the reflective props comparison.
type PropsEqualer interface {
	PropsEqual(other Component) bool
}

// DropTarget accepts data dragged in from outside the window.
type DropTarget interface {
	AcceptsDrop(data []Data) bool
}

// RenderContext is passed to Render.
type RenderContext struct {
	// AABB is the node's box in physical pixels. AABB.Pos.Z is its z.
	AABB geom.AABB
	// Content is the size of the children of a scrolling node, in physical
	// pixels.
	Content geom.Size
	Caches  *cache.Caches
	// Prev holds what the node rendered last time, for handle reuse.
	Prev  []gfx.Renderable
	Scale float32
	// Focused is true when this node holds keyboard focus.
	Focused bool
}

// MeasureContext is passed to Measure. Sizes are logical.
type MeasureContext struct {
	MaxWidth  float32
	MaxHeight float32
	Fonts     *cache.FontCache
}

// ============================================================================
// Base
// ============================================================================

// Base provides the default component behavior.
type Base struct {
	dirty bool
	node  *Node
}

func (b *Base) Init()                                   {}
func (b *Base) View() *Node                             { return nil }
func (b *Base) Render(RenderContext) []gfx.Renderable   { return nil }
func (b *Base) Update(msg Message) []Message            { return []Message{msg} }
func (b *Base) HandleEvent(*Event)                      {}
func (b *Base) TakeState() any                          { return nil }
func (b *Base) ReplaceState(any)                        {}
func (b *Base) base() *Base                             { return b }

// MarkDirty schedules the component to be viewed and rendered again.
func (b *Base) MarkDirty() { b.dirty = true }

// IsDirty reports whether the component changed since the last frame.
func (b *Base) IsDirty() bool { return b.dirty }

// Node returns the node the component is mounted at, or nil before mount.
func (b *Base) Node() *Node { return b.node }

// ============================================================================
// State
// ============================================================================

// State is a Base with a typed state slot that survives reconciliation.
//
//	type Counter struct {
//		retained.State[counterState]
//		Label string
//	}
type State[S any] struct {
	Base
	state *S
}

// StateRef returns the state for reading, allocating a zero value if needed.
func (s *State[S]) StateRef() *S {
	if s.state == nil {
		s.state = new(S)
	}
	return s.state
}

// StateMut returns the state for writing and marks the component dirty.
func (s *State[S]) StateMut() *S {
	s.dirty = true
	return s.StateRef()
}

// SetState replaces the state. Usually called from Init.
func (s *State[S]) SetState(v S) {
	s.state = &v
}

func (s *State[S]) TakeState() any {
	if s.state == nil {
		return nil
	}
	st := s.state
	s.state = nil
	return st
}

func (s *State[S]) ReplaceState(v any) {
	if st, ok := v.(*S); ok {
		s.state = st
		return
	}
	if v != nil {
		slog.Debug("dropping state of a different type",
			slog.String("want", reflect.TypeFor[*S]().String()),
			slog.String("got", reflect.TypeOf(v).String()))
	}
}

// ============================================================================
// Props comparison
// ============================================================================

// propsEqual compares the exported non-func fields of two components of the
// same type. Embedded Base and State are skipped.
func propsEqual(a, b Component) bool {
	if pe, ok := a.(PropsEqualer); ok {
		return pe.PropsEqual(b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Pointer {
		va, vb = va.Elem(), vb.Elem()
	}
	if va.Kind() != reflect.Struct {
		return reflect.DeepEqual(a, b)
	}
	t := va.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() == reflect.Func || isBaseField(f) {
			continue
		}
		if !reflect.DeepEqual(va.Field(i).Interface(), vb.Field(i).Interface()) {
			return false
		}
	}
	return true
}

// refreshFuncs copies the exported func fields of next into cur so a kept
// instance calls the callbacks of the latest view.
func refreshFuncs(cur, next Component) {
	vc, vn := reflect.ValueOf(cur), reflect.ValueOf(next)
	if vc.Kind() != reflect.Pointer || vc.Type() != vn.Type() {
		return
	}
	vc, vn = vc.Elem(), vn.Elem()
	if vc.Kind() != reflect.Struct {
		return
	}
	t := vc.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Type.Kind() == reflect.Func {
			vc.Field(i).Set(vn.Field(i))
		}
	}
}

var baseType = reflect.TypeFor[Base]()

func isBaseField(f reflect.StructField) bool {
	if !f.Anonymous {
		return false
	}
	if f.Type == baseType {
		return true
	}
	// State[S] embeds Base as its first field.
	return f.Type.Kind() == reflect.Struct && f.Type.NumField() > 0 && f.Type.Field(0).Type == baseType
}

// typeTag identifies a component type for node identity.
func typeTag(c Component) string {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
