package retained

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
)

// NodeID identifies a node by its structural position: the parent's ID, the
// child's key or index and the component type. It is stable across frames
// while the tree shape is.
type NodeID uint64

// Node is one element of the component tree. Nodes are built fresh by View
// each time a component is viewed; the reconciler carries state, renderables
// and scroll offsets across frames by NodeID.
type Node struct {
	component Component
	// Layout is copied from the component's node description. Changing it
	// after the node is mounted has effect on the next layout pass.
	Layout Layout

	ref          string
	key          string
	hasKey       bool
	focusable    bool
	priority     int
	focusWhenNew bool

	pushed   []*Node
	children []*Node
	parent   *Node
	index    int
	id       NodeID
	viewed   bool
	hasView  bool

	// Layout results, in logical pixels. aabb is absolute and already offset
	// by the scroll of every ancestor.
	aabb    geom.AABB
	rel     geom.Point
	size    geom.Size
	content geom.Size
	scroll  geom.Point
	z       float32
	clip    geom.AABB
	clipped bool

	// Render bookkeeping.
	needsRender  bool
	renderables  []gfx.Renderable
	renderedAABB geom.AABB
	renderScale  float32
}

// NewNode wraps a component with its layout.
func NewNode(c Component, layout Layout) *Node {
	return &Node{component: c, Layout: layout}
}

// Push appends children. Nil children are skipped so optional subtrees can
// be written inline.
func (n *Node) Push(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.pushed = append(n.pushed, c)
		}
	}
	return n
}

// Ref names the node for FocusRef and ScrollToRef.
func (n *Node) Ref(name string) *Node {
	n.ref = name
	return n
}

// Key sets a user key. Keyed siblings keep their identity when reordered.
func (n *Node) Key(k string) *Node {
	n.key = k
	n.hasKey = true
	return n
}

// Focus marks the node as a focus context with the given priority.
func (n *Node) Focus(priority int) *Node {
	n.focusable = true
	n.priority = priority
	return n
}

// FocusWhenNew gives the node focus the first frame it is mounted.
func (n *Node) FocusWhenNew() *Node {
	n.focusWhenNew = true
	return n
}

// Component returns the component mounted at the node.
func (n *Node) Component() Component { return n.component }

// ID returns the structural identity of the node.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the reconciled children.
func (n *Node) Children() []*Node { return n.children }

// Child returns the i-th reconciled child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Name returns the node's ref name.
func (n *Node) Name() string { return n.ref }

// AABB returns the laid out box in logical pixels. Z is the draw order.
func (n *Node) AABB() geom.AABB {
	a := n.aabb
	a.Pos.Z = n.z
	return a
}

// Z returns the draw order of the node.
func (n *Node) Z() float32 { return n.z }

// Scroll returns the clamped scroll offset.
func (n *Node) Scroll() geom.Point { return n.scroll }

// ContentSize returns the extent of the children, used to clamp scrolling.
func (n *Node) ContentSize() geom.Size { return n.content }

// Renderables returns what the node rendered last.
func (n *Node) Renderables() []gfx.Renderable { return n.renderables }

// Path returns the node's structural path from the root, like "0.2.1".
func (n *Node) Path() string {
	var idx []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		idx = append(idx, strconv.Itoa(cur.index))
	}
	if len(idx) == 0 {
		return "root"
	}
	for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
		idx[i], idx[j] = idx[j], idx[i]
	}
	return strings.Join(idx, ".")
}

// Walk calls fn for n and every descendant in tree order. Returning false
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node, in tree order, with the given ref.
func (n *Node) Find(ref string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ref == ref {
			found = c
			return false
		}
		return true
	})
	return found
}

// Descend follows a path of child indices.
func (n *Node) Descend(path []int) *Node {
	cur := n
	for _, i := range path {
		cur = cur.Child(i)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// IsAncestorOf reports whether n is o or one of o's ancestors.
func (n *Node) IsAncestorOf(o *Node) bool {
	for cur := o; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// chain returns the path from the root to n.
func (n *Node) chain() []*Node {
	var c []*Node
	for cur := n; cur != nil; cur = cur.parent {
		c = append(c, cur)
	}
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
	return c
}

// ============================================================================
// Identity
// ============================================================================

const rootID NodeID = 1

func childID(parent NodeID, child *Node, index int) NodeID {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(parent))
	h.Write(b[:])
	if child.hasKey {
		h.Write([]byte("k:"))
		h.Write([]byte(child.key))
	} else {
		h.Write([]byte("i:"))
		h.Write([]byte(strconv.Itoa(index)))
	}
	h.Write([]byte{0})
	h.Write([]byte(typeTag(child.component)))
	return NodeID(h.Sum64())
}

// insertAt appends pushed children to the node at path inside view.
func insertAt(view *Node, path []int, pushed []*Node) {
	target := view
	for _, i := range path {
		if i < 0 || i >= len(target.pushed) {
			break
		}
		target = target.pushed[i]
	}
	target.pushed = append(target.pushed, pushed...)
}
