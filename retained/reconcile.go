package retained

import "log/slog"

// Stats reports what one reconciliation did.
type Stats struct {
	// Nodes is the size of the resulting tree.
	Nodes int
	// Created counts components mounted for the first time.
	Created int
	// Dirty counts retained components that were viewed again because they
	// were marked dirty or their props changed.
	Dirty int
	// Removed counts nodes that left the tree. Their state is dropped.
	Removed int
}

// Reconciler binds each frame's View output to the retained component
// instances of the previous frame.
//
// Identity is structural: a child matches the previous child with the same
// NodeID, derived from the parent, the user key or position, and the type.
// A matching component whose props are unchanged and which is not dirty is
// kept as is, with only its callbacks refreshed. Otherwise the new instance
// takes over the old one's state.
type Reconciler struct {
	root   *Node
	nodes  map[NodeID]*Node
	logger *slog.Logger

	// mounted lists the nodes created in the last pass, in tree order.
	mounted []*Node
}

// NewReconciler creates an empty reconciler.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{nodes: map[NodeID]*Node{}, logger: logger}
}

// Root returns the tree built by the last Reconcile.
func (r *Reconciler) Root() *Node { return r.root }

// Lookup returns the node with the given ID in the current tree.
func (r *Reconciler) Lookup(id NodeID) *Node { return r.nodes[id] }

// Mounted returns the nodes created by the last Reconcile.
func (r *Reconciler) Mounted() []*Node { return r.mounted }

// Reconcile views every dirty or new component under root and returns the
// resulting tree. Passing the same root instance again keeps it.
func (r *Reconciler) Reconcile(root Component) (*Node, Stats) {
	var st Stats
	n := &Node{component: root, id: rootID}
	if r.root != nil && r.root.component == root {
		n = r.root
	} else if r.root != nil {
		n.Layout = r.root.Layout
	}

	prev := r.nodes
	next := make(map[NodeID]*Node, len(prev))
	r.mounted = r.mounted[:0]
	r.visit(n, prev, next, &st)

	for id, old := range prev {
		if _, ok := next[id]; ok {
			continue
		}
		st.Removed++
		old.component.TakeState()
		old.component.base().node = nil
	}
	r.root, r.nodes = n, next
	st.Nodes = len(next)
	if st.Removed > 0 || st.Created > 0 {
		r.logger.Debug("reconciled", slog.Int("nodes", st.Nodes), slog.Int("created", st.Created),
			slog.Int("dirty", st.Dirty), slog.Int("removed", st.Removed))
	}
	return n, st
}

// visit resolves the component of n against the previous frame and expands
// its children.
func (r *Reconciler) visit(n *Node, prev, next map[NodeID]*Node, st *Stats) {
	old := prev[n.id]
	fresh := old == nil
	changed := false
	switch {
	case fresh:
	case old == n:
	case !old.component.base().dirty && propsEqual(old.component, n.component):
		refreshFuncs(old.component, n.component)
		n.component = old.component
	default:
		if old.component != n.component {
			n.component.ReplaceState(old.component.TakeState())
		}
		changed = true
	}
	if !fresh && old != n {
		n.viewed = old.viewed
		n.scroll = old.scroll
		n.renderables = old.renderables
		n.renderedAABB = old.renderedAABB
		n.renderScale = old.renderScale
	}

	c := n.component
	b := c.base()
	b.node = n
	if fresh {
		c.Init()
		st.Created++
		r.mounted = append(r.mounted, n)
	}
	dirty := b.dirty || changed
	if dirty && !fresh {
		st.Dirty++
	}
	b.dirty = false
	n.needsRender = n.needsRender || fresh || dirty
	next[n.id] = n

	// A clean component with no pushed children keeps its old subtree.
	if !fresh && !dirty && n.viewed && len(n.pushed) == 0 && (old == n || len(old.pushed) == 0) {
		if old != n {
			n.children, n.hasView = old.children, old.hasView
		}
	} else {
		r.expand(n)
	}

	for i, child := range n.children {
		child.parent = n
		child.index = i
		child.id = childID(n.id, child, i)
	}
	for _, child := range n.children {
		if _, dup := next[child.id]; dup {
			r.logger.Warn("duplicate node identity, sibling keys must be unique",
				slog.String("path", child.Path()), slog.String("key", child.key))
		}
		r.visit(child, prev, next, st)
	}
}

// expand builds the children of n from View and its pushed nodes.
func (r *Reconciler) expand(n *Node) {
	n.viewed = true
	view := n.component.View()
	n.hasView = view != nil
	if view == nil {
		n.children = n.pushed
		return
	}
	if len(n.pushed) > 0 {
		var path []int
		if ct, ok := n.component.(Container); ok {
			path = ct.ContainerPath()
		}
		insertAt(view, path, n.pushed)
	}
	n.children = []*Node{view}
}
