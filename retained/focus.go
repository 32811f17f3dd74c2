package retained

import "log/slog"

// FocusManager tracks keyboard focus as a stack of focus contexts.
//
// A focus context is a node marked with Node.Focus. Its priority is its own
// plus every enclosing context's, so nested contexts outrank their parents.
// The stack runs from the root to the innermost context holding the focused
// node; the root is always at the bottom.
type FocusManager struct {
	root     *Node
	lookup   func(NodeID) *Node
	active   NodeID
	stack    []NodeID
	priority map[NodeID]int
	refs     map[string][]*Node
	logger   *slog.Logger
}

func newFocusManager(logger *slog.Logger) *FocusManager {
	return &FocusManager{
		priority: map[NodeID]int{},
		refs:     map[string][]*Node{},
		logger:   logger,
	}
}

// Focused returns the focused node. Without explicit focus it is the root.
func (f *FocusManager) Focused() *Node {
	if f.root == nil {
		return nil
	}
	if n := f.node(f.active); n != nil {
		return n
	}
	return f.root
}

// Context returns the innermost focus context holding the focused node.
func (f *FocusManager) Context() *Node {
	for i := len(f.stack) - 1; i >= 0; i-- {
		if n := f.node(f.stack[i]); n != nil {
			return n
		}
	}
	return f.root
}

// Stack returns the focus contexts from the root inwards.
func (f *FocusManager) Stack() []*Node {
	out := make([]*Node, 0, len(f.stack))
	for _, id := range f.stack {
		if n := f.node(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Priority returns the inherited priority of a focus context.
func (f *FocusManager) Priority(n *Node) int { return f.priority[n.id] }

// Ref resolves a node name. When several nodes share it, the one in the
// highest priority context wins, then the one mounted last in tree order.
func (f *FocusManager) Ref(name string) *Node {
	var best *Node
	bestPri := 0
	for _, n := range f.refs[name] {
		p := f.priority[f.contextOf(n).id]
		if best == nil || p >= bestPri {
			best, bestPri = n, p
		}
	}
	return best
}

func (f *FocusManager) node(id NodeID) *Node {
	if id == 0 || f.lookup == nil {
		return nil
	}
	return f.lookup(id)
}

// contextOf returns the innermost focus context containing n, n included.
func (f *FocusManager) contextOf(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.focusable || cur.parent == nil {
			return cur
		}
	}
	return f.root
}

// contextPath lists the focus contexts from the root to ctx.
func (f *FocusManager) contextPath(ctx *Node) []NodeID {
	var ids []NodeID
	for cur := ctx; cur != nil; cur = cur.parent {
		if cur.focusable || cur.parent == nil {
			ids = append(ids, cur.id)
		}
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// rebuild indexes contexts and refs of a freshly reconciled tree and
// carries focus over. It returns the previously and newly focused nodes
// when focus moved.
//
// Resolution order: a newly mounted node asking for focus, if its context
// may take it; otherwise the previously focused node if it survived;
// otherwise the innermost surviving context of the old stack.
func (f *FocusManager) rebuild(root *Node, lookup func(NodeID) *Node, mounted []*Node) (from, to *Node, changed bool) {
	prevActive := f.active
	f.root, f.lookup = root, lookup
	clear(f.priority)
	clear(f.refs)
	f.index(root, 0)

	for _, n := range mounted {
		if n.focusWhenNew && f.mayActivate(f.contextOf(n)) {
			f.activate(n)
			break
		}
	}

	if f.active == prevActive && f.node(f.active) == nil && f.active != 0 {
		// The focused node left the tree; fall back to its closest context.
		f.active = 0
		kept := f.stack[:0]
		for _, id := range f.stack {
			if f.node(id) != nil {
				kept = append(kept, id)
			}
		}
		f.stack = kept
		if ctx := f.Context(); ctx != root {
			f.active = ctx.id
		}
	}
	if len(f.stack) == 0 || f.stack[0] != root.id {
		f.stack = append([]NodeID{root.id}, f.stack...)
	}

	if f.active == prevActive {
		return nil, nil, false
	}
	return f.node(prevActive), f.Focused(), true
}

func (f *FocusManager) index(n *Node, inherited int) {
	if n.focusable {
		inherited += n.priority
		f.priority[n.id] = inherited
	}
	if n.ref != "" {
		f.refs[n.ref] = append(f.refs[n.ref], n)
	}
	for _, c := range n.children {
		f.index(c, inherited)
	}
}

// mayActivate reports whether ctx may take focus from the current context:
// it must not have a lower priority, unless the current context encloses it.
func (f *FocusManager) mayActivate(ctx *Node) bool {
	cur := f.Context()
	if cur == nil || cur.IsAncestorOf(ctx) {
		return true
	}
	return f.priority[ctx.id] >= f.priority[cur.id]
}

func (f *FocusManager) activate(n *Node) {
	f.active = n.id
	if n.parent == nil {
		f.active = 0
	}
	f.stack = f.contextPath(f.contextOf(n))
}

// set focuses n, or the innermost context when n is nil. It returns the
// previously focused node when focus moved.
func (f *FocusManager) set(n *Node) (from *Node, changed bool) {
	old := f.Focused()
	if n == nil {
		ctx := f.Context()
		if old == ctx && len(f.stack) > 1 {
			// Blurring a context itself moves up one level.
			ctx = f.node(f.stack[len(f.stack)-2])
		}
		n = ctx
	}
	if n == nil {
		n = f.root
	}
	f.activate(n)
	if n == old {
		return nil, false
	}
	f.logger.Debug("focus", slog.String("from", old.Path()), slog.String("to", n.Path()))
	return old, true
}
