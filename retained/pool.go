package retained

import "sync"

// ============================================================================
// Node Chain Pooling
// ============================================================================
//
// Dispatch builds a root-to-target chain for every pointer event, and mouse
// motion arrives many times per frame. The chains are pooled to keep event
// handling free of per-event allocations.
//
// Usage:
//   chain := acquireChain(target)
//   ... dispatch along chain ...
//   releaseChain(chain)

var chainPool = sync.Pool{
	New: func() any {
		s := make([]*Node, 0, 32)
		return &s
	},
}

// acquireChain returns the nodes from the root to n.
// Caller must call releaseChain when done.
func acquireChain(n *Node) []*Node {
	p := chainPool.Get().(*[]*Node)
	chain := (*p)[:0]
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// releaseChain returns a chain to the pool.
// The slice should not be used after calling this.
func releaseChain(chain []*Node) {
	if chain == nil {
		return
	}
	clear(chain)
	// Only pool slices up to a reasonable size to avoid memory bloat
	if cap(chain) <= 256 {
		chain = chain[:0]
		chainPool.Put(&chain)
	}
}

// ============================================================================
// Set Pooling for Hover Comparisons
// ============================================================================

var hoverSetPool = sync.Pool{
	New: func() any {
		return make(map[NodeID]bool, 32)
	},
}

// acquireHoverSet gets a map for hover chain set operations.
func acquireHoverSet() map[NodeID]bool {
	return hoverSetPool.Get().(map[NodeID]bool)
}

// releaseHoverSet returns a hover set map to the pool after clearing it.
func releaseHoverSet(m map[NodeID]bool) {
	if m == nil {
		return
	}
	clear(m)
	hoverSetPool.Put(m)
}
