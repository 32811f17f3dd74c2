package cache

// ============================================================================
// Buffer Cache
// ============================================================================
//
// BufferCache is a slab allocator for vertex and index ranges. Renderables
// hold a BufferHandle into it and the renderer copies the backing slices to
// GPU buffers. Chunks are sized to the next power of two so a chunk freed by
// one renderable can be rebound to another of similar size without moving
// anything on the GPU.
//
// Per frame:
//   caches.Shapes.Unmark()      // start of frame
//   h = AllocOrReuseChunk(h,..) // during render, marks h
//   Register(h)                 // renderables kept from last frame
//   Sweep()                     // end of frame, unmarked chunks are free

// BufferHandle identifies a vertex chunk and an index chunk in a BufferCache.
type BufferHandle struct {
	vertex int
	index  int
}

// BufferChunk is a range of a backing slice.
type BufferChunk struct {
	// N is the number of entries in use.
	N int
	// Start is the offset of the chunk in the backing slice.
	Start int
	// MaxSize is the capacity of the chunk, always a power of two.
	MaxSize int
	// Filled is set by the renderer once the GPU copy reflects the CPU data.
	Filled bool
	// Marked chunks are live this frame.
	Marked bool
}

// End is the offset one past the used part of the chunk.
func (c BufferChunk) End() int { return c.Start + c.N }

// BufferCache holds vertices of type V and uint16 indices.
type BufferCache[V any] struct {
	vertexChunks []BufferChunk
	indexChunks  []BufferChunk
	vertices     []V
	indices      []uint16
}

// NewBufferCache creates an empty cache.
func NewBufferCache[V any]() *BufferCache[V] {
	return &BufferCache[V]{}
}

// Unmark clears every chunk's mark. Called at the start of a frame.
func (c *BufferCache[V]) Unmark() {
	for i := range c.vertexChunks {
		c.vertexChunks[i].Marked = false
	}
	for i := range c.indexChunks {
		c.indexChunks[i].Marked = false
	}
}

// Register marks the chunks of h as live.
func (c *BufferCache[V]) Register(h BufferHandle) {
	c.vertexChunks[h.vertex].Marked = true
	c.indexChunks[h.index].Marked = true
}

// AllocChunk reserves room for nVertex vertices and nIndex indices.
func (c *BufferCache[V]) AllocChunk(nVertex, nIndex int) BufferHandle {
	var h BufferHandle
	c.vertexChunks, c.vertices, h.vertex = allocChunk(c.vertexChunks, c.vertices, nVertex)
	c.indexChunks, c.indices, h.index = allocChunk(c.indexChunks, c.indices, nIndex)
	return h
}

// AllocOrReuseChunk returns h unchanged when its chunks can hold the
// requested counts, otherwise a freshly allocated handle. In both cases the
// chunks are marked and must be refilled.
func (c *BufferCache[V]) AllocOrReuseChunk(h BufferHandle, nVertex, nIndex int) BufferHandle {
	v := &c.vertexChunks[h.vertex]
	i := &c.indexChunks[h.index]
	if nVertex <= v.MaxSize && nIndex <= i.MaxSize {
		v.N, v.Filled, v.Marked = nVertex, false, true
		i.N, i.Filled, i.Marked = nIndex, false, true
		return h
	}
	return c.AllocChunk(nVertex, nIndex)
}

// SetNIndices updates how many indices of h are in use.
func (c *BufferCache[V]) SetNIndices(h BufferHandle, n int) {
	c.indexChunks[h.index].N = n
}

// GetChunks returns the vertex and index chunks of h.
func (c *BufferCache[V]) GetChunks(h BufferHandle) (vertex, index BufferChunk) {
	return c.vertexChunks[h.vertex], c.indexChunks[h.index]
}

// FillChunks records that the GPU copy of h is current.
func (c *BufferCache[V]) FillChunks(h BufferHandle) {
	c.vertexChunks[h.vertex].Filled = true
	c.indexChunks[h.index].Filled = true
}

// Vertices returns the vertex slice of h, sized to the chunk's capacity.
func (c *BufferCache[V]) Vertices(h BufferHandle) []V {
	ch := c.vertexChunks[h.vertex]
	return c.vertices[ch.Start : ch.Start+ch.MaxSize]
}

// Indices returns the index slice of h, sized to the chunk's capacity.
// Index values are relative to the start of the vertex chunk.
func (c *BufferCache[V]) Indices(h BufferHandle) []uint16 {
	ch := c.indexChunks[h.index]
	return c.indices[ch.Start : ch.Start+ch.MaxSize]
}

// VertexData exposes the whole backing vertex slice for upload.
func (c *BufferCache[V]) VertexData() []V { return c.vertices }

// IndexData exposes the whole backing index slice for upload.
func (c *BufferCache[V]) IndexData() []uint16 { return c.indices }

// Sweep resets unmarked chunks so they read as empty and returns how many
// were released. The backing slices never shrink.
func (c *BufferCache[V]) Sweep() int {
	released := 0
	for i := range c.vertexChunks {
		if !c.vertexChunks[i].Marked && c.vertexChunks[i].N != 0 {
			c.vertexChunks[i].N = 0
			c.vertexChunks[i].Filled = false
			released++
		}
	}
	for i := range c.indexChunks {
		if !c.indexChunks[i].Marked {
			c.indexChunks[i].N = 0
			c.indexChunks[i].Filled = false
		}
	}
	return released
}

// Len returns the number of vertex chunks ever allocated.
func (c *BufferCache[V]) Len() int { return len(c.vertexChunks) }

// allocChunk finds an unmarked chunk of exactly the target size or appends
// a new one at the tail of data.
func allocChunk[T any](chunks []BufferChunk, data []T, n int) ([]BufferChunk, []T, int) {
	target := nextPowerOf2(n)

	for i := range chunks {
		if !chunks[i].Marked && chunks[i].MaxSize == target {
			chunks[i].N = n
			chunks[i].Filled = false
			chunks[i].Marked = true
			return chunks, data, i
		}
	}

	start := 0
	if len(chunks) > 0 {
		last := chunks[len(chunks)-1]
		start = last.Start + last.MaxSize
	}
	data = append(data, make([]T, target)...)
	chunks = append(chunks, BufferChunk{
		N:       n,
		Start:   start,
		MaxSize: target,
		Marked:  true,
	})
	return chunks, data, len(chunks) - 1
}

// nextPowerOf2 rounds up to the next power of 2.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
