// Package cache holds the per-window caches shared by components and the
// renderer: vertex/index slabs, image rasters, fonts and the glyph atlas.
package cache

import (
	"sync"
)

// Vertex is a colored vertex used by tessellated shapes.
type Vertex struct {
	Pos   [3]float32
	Color [4]float32
}

// TexVertex is a textured vertex used by glyph and raster quads.
type TexVertex struct {
	Pos   [3]float32
	UV    [2]float32
	Color [4]float32
}

// Caches groups every cache of one window.
//
// The UI holds the write lock through the render phase, where components
// allocate chunks, and through sweeps and glyph caching. The renderer
// holds the read lock while it uploads and draws. Event handlers never
// touch caches.
type Caches struct {
	mu sync.RWMutex

	Shapes  *BufferCache[Vertex]
	Texts   *BufferCache[TexVertex]
	Rasters *BufferCache[TexVertex]
	Images  *RasterCache
	Fonts   *FontCache
	Glyphs  *DrawCache
}

// NewCaches creates empty caches with the bundled fonts loaded.
func NewCaches(glyphs ...DrawCacheOption) *Caches {
	return &Caches{
		Shapes:  NewBufferCache[Vertex](),
		Texts:   NewBufferCache[TexVertex](),
		Rasters: NewBufferCache[TexVertex](),
		Images:  NewRasterCache(),
		Fonts:   NewFontCache(),
		Glyphs:  NewDrawCache(glyphs...),
	}
}

// Read runs fn while the caches are frozen.
func (c *Caches) Read(fn func(*Caches)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c)
}

// Write runs fn with exclusive access.
func (c *Caches) Write(fn func(*Caches)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// Unmark clears marks on every slab. Called once at the start of a frame.
func (c *Caches) Unmark() {
	c.Shapes.Unmark()
	c.Texts.Unmark()
	c.Rasters.Unmark()
	c.Images.Unmark()
}

// SweepStats counts slots released by Sweep.
type SweepStats struct {
	Shapes, Texts, Rasters, Images int
}

// Total returns the number of released slots.
func (s SweepStats) Total() int { return s.Shapes + s.Texts + s.Rasters + s.Images }

// Sweep releases every slot that was not marked this frame.
func (c *Caches) Sweep() SweepStats {
	return SweepStats{
		Shapes:  c.Shapes.Sweep(),
		Texts:   c.Texts.Sweep(),
		Rasters: c.Rasters.Sweep(),
		Images:  c.Images.Sweep(),
	}
}
