package cache

import (
	"hash/maphash"
	"sync/atomic"

	"github.com/agiangrant/arbor/geom"
)

// RasterID changes on every SetRaster call. Renderers compare it with the
// id they last uploaded to decide whether a texture is stale.
type RasterID uint64

var (
	rasterIDs  atomic.Uint64
	rasterSeed = maphash.MakeSeed()
)

// PixelSum hashes RGBA bytes. Slots store the sum taken at SetRaster, so
// pixels edited in place in the stored slice still compare unequal.
func PixelSum(data []byte) uint64 {
	return maphash.Bytes(rasterSeed, data)
}

func newRasterID() RasterID {
	return RasterID(rasterIDs.Add(1))
}

// RasterHandle identifies a slot in a RasterCache.
type RasterHandle struct {
	index int
}

// RasterData is one slot: RGBA bytes, their size and bookkeeping.
type RasterData struct {
	ID   RasterID
	Data []byte
	Size geom.PixelSize
	// Sum is PixelSum of Data when it was stored.
	Sum uint64
	// Dirty is set by SetRaster and cleared by the renderer after upload.
	Dirty  bool
	marked bool
}

// RasterCache is a slab of image bitmaps with the same mark/sweep rules as
// BufferCache.
type RasterCache struct {
	rasters []RasterData
}

// NewRasterCache creates an empty cache.
func NewRasterCache() *RasterCache {
	return &RasterCache{}
}

// Unmark clears every slot's mark.
func (c *RasterCache) Unmark() {
	for i := range c.rasters {
		c.rasters[i].marked = false
	}
}

// Register marks a slot as live.
func (c *RasterCache) Register(h RasterHandle) {
	c.rasters[h.index].marked = true
}

// AllocOrReuse returns prev when given, otherwise the first unmarked slot
// or a new one.
func (c *RasterCache) AllocOrReuse(prev *RasterHandle) RasterHandle {
	if prev != nil {
		c.rasters[prev.index].marked = true
		return *prev
	}
	for i := range c.rasters {
		if !c.rasters[i].marked {
			c.rasters[i].marked = true
			return RasterHandle{index: i}
		}
	}
	c.rasters = append(c.rasters, RasterData{marked: true, Dirty: true})
	return RasterHandle{index: len(c.rasters) - 1}
}

// SetRaster stores data in the slot and gives it a fresh RasterID.
func (c *RasterCache) SetRaster(h RasterHandle, data []byte, size geom.PixelSize) RasterID {
	id := newRasterID()
	c.rasters[h.index] = RasterData{
		ID:     id,
		Data:   data,
		Size:   size,
		Sum:    PixelSum(data),
		Dirty:  true,
		marked: true,
	}
	return id
}

// Get returns the slot's contents.
func (c *RasterCache) Get(h RasterHandle) *RasterData {
	return &c.rasters[h.index]
}

// MarkClean clears the dirty flag after an upload.
func (c *RasterCache) MarkClean(h RasterHandle) {
	c.rasters[h.index].Dirty = false
}

// Sweep drops the pixel data of unmarked slots and returns how many were
// released. Slots themselves are kept for reuse.
func (c *RasterCache) Sweep() int {
	released := 0
	for i := range c.rasters {
		if !c.rasters[i].marked && c.rasters[i].Data != nil {
			c.rasters[i].Data = nil
			c.rasters[i].Size = geom.PixelSize{}
			released++
		}
	}
	return released
}

// Len returns the number of slots.
func (c *RasterCache) Len() int { return len(c.rasters) }
