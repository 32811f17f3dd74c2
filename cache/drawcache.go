package cache

import (
	"cmp"
	"image"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"

	"github.com/agiangrant/arbor/geom"
)

// ============================================================================
// Glyph Draw Cache
// ============================================================================
//
// DrawCache packs rasterized glyphs into a single alpha texture. Glyphs are
// stored in rows; rows are kept in least-recently-used order so that when
// the atlas fills up the rows nobody asked for recently are evicted first.
//
// Per frame:
//   for each glyph: QueueGlyph(font, glyph)
//   CacheQueued(fonts, upload) // rasterize + upload what is missing
//   for each glyph: RectFor(font, glyph)

// Rasterizable is an outlined glyph.
type Rasterizable interface {
	// PxBounds are the integer pixel bounds of the glyph at its position.
	PxBounds() image.Rectangle
	// Draw writes coverage into dst with the glyph's top-left at at.
	Draw(dst *image.Alpha, at image.Point)
}

// GlyphOutliner turns glyphs into outlines. FontCache implements it.
// Implementations must be safe for concurrent use.
type GlyphOutliner interface {
	OutlineGlyph(font FontID, g Glyph) (Rasterizable, bool)
}

// CachedBy reports how CacheQueued made room for the queue.
type CachedBy int

const (
	// Adding means glyphs cached by earlier calls and present in this queue
	// kept their texture position.
	Adding CachedBy = iota
	// Reordering means the atlas was rebuilt and every previous texture
	// position is invalid. Renderers should re-upload the whole texture.
	Reordering
)

func (c CachedBy) String() string {
	if c == Reordering {
		return "reordering"
	}
	return "adding"
}

// Uploader receives rasterized pixels: one alpha byte per pixel, rows of
// rect.Dx() bytes.
type Uploader func(rect image.Rectangle, pixels []byte)

// lossyKey identifies glyphs close enough in scale and subpixel offset to
// share a texture.
type lossyKey struct {
	font   FontID
	glyph  GlyphID
	scale  uint32
	offset [2]uint16
}

type glyphTex struct {
	key lossyKey
	tex image.Rectangle
	// Glyph bounds minus position, divided by scale. Recovers the screen
	// rect of any glyph that shares this texture.
	relMin, relMax geom.Point
}

type row struct {
	top    int
	height int
	width  int
	dirty  bool
	glyphs []glyphTex
}

type glyphLoc struct {
	row   int
	index int
}

type queued struct {
	font  FontID
	glyph Glyph
}

// DrawCacheOptions configures a DrawCache.
type DrawCacheOptions struct {
	Width, Height     int
	ScaleTolerance    float32
	PositionTolerance float32
	PadGlyphs         bool
	Align4x4          bool
	Multithread       bool
	Logger            *slog.Logger
}

// DefaultDrawCacheOptions returns a 256x256 atlas with 0.1 px tolerances,
// padded glyphs and multithreaded rasterization.
func DefaultDrawCacheOptions() DrawCacheOptions {
	return DrawCacheOptions{
		Width:             256,
		Height:            256,
		ScaleTolerance:    0.1,
		PositionTolerance: 0.1,
		PadGlyphs:         true,
		Multithread:       true,
	}
}

// DrawCacheOption modifies DrawCacheOptions.
type DrawCacheOption func(*DrawCacheOptions)

// WithDimensions sets the atlas size. It must match the texture the
// uploader writes to.
func WithDimensions(w, h int) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.Width, o.Height = w, h }
}

// WithTolerance sets the scale and position tolerances in pixels.
func WithTolerance(scale, position float32) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.ScaleTolerance, o.PositionTolerance = scale, position }
}

// WithPadding toggles the one pixel transparent border around each glyph.
func WithPadding(pad bool) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.PadGlyphs = pad }
}

// WithAlign4x4 aligns glyph rects to 4x4 texel blocks.
func WithAlign4x4(align bool) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.Align4x4 = align }
}

// WithMultithread toggles parallel rasterization.
func WithMultithread(mt bool) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.Multithread = mt }
}

// WithLogger sets the logger for eviction and reorder traces.
func WithLogger(l *slog.Logger) DrawCacheOption {
	return func(o *DrawCacheOptions) { o.Logger = l }
}

// DrawCache is the glyph atlas. It is not safe for concurrent use; the
// UI thread owns it and only rasterization fans out.
type DrawCache struct {
	opts DrawCacheOptions

	rows map[int]*row
	// LRU order of row tops, least recently used first.
	order []int
	// Free bands of the atlas: top -> bottom and bottom -> top.
	spaceEndForStart map[int]int
	spaceStartForEnd map[int]int

	queue     []queued
	allGlyphs map[lossyKey]glyphLoc
	reorder   bool
	log       *slog.Logger
}

// NewDrawCache creates an empty atlas.
func NewDrawCache(opts ...DrawCacheOption) *DrawCache {
	o := DefaultDrawCacheOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &DrawCache{}
	d.apply(o)
	return d
}

// NewDrawCacheFrom creates an atlas from explicit options.
func NewDrawCacheFrom(o DrawCacheOptions) *DrawCache {
	d := &DrawCache{}
	d.apply(o)
	return d
}

func (d *DrawCache) apply(o DrawCacheOptions) {
	o.ScaleTolerance = math32.Max(o.ScaleTolerance, 0.001)
	o.PositionTolerance = math32.Max(o.PositionTolerance, 0.001)
	o.Multithread = o.Multithread && runtime.GOMAXPROCS(0) > 1
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	d.opts = o
	d.log = o.Logger
	d.Clear()
}

// Rebuild applies new options and clears the atlas. The queue is kept.
func (d *DrawCache) Rebuild(opts ...DrawCacheOption) {
	o := d.opts
	for _, opt := range opts {
		opt(&o)
	}
	d.apply(o)
}

// Dimensions returns the atlas size.
func (d *DrawCache) Dimensions() (w, h int) { return d.opts.Width, d.opts.Height }

// Options returns the effective options.
func (d *DrawCache) Options() DrawCacheOptions { return d.opts }

// QueueGlyph queues a glyph for the next CacheQueued call.
func (d *DrawCache) QueueGlyph(font FontID, g Glyph) {
	d.queue = append(d.queue, queued{font: font, glyph: g})
}

// ClearQueue drops queued glyphs.
func (d *DrawCache) ClearQueue() { d.queue = d.queue[:0] }

// Clear empties the atlas. The queue is kept.
func (d *DrawCache) Clear() {
	d.rows = make(map[int]*row)
	d.order = d.order[:0]
	d.spaceEndForStart = map[int]int{0: d.opts.Height}
	d.spaceStartForEnd = map[int]int{d.opts.Height: 0}
	d.allGlyphs = make(map[lossyKey]glyphLoc)
}

// Reorder makes the next CacheQueued repack the atlas from scratch.
func (d *DrawCache) Reorder() { d.reorder = true }

// Len returns the number of cached glyph textures.
func (d *DrawCache) Len() int { return len(d.allGlyphs) }

func (d *DrawCache) key(font FontID, g Glyph) lossyKey {
	off := normalizedOffset(g.Position)
	return lossyKey{
		font:  font,
		glyph: g.ID,
		scale: uint32(g.Scale/d.opts.ScaleTolerance + 0.5),
		offset: [2]uint16{
			uint16((off.X+0.5)/d.opts.PositionTolerance + 0.5),
			uint16((off.Y+0.5)/d.opts.PositionTolerance + 0.5),
		},
	}
}

// normalizedOffset maps the fractional part of p into [-0.5, 0.5].
func normalizedOffset(p geom.Point) geom.Point {
	off := geom.Pt(p.X-math32.Trunc(p.X), p.Y-math32.Trunc(p.Y))
	if off.X > 0.5 {
		off.X--
	} else if off.X < -0.5 {
		off.X++
	}
	if off.Y > 0.5 {
		off.Y--
	} else if off.Y < -0.5 {
		off.Y++
	}
	return off
}

func (d *DrawCache) touch(top int) {
	if i := slices.Index(d.order, top); i >= 0 {
		d.order = append(d.order[:i], d.order[i+1:]...)
	}
	d.order = append(d.order, top)
}

type outlined struct {
	key     lossyKey
	glyph   Glyph
	outline Rasterizable
}

type rasterJob struct {
	tex     image.Rectangle
	outline Rasterizable
}

// CacheQueued rasterizes queued glyphs that are not in the atlas and hands
// their pixels to upload. Glyphs cached by earlier calls may be evicted to
// make room, so a glyph is only guaranteed present if it was in the most
// recent queue. The queue is consumed even on failure.
//
// Errors only cost the glyphs they name. A glyph too large for the atlas is
// skipped and reported as a *QueueError wrapping ErrGlyphTooLarge after the
// rest are cached. When the queue cannot fit as a whole, the glyphs placed
// before running out of room are still uploaded and resolve in RectFor.
func (d *DrawCache) CacheQueued(fonts GlyphOutliner, upload Uploader) (CachedBy, error) {
	if d.reorder {
		d.reorder = false
		d.Clear()
		_, err := d.cacheQueued(fonts, upload)
		return Reordering, err
	}
	return d.cacheQueued(fonts, upload)
}

func (d *DrawCache) cacheQueued(fonts GlyphOutliner, upload Uploader) (CachedBy, error) {
	fromEmpty := len(d.allGlyphs) == 0
	for _, r := range d.rows {
		r.dirty = false
	}

	inUse := make(map[int]bool, len(d.rows))
	var uncached []queued
	seen := make(map[lossyKey]bool)
	for _, q := range d.queue {
		k := d.key(q.font, q.glyph)
		if loc, ok := d.allGlyphs[k]; ok {
			inUse[loc.row] = true
		} else if !seen[k] {
			seen[k] = true
			uncached = append(uncached, q)
		}
	}
	for top := range inUse {
		d.touch(top)
	}

	outlines := d.outline(fonts, uncached)
	// Tallest first packs better.
	slices.SortStableFunc(outlines, func(a, b outlined) int {
		return cmp.Compare(b.outline.PxBounds().Dy(), a.outline.PxBounds().Dy())
	})

	jobs := make([]rasterJob, 0, len(outlines))
	var tooLarge error
	for _, o := range outlines {
		bounds := o.outline.PxBounds()
		w, h := bounds.Dx(), bounds.Dy()
		if d.opts.PadGlyphs {
			w, h = w+2, h+2
		}
		aw, ah := w, h
		if d.opts.Align4x4 {
			aw, ah = (w+3)&^3, (h+3)&^3
		}
		if aw >= d.opts.Width || ah >= d.opts.Height {
			d.log.Debug("glyph larger than atlas", "font", o.key.font, "glyph", o.key.glyph, "w", aw, "h", ah)
			if tooLarge == nil {
				tooLarge = &QueueError{Font: o.key.font, Glyph: o.key.glyph, Size: [2]int{aw, ah}, Err: ErrGlyphTooLarge}
			}
			continue
		}

		top, ok := d.rowFor(aw, ah)
		if !ok {
			gap, found, err := d.evictFor(ah, inUse, fromEmpty)
			if err != nil {
				d.finish(jobs, upload)
				return Adding, &QueueError{Font: o.key.font, Glyph: o.key.glyph, Size: [2]int{aw, ah}, Err: err}
			}
			if !found {
				// Everything left is in use: repack from an empty atlas.
				d.log.Debug("glyph atlas full, reordering", "queued", len(d.queue))
				d.Clear()
				_, err := d.cacheQueued(fonts, upload)
				return Reordering, err
			}
			top = d.newRow(gap, ah)
		}

		r := d.rows[top]
		d.touch(top)
		aligned := image.Rect(r.width, top, r.width+aw, top+ah)
		unaligned := image.Rect(r.width, top, r.width+w, top+h)
		g := o.glyph
		r.glyphs = append(r.glyphs, glyphTex{
			key: o.key,
			tex: unaligned,
			relMin: geom.Pt(
				(float32(bounds.Min.X)-g.Position.X)/g.Scale,
				(float32(bounds.Min.Y)-g.Position.Y)/g.Scale,
			),
			relMax: geom.Pt(
				(float32(bounds.Max.X)-g.Position.X)/g.Scale,
				(float32(bounds.Max.Y)-g.Position.Y)/g.Scale,
			),
		})
		r.dirty = true
		r.width += aw
		inUse[top] = true
		d.allGlyphs[o.key] = glyphLoc{row: top, index: len(r.glyphs) - 1}
		jobs = append(jobs, rasterJob{tex: aligned, outline: o.outline})
	}

	d.finish(jobs, upload)
	return Adding, tooLarge
}

// finish uploads the placed glyphs and consumes the queue.
func (d *DrawCache) finish(jobs []rasterJob, upload Uploader) {
	d.rasterize(jobs, upload)
	d.queue = d.queue[:0]
}

// outline loads outlines for uncached glyphs, dropping those with no shape.
func (d *DrawCache) outline(fonts GlyphOutliner, uncached []queued) []outlined {
	out := make([]outlined, len(uncached))
	load := func(i int) {
		q := uncached[i]
		if o, ok := fonts.OutlineGlyph(q.font, q.glyph); ok {
			out[i] = outlined{key: d.key(q.font, q.glyph), glyph: q.glyph, outline: o}
		}
	}
	if d.opts.Multithread && len(uncached) > 1 {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range uncached {
			g.Go(func() error {
				load(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range uncached {
			load(i)
		}
	}
	return slices.DeleteFunc(out, func(o outlined) bool { return o.outline == nil })
}

// rowFor finds an existing row, most recently used first, tall enough for
// the glyph with enough horizontal room.
func (d *DrawCache) rowFor(w, h int) (int, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		r := d.rows[d.order[i]]
		if r.height >= h && d.opts.Width-r.width >= w {
			return r.top, true
		}
	}
	return 0, false
}

// evictFor finds a free band at least h tall, evicting least recently used
// rows that are not in use. found is false when every remaining row is in
// use and a repack from empty may still succeed.
func (d *DrawCache) evictFor(h int, inUse map[int]bool, fromEmpty bool) (gap [2]int, found bool, err error) {
	for start, end := range d.spaceEndForStart {
		if end-start >= h {
			return [2]int{start, end}, true, nil
		}
	}
	for {
		i := slices.IndexFunc(d.order, func(top int) bool { return !inUse[top] })
		if i < 0 {
			if fromEmpty {
				return gap, false, ErrNoRoomForWholeQueue
			}
			return gap, false, nil
		}
		top := d.order[i]
		d.order = append(d.order[:i], d.order[i+1:]...)
		r := d.rows[top]
		delete(d.rows, top)
		for _, g := range r.glyphs {
			delete(d.allGlyphs, g.key)
		}
		d.log.Debug("glyph atlas evicted row", "top", top, "height", r.height, "glyphs", len(r.glyphs))

		start, end := top, top+r.height
		if e, ok := d.spaceEndForStart[end]; ok {
			delete(d.spaceEndForStart, end)
			end = e
		}
		if s, ok := d.spaceStartForEnd[start]; ok {
			delete(d.spaceStartForEnd, start)
			start = s
		}
		d.spaceStartForEnd[end] = start
		d.spaceEndForStart[start] = end
		if end-start >= h {
			return [2]int{start, end}, true, nil
		}
	}
}

// newRow carves a row of height h from the top of gap.
func (d *DrawCache) newRow(gap [2]int, h int) int {
	start, end := gap[0], gap[1]
	next := start + h
	delete(d.spaceEndForStart, start)
	if next == end {
		delete(d.spaceStartForEnd, end)
	} else {
		d.spaceEndForStart[next] = end
		d.spaceStartForEnd[end] = next
	}
	d.rows[start] = &row{top: start, height: h, dirty: true}
	d.order = append(d.order, start)
	return start
}

type rasterized struct {
	rect   image.Rectangle
	pixels []byte
}

func (d *DrawCache) draw(j rasterJob) rasterized {
	dst := image.NewAlpha(image.Rect(0, 0, j.tex.Dx(), j.tex.Dy()))
	at := image.Point{}
	if d.opts.PadGlyphs {
		at = image.Pt(1, 1)
	}
	j.outline.Draw(dst, at)
	return rasterized{rect: j.tex, pixels: dst.Pix}
}

// rasterize draws jobs and uploads them on the calling goroutine. With
// more than one job and multithreading enabled, drawing fans out to a
// bounded worker group and results come back over a channel.
func (d *DrawCache) rasterize(jobs []rasterJob, upload Uploader) {
	if !d.opts.Multithread || len(jobs) < 2 {
		for _, j := range jobs {
			r := d.draw(j)
			upload(r.rect, r.pixels)
		}
		return
	}

	results := make(chan rasterized, len(jobs))
	var g errgroup.Group
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(jobs)))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, j := range jobs {
			g.Go(func() error {
				results <- d.draw(j)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()
	for r := range results {
		upload(r.rect, r.pixels)
	}
	wg.Wait()
}

// RectFor returns the texture coordinates of a cached glyph in [0,1] and
// the screen rect it should be drawn at. ok is false when the glyph has no
// outline or was not in the most recent queue.
func (d *DrawCache) RectFor(font FontID, g Glyph) (uv, screen geom.AABB, ok bool) {
	loc, found := d.allGlyphs[d.key(font, g)]
	if !found {
		return uv, screen, false
	}
	info := d.rows[loc.row].glyphs[loc.index]
	tex := info.tex
	if d.opts.PadGlyphs {
		tex = tex.Inset(1)
	}
	tw, th := float32(d.opts.Width), float32(d.opts.Height)
	uv = geom.AABB{
		Pos:         geom.Pos{X: float32(tex.Min.X) / tw, Y: float32(tex.Min.Y) / th},
		BottomRight: geom.Pt(float32(tex.Max.X)/tw, float32(tex.Max.Y)/th),
	}
	screen = geom.AABB{
		Pos: geom.Pos{
			X: info.relMin.X*g.Scale + g.Position.X,
			Y: info.relMin.Y*g.Scale + g.Position.Y,
		},
		BottomRight: geom.Pt(info.relMax.X*g.Scale+g.Position.X, info.relMax.Y*g.Scale+g.Position.Y),
	}
	return uv, screen, true
}

// DirtyRows returns the atlas bands written by the last CacheQueued call,
// merged where contiguous.
func (d *DrawCache) DirtyRows() []image.Rectangle {
	var tops []int
	for top, r := range d.rows {
		if r.dirty {
			tops = append(tops, top)
		}
	}
	slices.Sort(tops)
	var out []image.Rectangle
	for _, top := range tops {
		r := d.rows[top]
		if n := len(out); n > 0 && out[n-1].Max.Y == top {
			out[n-1].Max.Y = top + r.height
			continue
		}
		out = append(out, image.Rect(0, top, d.opts.Width, top+r.height))
	}
	return out
}
