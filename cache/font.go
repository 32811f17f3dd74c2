package cache

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/agiangrant/arbor/geom"
)

// ============================================================================
// Font Cache
// ============================================================================

// SizeScale converts a logical font size to its pixel size. A 12 pt font
// lays out with 18 px lines: line height is size * SizeScale logically and
// size * SizeScale * scaleFactor physically.
const SizeScale = 1.5

// Names of the fonts every FontCache starts with.
const (
	DefaultFont = "default"
	MonoFont    = "mono"
)

// FontID indexes a font in a FontCache. The first registered font is the
// default.
type FontID int

// GlyphID is a glyph index inside one font.
type GlyphID uint16

// Glyph is a positioned, scaled glyph.
type Glyph struct {
	ID GlyphID
	// Scale is the pixel size of the em square.
	Scale float32
	// Position is the pen position on the baseline, in physical pixels.
	Position geom.Point
}

// SectionGlyph is one glyph of laid out text.
type SectionGlyph struct {
	// Section is the index of the TextSegment the glyph came from.
	Section int
	// Index is the byte offset of the glyph's cluster in the segment text.
	Index   int
	Font    FontID
	Glyph   Glyph
	Advance float32
}

// HorizontalAlign positions each line inside the layout bounds.
type HorizontalAlign int

const (
	AlignLeft HorizontalAlign = iota
	AlignCenter
	AlignRight
)

// TextSegment is a run of text with an optional size and font. A zero
// Size or empty Font falls back to the base values given to LayoutText.
type TextSegment struct {
	Text string
	Size float32
	Font string
}

// Txt builds unstyled segments from strings.
func Txt(parts ...string) []TextSegment {
	segs := make([]TextSegment, len(parts))
	for i, p := range parts {
		segs[i] = TextSegment{Text: p}
	}
	return segs
}

type fontEntry struct {
	name    string
	shaping *font.Font
	outline *sfnt.Font
	upem    float32
	ascent  float32
	descent float32
	gap     float32
}

// FontCache stores fonts and lays out text. It is safe for concurrent use:
// glyph outlining runs on rasterization workers.
type FontCache struct {
	mu      sync.RWMutex
	fonts   []fontEntry
	names   map[string]FontID
	shapers sync.Pool
	buffers sync.Pool
}

// NewFontCache creates a cache holding the bundled Go fonts under
// DefaultFont and MonoFont.
func NewFontCache() *FontCache {
	c := &FontCache{
		names: make(map[string]FontID),
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		buffers: sync.Pool{
			New: func() any { return &sfnt.Buffer{} },
		},
	}
	if _, err := c.AddFont(DefaultFont, goregular.TTF); err != nil {
		panic(err)
	}
	if _, err := c.AddFont(MonoFont, gomono.TTF); err != nil {
		panic(err)
	}
	return c
}

// AddFont parses an OpenType font and registers it under name. Registering
// an existing name replaces the font for future lookups.
func (c *FontCache) AddFont(name string, data []byte) (FontID, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidFont, name, err)
	}
	outline, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidFont, name, err)
	}

	e := fontEntry{
		name:    name,
		shaping: face.Font,
		outline: outline,
		upem:    float32(face.Upem()),
	}
	if ext, ok := face.FontHExtents(); ok {
		e.ascent, e.descent, e.gap = ext.Ascender, ext.Descender, ext.LineGap
	} else {
		e.ascent, e.descent = e.upem*0.8, -e.upem*0.2
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := FontID(len(c.fonts))
	c.fonts = append(c.fonts, e)
	c.names[name] = id
	return id, nil
}

// Lookup resolves a font name.
func (c *FontCache) Lookup(name string) (FontID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id, ok := c.names[name]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFont, name)
}

// Len returns the number of registered fonts.
func (c *FontCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fonts)
}

func (c *FontCache) fontOrDefault(name string) FontID {
	if name == "" {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id, ok := c.names[name]; ok {
		return id
	}
	return 0
}

func (c *FontCache) entry(id FontID) fontEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(c.fonts) {
		return c.fonts[0]
	}
	return c.fonts[id]
}

// LineHeight returns the physical line height of a font at a logical size.
func (c *FontCache) LineHeight(fontName string, size, scale float32) float32 {
	e := c.entry(c.fontOrDefault(fontName))
	px := size * scale * SizeScale
	return (e.ascent - e.descent + e.gap) * px / e.upem
}

// GlyphWidths returns the advance of each glyph laid out with a single
// font and size. Text inputs use it to place a cursor between glyphs.
func (c *FontCache) GlyphWidths(fontName string, size, scale float32, glyphs []SectionGlyph) []float32 {
	e := c.entry(c.fontOrDefault(fontName))
	face := font.NewFace(e.shaping)
	px := size * scale * SizeScale
	widths := make([]float32, len(glyphs))
	for i, g := range glyphs {
		widths[i] = face.HorizontalAdvance(font.GID(g.Glyph.ID)) * px / e.upem
	}
	return widths
}

// LayoutText shapes and positions segments inside bounds. Lines wrap at
// word boundaries when a word would overflow bounds.Width, and break at
// every newline. Positions are physical pixels relative to the top-left of
// bounds.
func (c *FontCache) LayoutText(segments []TextSegment, baseFont string, baseSize, scale float32, align HorizontalAlign, bounds geom.Size) []SectionGlyph {
	glyphs, _ := c.layout(segments, baseFont, baseSize, scale, align, bounds)
	return glyphs
}

// Measure returns the size the laid out text occupies.
func (c *FontCache) Measure(segments []TextSegment, baseFont string, baseSize, scale float32, bounds geom.Size) geom.Size {
	_, size := c.layout(segments, baseFont, baseSize, scale, AlignLeft, bounds)
	return size
}

type word struct {
	glyphs []SectionGlyph
	width  float32
	space  bool
	// newline forces a break before the word.
	newline bool
	ascent  float32
	descent float32
	gap     float32
}

func (c *FontCache) layout(segments []TextSegment, baseFont string, baseSize, scale float32, align HorizontalAlign, bounds geom.Size) ([]SectionGlyph, geom.Size) {
	var words []word
	for si, seg := range segments {
		fontID := c.fontOrDefault(seg.Font)
		if seg.Font == "" {
			fontID = c.fontOrDefault(baseFont)
		}
		size := seg.Size
		if size == 0 {
			size = baseSize
		}
		words = append(words, c.shapeSegment(si, seg.Text, fontID, size*scale*SizeScale)...)
	}

	maxWidth := bounds.Width
	if maxWidth <= 0 {
		maxWidth = math32.Inf(1)
	}

	type line struct {
		words   []word
		width   float32
		ascent  float32
		descent float32
		gap     float32
	}
	var lines []line
	cur := line{}
	for _, w := range words {
		if w.newline || (!w.space && len(cur.words) > 0 && cur.width+w.width > maxWidth) {
			lines = append(lines, cur)
			cur = line{}
			if w.space && !w.newline {
				continue
			}
		}
		cur.words = append(cur.words, w)
		cur.width += w.width
		cur.ascent = math32.Max(cur.ascent, w.ascent)
		cur.descent = math32.Min(cur.descent, w.descent)
		cur.gap = math32.Max(cur.gap, w.gap)
	}
	lines = append(lines, cur)

	var out []SectionGlyph
	var size geom.Size
	y := float32(0)
	for _, l := range lines {
		// Trailing spaces do not count towards alignment.
		visible := l.width
		for i := len(l.words) - 1; i >= 0 && l.words[i].space; i-- {
			visible -= l.words[i].width
		}

		x := float32(0)
		switch align {
		case AlignCenter:
			x = (bounds.Width - visible) / 2
		case AlignRight:
			x = bounds.Width - visible
		}
		baseline := y + l.ascent
		for _, w := range l.words {
			for _, g := range w.glyphs {
				g.Glyph.Position = geom.Pt(x+g.Glyph.Position.X, baseline+g.Glyph.Position.Y)
				out = append(out, g)
			}
			x += w.width
		}
		size.Width = math32.Max(size.Width, visible)
		y += l.ascent - l.descent + l.gap
	}
	size.Height = y
	if len(words) == 0 {
		size = geom.Size{}
	}
	return out, size
}

// shapeSegment shapes one segment into words. Glyph positions in the
// returned words are relative to the word's origin on the baseline.
func (c *FontCache) shapeSegment(section int, text string, id FontID, px float32) []word {
	if text == "" {
		return nil
	}
	e := c.entry(id)
	unit := px / e.upem
	m := metrics{e.ascent * unit, e.descent * unit, e.gap * unit}

	var words []word
	offset := 0
	for i, part := range strings.Split(text, "\n") {
		newline := i > 0
		if part == "" {
			if newline {
				words = append(words, word{newline: true, ascent: m.ascent, descent: m.descent, gap: m.gap})
			}
		} else {
			words = append(words, c.shapeRun(section, part, offset, id, e, px, newline, m)...)
		}
		offset += len(part) + 1
	}
	return words
}

type metrics struct {
	ascent, descent, gap float32
}

func (c *FontCache) shapeRun(section int, text string, offset int, id FontID, e fontEntry, px float32, newline bool, m metrics) []word {
	runes := []rune(text)
	offsets := make([]int, 0, len(runes))
	for i := range text {
		offsets = append(offsets, offset+i)
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(e.shaping),
		Size:      fixed.Int26_6(px*64 + 0.5),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	shaper := c.shapers.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	c.shapers.Put(shaper)

	var words []word
	cur := word{newline: newline, ascent: m.ascent, descent: m.descent, gap: m.gap}
	for _, g := range output.Glyphs {
		idx := min(g.TextIndex(), len(runes)-1)
		space := unicode.IsSpace(runes[idx])
		if space != cur.space && len(cur.glyphs) > 0 {
			words = append(words, cur)
			cur = word{ascent: m.ascent, descent: m.descent, gap: m.gap}
		}
		cur.space = space
		adv := fixedToFloat(g.Advance)
		cur.glyphs = append(cur.glyphs, SectionGlyph{
			Section: section,
			Index:   offsets[idx],
			Font:    id,
			Advance: adv,
			Glyph: Glyph{
				ID:       GlyphID(g.GlyphID),
				Scale:    px,
				Position: geom.Pt(cur.width+fixedToFloat(g.XOffset), -fixedToFloat(g.YOffset)),
			},
		})
		cur.width += adv
	}
	if len(cur.glyphs) > 0 {
		words = append(words, cur)
	}
	return words
}

// ============================================================================
// Outlines
// ============================================================================

// Outline is a glyph outline ready to rasterize.
type Outline struct {
	bounds image.Rectangle
	segs   sfnt.Segments
	off    geom.Point
}

// PxBounds returns the pixel bounds of the glyph at its position.
func (o *Outline) PxBounds() image.Rectangle { return o.bounds }

// Draw rasterizes the coverage of the outline into dst with its top-left
// corner at at.
func (o *Outline) Draw(dst *image.Alpha, at image.Point) {
	w, h := o.bounds.Dx(), o.bounds.Dy()
	z := vector.NewRasterizer(w, h)
	dx := o.off.X - float32(o.bounds.Min.X)
	dy := o.off.Y - float32(o.bounds.Min.Y)
	open := false
	for _, s := range o.segs {
		p := func(i int) (float32, float32) {
			return fixedToFloat(s.Args[i].X) + dx, fixedToFloat(s.Args[i].Y) + dy
		}
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(p(0))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(p(0))
		case sfnt.SegmentOpQuadTo:
			bx, by := p(0)
			cx, cy := p(1)
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := p(0)
			cx, cy := p(1)
			ex, ey := p(2)
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(dst, image.Rect(at.X, at.Y, at.X+w, at.Y+h), image.Opaque, image.Point{})
}

// OutlineGlyph loads the outline of g. ok is false for glyphs with no
// visible shape, such as spaces.
func (c *FontCache) OutlineGlyph(id FontID, g Glyph) (Rasterizable, bool) {
	e := c.entry(id)
	buf := c.buffers.Get().(*sfnt.Buffer)
	defer c.buffers.Put(buf)

	segs, err := e.outline.LoadGlyph(buf, sfnt.GlyphIndex(g.ID), fixed.Int26_6(g.Scale*64+0.5), nil)
	if err != nil || len(segs) == 0 {
		return nil, false
	}
	// LoadGlyph reuses buf, so keep a private copy.
	segs = append(sfnt.Segments(nil), segs...)

	fb := segs.Bounds()
	px := image.Rect(
		int(math32.Floor(fixedToFloat(fb.Min.X)+g.Position.X)),
		int(math32.Floor(fixedToFloat(fb.Min.Y)+g.Position.Y)),
		int(math32.Ceil(fixedToFloat(fb.Max.X)+g.Position.X)),
		int(math32.Ceil(fixedToFloat(fb.Max.Y)+g.Position.Y)),
	)
	if px.Empty() {
		return nil, false
	}
	return &Outline{bounds: px, segs: segs, off: g.Position}, true
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
