package gfx

import (
	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
)

// PrepareGlyphs queues the glyphs of every Text in rs into the atlas,
// rasterizes what is missing through upload and writes one textured quad
// per glyph into each Text's buffer chunk. Glyphs without an outline, or
// left out of the atlas, get an empty quad.
//
// An atlas error is returned after the quads are written, so it only costs
// the glyphs it affected. It must run with the caches write-locked. The
// returned CachedBy tells the renderer whether the whole atlas texture must
// be uploaded again.
func PrepareGlyphs(c *cache.Caches, rs []Renderable, upload cache.Uploader) (cache.CachedBy, error) {
	texts := make([]*Text, 0, len(rs))
	for _, r := range rs {
		if t, ok := r.(*Text); ok && len(t.Glyphs) > 0 {
			texts = append(texts, t)
			for _, g := range t.Glyphs {
				c.Glyphs.QueueGlyph(g.Font, offsetGlyph(g.Glyph, t.Offset))
			}
		}
	}
	if len(texts) == 0 {
		return cache.Adding, nil
	}

	by, err := c.Glyphs.CacheQueued(c.Fonts, upload)
	for _, t := range texts {
		fillQuads(c, t)
	}
	return by, err
}

func offsetGlyph(g cache.Glyph, off geom.Pos) cache.Glyph {
	g.Position = g.Position.Add(off.Point())
	return g
}

func fillQuads(c *cache.Caches, t *Text) {
	color := t.Color.Array()
	vs := c.Texts.Vertices(t.Buffer)
	for i, g := range t.Glyphs {
		quad := vs[i*4 : i*4+4]
		uv, screen, ok := c.Glyphs.RectFor(g.Font, offsetGlyph(g.Glyph, t.Offset))
		if !ok {
			clear(quad)
			continue
		}
		z := t.Offset.Z
		quad[0] = cache.TexVertex{Pos: [3]float32{screen.Pos.X, screen.Pos.Y, z}, UV: [2]float32{uv.Pos.X, uv.Pos.Y}, Color: color}
		quad[1] = cache.TexVertex{Pos: [3]float32{screen.BottomRight.X, screen.Pos.Y, z}, UV: [2]float32{uv.BottomRight.X, uv.Pos.Y}, Color: color}
		quad[2] = cache.TexVertex{Pos: [3]float32{screen.BottomRight.X, screen.BottomRight.Y, z}, UV: [2]float32{uv.BottomRight.X, uv.BottomRight.Y}, Color: color}
		quad[3] = cache.TexVertex{Pos: [3]float32{screen.Pos.X, screen.BottomRight.Y, z}, UV: [2]float32{uv.Pos.X, uv.BottomRight.Y}, Color: color}
	}
	c.Texts.SetNIndices(t.Buffer, len(t.Glyphs)*6)
}
