package ebitenwin

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	pix := make([]byte, 4*3*3)
	for i := range pix {
		pix[i] = 0xff
	}
	whiteImage.WritePixels(pix)
}

// renderer draws render lists onto an ebiten image. The glyph atlas lives
// in one image; rasters get an image each, keyed by RasterID.
type renderer struct {
	logger *slog.Logger
	atlas  *ebiten.Image
	atlasW int
	atlasH int

	rasters map[cache.RasterID]*ebiten.Image
	seen    map[cache.RasterID]bool

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

func newRenderer(logger *slog.Logger) *renderer {
	return &renderer{
		logger:  logger,
		rasters: map[cache.RasterID]*ebiten.Image{},
		seen:    map[cache.RasterID]bool{},
	}
}

// prepare uploads glyphs and raster pixels the list needs. It must run
// with the caches write-locked.
func (r *renderer) prepare(c *cache.Caches, list retained.RenderList) {
	w, h := c.Glyphs.Dimensions()
	if r.atlas == nil || w != r.atlasW || h != r.atlasH {
		if r.atlas != nil {
			r.atlas.Deallocate()
		}
		r.atlas = ebiten.NewImage(w, h)
		r.atlasW, r.atlasH = w, h
	}
	by, err := gfx.PrepareGlyphs(c, list.Renderables(), r.upload)
	if err != nil {
		r.logger.Warn("failed to cache glyphs", slog.Any("err", err))
	}
	if by == cache.Reordering {
		r.logger.Debug("glyph atlas reordered")
	}

	clear(r.seen)
	for _, it := range list.Items {
		ras, ok := it.Renderable.(*gfx.Raster)
		if !ok {
			continue
		}
		data := c.Images.Get(ras.Raster)
		r.seen[data.ID] = true
		if _, ok := r.rasters[data.ID]; ok && !data.Dirty {
			continue
		}
		if data.Size.Width == 0 || data.Size.Height == 0 {
			continue
		}
		img := ebiten.NewImage(int(data.Size.Width), int(data.Size.Height))
		img.WritePixels(data.Data)
		r.rasters[data.ID] = img
		c.Images.MarkClean(ras.Raster)
	}
	for id, img := range r.rasters {
		if !r.seen[id] {
			img.Deallocate()
			delete(r.rasters, id)
		}
	}
}

// upload writes one band of alpha coverage into the atlas as white
// premultiplied pixels.
func (r *renderer) upload(rect image.Rectangle, pixels []byte) {
	r.atlas.SubImage(rect).(*ebiten.Image).WritePixels(alphaToRGBA(pixels))
}

func alphaToRGBA(alpha []byte) []byte {
	out := make([]byte, 4*len(alpha))
	for i, a := range alpha {
		out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = a, a, a, a
	}
	return out
}

// draw paints the list in order. Items of scrolled nodes are clipped to
// their scroll ancestors.
func (r *renderer) draw(dst *ebiten.Image, c *cache.Caches, list retained.RenderList) {
	for _, it := range list.Items {
		target := dst
		if it.Clipped {
			rect := clipRect(it.Clip)
			if rect.Empty() {
				continue
			}
			target = dst.SubImage(rect).(*ebiten.Image)
		}
		switch v := it.Renderable.(type) {
		case *gfx.Rect:
			r.drawRect(target, v)
		case *gfx.Text:
			r.drawText(target, c, v)
		case *gfx.Shape:
			r.drawShape(target, c, v)
		case *gfx.Raster:
			r.drawRaster(target, c, v)
		default:
			r.logger.Debug("unsupported renderable", slog.String("type", fmt.Sprintf("%T", v)))
		}
	}
}

func clipRect(a geom.AABB) image.Rectangle {
	return image.Rect(int(a.Pos.X), int(a.Pos.Y), int(a.BottomRight.X+0.5), int(a.BottomRight.Y+0.5))
}

func (r *renderer) drawRect(dst *ebiten.Image, rc *gfx.Rect) {
	x, y, w, h := rc.Pos.X, rc.Pos.Y, rc.Size.Width, rc.Size.Height
	if w <= 0 || h <= 0 {
		return
	}
	if rc.Radius <= 0 {
		if rc.Color.A > 0 {
			vector.DrawFilledRect(dst, x, y, w, h, rc.Color, true)
		}
		if rc.Border > 0 && rc.BorderColor.A > 0 {
			b := rc.Border
			vector.StrokeRect(dst, x+b/2, y+b/2, w-b, h-b, b, rc.BorderColor, true)
		}
		return
	}
	if rc.Color.A > 0 {
		r.path = vector.Path{}
		roundedRect(&r.path, x, y, w, h, rc.Radius)
		r.vertices, r.indices = r.path.AppendVerticesAndIndicesForFilling(r.vertices[:0], r.indices[:0])
		r.fill(dst, rc.Color)
	}
	if rc.Border > 0 && rc.BorderColor.A > 0 {
		b := rc.Border
		r.path = vector.Path{}
		roundedRect(&r.path, x+b/2, y+b/2, w-b, h-b, max(rc.Radius-b/2, 0))
		r.vertices, r.indices = r.path.AppendVerticesAndIndicesForStroke(r.vertices[:0], r.indices[:0], &vector.StrokeOptions{Width: b})
		r.fill(dst, rc.BorderColor)
	}
}

func (r *renderer) fill(dst *ebiten.Image, c geom.Color) {
	cr, cg, cb, ca := c.RGBA()
	for i := range r.vertices {
		v := &r.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(cr) / 0xffff
		v.ColorG = float32(cg) / 0xffff
		v.ColorB = float32(cb) / 0xffff
		v.ColorA = float32(ca) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		AntiAlias:      true,
		FillRule:       ebiten.NonZero,
	}
	dst.DrawTriangles(r.vertices, r.indices, whiteSubImage, op)
}

// roundedRect adds a closed rectangle with corners of radius rad to p.
func roundedRect(p *vector.Path, x, y, w, h, rad float32) {
	rad = min(rad, w/2, h/2)
	if rad <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x+w, y)
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
		p.Close()
		return
	}
	p.MoveTo(x+rad, y)
	p.ArcTo(x+w, y, x+w, y+h, rad)
	p.ArcTo(x+w, y+h, x, y+h, rad)
	p.ArcTo(x, y+h, x, y, rad)
	p.ArcTo(x, y, x+w, y, rad)
	p.Close()
}

func (r *renderer) drawText(dst *ebiten.Image, c *cache.Caches, t *gfx.Text) {
	if len(t.Glyphs) == 0 || r.atlas == nil {
		return
	}
	_, index := c.Texts.GetChunks(t.Buffer)
	r.vertices = texVertices(r.vertices[:0], c.Texts.Vertices(t.Buffer)[:4*len(t.Glyphs)], r.atlasW, r.atlasH)
	r.indices = append(r.indices[:0], c.Texts.Indices(t.Buffer)[:index.N]...)
	dst.DrawTriangles(r.vertices, r.indices, r.atlas, &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear})
}

// texVertices converts cached vertices with UVs in [0,1] into ebiten
// vertices addressing a w by h texture.
func texVertices(dst []ebiten.Vertex, src []cache.TexVertex, w, h int) []ebiten.Vertex {
	for _, v := range src {
		dst = append(dst, ebiten.Vertex{
			DstX:   v.Pos[0],
			DstY:   v.Pos[1],
			SrcX:   v.UV[0] * float32(w),
			SrcY:   v.UV[1] * float32(h),
			ColorR: v.Color[0],
			ColorG: v.Color[1],
			ColorB: v.Color[2],
			ColorA: v.Color[3],
		})
	}
	return dst
}

// drawShape fills the shape's mesh and strokes the polygon through its
// vertices.
func (r *renderer) drawShape(dst *ebiten.Image, c *cache.Caches, s *gfx.Shape) {
	vc, ic := c.Shapes.GetChunks(s.Buffer)
	if vc.N == 0 {
		return
	}
	src := c.Shapes.Vertices(s.Buffer)[:vc.N]
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		AntiAlias:      true,
	}
	if ic.N > 0 && s.Fill.A > 0 {
		r.vertices = shapeVertices(r.vertices[:0], src, s.Offset)
		r.indices = append(r.indices[:0], c.Shapes.Indices(s.Buffer)[:ic.N]...)
		dst.DrawTriangles(r.vertices, r.indices, whiteSubImage, op)
	}
	if s.StrokeWidth > 0 && s.Stroke.A > 0 && vc.N > 1 {
		r.path = vector.Path{}
		outline(&r.path, src, s.Offset)
		r.vertices, r.indices = r.path.AppendVerticesAndIndicesForStroke(r.vertices[:0], r.indices[:0], &vector.StrokeOptions{Width: s.StrokeWidth})
		r.fill(dst, s.Stroke)
	}
}

// shapeVertices converts cached shape vertices into ebiten vertices moved by
// off, with premultiplied colors sampling the white texel.
func shapeVertices(dst []ebiten.Vertex, src []cache.Vertex, off geom.Pos) []ebiten.Vertex {
	for _, v := range src {
		a := v.Color[3]
		dst = append(dst, ebiten.Vertex{
			DstX:   v.Pos[0] + off.X,
			DstY:   v.Pos[1] + off.Y,
			SrcX:   1,
			SrcY:   1,
			ColorR: v.Color[0] * a,
			ColorG: v.Color[1] * a,
			ColorB: v.Color[2] * a,
			ColorA: a,
		})
	}
	return dst
}

// outline adds the closed polygon through vs, moved by off, to p.
func outline(p *vector.Path, vs []cache.Vertex, off geom.Pos) {
	p.MoveTo(vs[0].Pos[0]+off.X, vs[0].Pos[1]+off.Y)
	for _, v := range vs[1:] {
		p.LineTo(v.Pos[0]+off.X, v.Pos[1]+off.Y)
	}
	p.Close()
}

func (r *renderer) drawRaster(dst *ebiten.Image, c *cache.Caches, ras *gfx.Raster) {
	data := c.Images.Get(ras.Raster)
	img, ok := r.rasters[data.ID]
	if !ok {
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(ras.Size.Width)/float64(b.Dx()), float64(ras.Size.Height)/float64(b.Dy()))
	op.GeoM.Translate(float64(ras.Pos.X), float64(ras.Pos.Y))
	dst.DrawImage(img, op)
}
