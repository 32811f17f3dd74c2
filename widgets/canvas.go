package widgets

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/gfx"
	"github.com/agiangrant/arbor/retained"
)

// CanvasPixel is one pixel written to a Canvas.
type CanvasPixel struct {
	X, Y  int
	Color geom.Color
}

// Canvas is an editable RGBA bitmap. Pixels and Size seed it when it is
// mounted; without Pixels it starts filled with Fill. Later changes go
// through Reset and Set on the mounted instance, or through OnDraw while
// the left button is held over it.
type Canvas struct {
	retained.State[canvasState]

	Pixels []byte
	Size   geom.PixelSize
	Fill   geom.Color
	// Scale is how many logical pixels each canvas pixel covers. Zero
	// means one.
	Scale float32
	// OnDraw receives the canvas pixel under the pointer and returns the
	// pixels to paint.
	OnDraw func(x, y int) []CanvasPixel
}

type canvasState struct {
	data    []byte
	size    geom.PixelSize
	drawing bool
}

func (c *Canvas) Init() {
	data := make([]byte, c.Size.Area()*4)
	if c.Pixels != nil {
		copy(data, c.Pixels)
	} else {
		fill(data, c.Fill.RGBA8())
	}
	c.SetState(canvasState{data: data, size: c.Size})
}

func fill(data []byte, px color.NRGBA) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = px.R, px.G, px.B, px.A
	}
}

func (c *Canvas) scale() float32 {
	if c.Scale <= 0 {
		return 1
	}
	return c.Scale
}

// Reset replaces every pixel. data is used as is and must hold four bytes
// per pixel of size.
func (c *Canvas) Reset(data []byte, size geom.PixelSize) {
	st := c.StateMut()
	st.data, st.size = data, size
}

// Set paints one pixel and reports whether it lies on the canvas.
func (c *Canvas) Set(x, y int, col geom.Color) bool {
	st := c.StateRef()
	i, ok := st.offset(x, y)
	if !ok {
		return false
	}
	px := col.RGBA8()
	st = c.StateMut()
	st.data[i], st.data[i+1], st.data[i+2], st.data[i+3] = px.R, px.G, px.B, px.A
	return true
}

// At returns the pixel at x, y, or transparent off the canvas.
func (c *Canvas) At(x, y int) color.NRGBA {
	st := c.StateRef()
	i, ok := st.offset(x, y)
	if !ok {
		return color.NRGBA{}
	}
	return color.NRGBA{R: st.data[i], G: st.data[i+1], B: st.data[i+2], A: st.data[i+3]}
}

func (s *canvasState) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= int(s.size.Width) || y >= int(s.size.Height) {
		return 0, false
	}
	i := (y*int(s.size.Width) + x) * 4
	return i, i+3 < len(s.data)
}

func (c *Canvas) Measure(retained.MeasureContext) geom.Size {
	return c.StateRef().size.ToSize().Scale(c.scale())
}

func (c *Canvas) Render(ctx retained.RenderContext) []gfx.Renderable {
	st := c.StateRef()
	if st.size.Area() == 0 {
		return nil
	}
	return []gfx.Renderable{gfx.NewRaster(ctx.Caches, st.data, st.size, ctx.AABB.Pos, ctx.AABB.Size(),
		gfx.Prev[*gfx.Raster](ctx.Prev, 0))}
}

func (c *Canvas) HandleEvent(e *retained.Event) {
	switch e.Type() {
	case retained.EventMouseDown:
		if e.Button() == retained.MouseButtonLeft {
			c.StateRef().drawing = true
			c.draw(e)
		}
	case retained.EventMouseMove:
		if c.StateRef().drawing {
			c.draw(e)
		}
		e.StopBubbling()
	case retained.EventMouseUp:
		if e.Button() == retained.MouseButtonLeft {
			c.StateRef().drawing = false
		}
	case retained.EventMouseLeave:
		c.StateRef().drawing = false
	}
}

func (c *Canvas) draw(e *retained.Event) {
	if c.OnDraw == nil {
		return
	}
	p := e.Local().Mul(1 / c.scale())
	for _, px := range c.OnDraw(int(math32.Floor(p.X)), int(math32.Floor(p.Y))) {
		c.Set(px.X, px.Y, px.Color)
	}
}
