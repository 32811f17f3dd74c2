package geom

import (
	"fmt"
	"image/color"
)

// Color is a normalized RGBA color.
type Color struct {
	R, G, B, A float32
}

// Named colors
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	LightGray   = Color{0.8, 0.8, 0.8, 1}
	DarkGray    = Color{0.25, 0.25, 0.25, 1}
)

// RGB builds an opaque color.
func RGB(r, g, b float32) Color { return Color{r, g, b, 1} }

// RGBA builds a color with alpha.
func RGBA(r, g, b, a float32) Color { return Color{r, g, b, a} }

// Hex builds a color from 0xRRGGBBAA.
func Hex(v uint32) Color {
	return Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}
}

// FromSlice accepts [r,g,b] or [r,g,b,a].
func FromSlice(c []float32) (Color, error) {
	switch len(c) {
	case 3:
		return RGB(c[0], c[1], c[2]), nil
	case 4:
		return RGBA(c[0], c[1], c[2], c[3]), nil
	default:
		return Color{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(c))
	}
}

// WithAlpha returns the color with a replaced alpha channel.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Lighten moves each channel towards white by f in [0,1].
func (c Color) Lighten(f float32) Color {
	return Color{c.R + (1-c.R)*f, c.G + (1-c.G)*f, c.B + (1-c.B)*f, c.A}
}

// Darken moves each channel towards black by f in [0,1].
func (c Color) Darken(f float32) Color {
	return Color{c.R * (1 - f), c.G * (1 - f), c.B * (1 - f), c.A}
}

// Hex returns the color packed as 0xRRGGBBAA.
func (c Color) Hex() uint32 {
	return uint32(to8(c.R))<<24 | uint32(to8(c.G))<<16 | uint32(to8(c.B))<<8 | uint32(to8(c.A))
}

// RGBA8 converts to a non-premultiplied 8-bit color.
func (c Color) RGBA8() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.RGBA8().RGBA()
}

// Array returns the channels in order, as vertex data expects.
func (c Color) Array() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

func (c Color) String() string { return fmt.Sprintf("#%08x", c.Hex()) }

func to8(v float32) uint8 {
	v = Clamp(v, 0, 1)
	return uint8(v*255 + 0.5)
}
