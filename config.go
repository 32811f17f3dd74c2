package arbor

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/arbor/cache"
	"github.com/agiangrant/arbor/geom"
)

// DefaultConfigFile is the file name `arbor init` writes.
const DefaultConfigFile = "arbor.toml"

// ScalePolicy selects the scale factor of a window: the one the system
// reports, or a fixed factor. The zero value follows the system.
//
// In option files it is written as "system" or as a number.
type ScalePolicy struct {
	Factor float32
}

// SystemScale follows the scale factor of the display.
var SystemScale = ScalePolicy{}

// FixedScale forces a scale factor.
func FixedScale(f float32) ScalePolicy { return ScalePolicy{Factor: f} }

// Resolve returns the factor to use given the system's.
func (p ScalePolicy) Resolve(system float32) float32 {
	if p.Factor > 0 {
		return p.Factor
	}
	if system > 0 {
		return system
	}
	return 1
}

func (p ScalePolicy) MarshalText() ([]byte, error) {
	if p.Factor <= 0 {
		return []byte("system"), nil
	}
	return []byte(strconv.FormatFloat(float64(p.Factor), 'g', -1, 32)), nil
}

func (p *ScalePolicy) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || strings.EqualFold(s, "system") {
		*p = SystemScale
		return nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || f <= 0 {
		return fmt.Errorf("invalid scale %q: want \"system\" or a positive number", s)
	}
	*p = FixedScale(float32(f))
	return nil
}

func (p ScalePolicy) String() string {
	b, _ := p.MarshalText()
	return string(b)
}

// FontOption registers a font under a name usable in text segments.
// Data, when non-empty, takes precedence over Path; set it from a
// go:embed variable to ship fonts inside the binary.
type FontOption struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Data []byte `toml:"-"`
}

// AtlasOptions configures the glyph atlas.
type AtlasOptions struct {
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	Tolerance float32 `toml:"tolerance"`
	Pad       bool    `toml:"pad"`
	Align     bool    `toml:"align"`
}

func (a AtlasOptions) drawCache(logger *slog.Logger) []cache.DrawCacheOption {
	d := cache.DefaultDrawCacheOptions()
	w, h := a.Width, a.Height
	if w <= 0 {
		w = d.Width
	}
	if h <= 0 {
		h = d.Height
	}
	tol := a.Tolerance
	if tol <= 0 {
		tol = d.ScaleTolerance
	}
	return []cache.DrawCacheOption{
		cache.WithDimensions(w, h),
		cache.WithTolerance(tol, tol),
		cache.WithPadding(a.Pad),
		cache.WithAlign4x4(a.Align),
		cache.WithLogger(logger),
	}
}

// LogOptions configures the logger built when WindowOptions.Logger is nil.
type LogOptions struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is auto, text or json. Auto picks text on a terminal.
	Format string `toml:"format"`
}

// WindowOptions configures a window and its UI.
type WindowOptions struct {
	Title     string      `toml:"title"`
	Width     float32     `toml:"width"`
	Height    float32     `toml:"height"`
	Resizable bool        `toml:"resizable"`
	Scale     ScalePolicy `toml:"scale"`

	Fonts []FontOption `toml:"-"`
	Atlas AtlasOptions `toml:"-"`
	Log   LogOptions   `toml:"-"`

	// ConfigPath, when set, is watched and title and size changes are
	// applied to the open window.
	ConfigPath string `toml:"-"`
	// Logger overrides Log.
	Logger *slog.Logger `toml:"-"`
}

// Size returns the logical window size.
func (o WindowOptions) Size() geom.Size { return geom.Sz(o.Width, o.Height) }

// DefaultOptions returns an 800x600 resizable window following the system
// scale.
func DefaultOptions() WindowOptions {
	d := cache.DefaultDrawCacheOptions()
	return WindowOptions{
		Title:     "arbor",
		Width:     800,
		Height:    600,
		Resizable: true,
		Atlas: AtlasOptions{
			Width:     d.Width,
			Height:    d.Height,
			Tolerance: d.ScaleTolerance,
			Pad:       d.PadGlyphs,
			Align:     d.Align4x4,
		},
		Log: LogOptions{Level: "info", Format: "auto"},
	}
}

// withDefaults fills zero sizes, titles and atlas options.
func (o WindowOptions) withDefaults() WindowOptions {
	d := DefaultOptions()
	if o.Atlas == (AtlasOptions{}) {
		o.Atlas = d.Atlas
	}
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// optionsFile is the layout of an option file.
type optionsFile struct {
	Window WindowOptions `toml:"window"`
	Fonts  []FontOption  `toml:"fonts"`
	Atlas  AtlasOptions  `toml:"atlas"`
	Log    LogOptions    `toml:"log"`
}

// ParseOptions decodes an option file. Keys it does not set keep their
// DefaultOptions value; unknown keys are an error.
func ParseOptions(data []byte) (WindowOptions, error) {
	d := DefaultOptions()
	f := optionsFile{Window: d, Atlas: d.Atlas, Log: d.Log}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return WindowOptions{}, fmt.Errorf("failed to parse options: %w", err)
	}
	o := f.Window
	o.Fonts, o.Atlas, o.Log = f.Fonts, f.Atlas, f.Log
	return o, nil
}

// LoadOptions reads an option file and sets ConfigPath to path.
func LoadOptions(path string) (WindowOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WindowOptions{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	o, err := ParseOptions(data)
	if err != nil {
		return WindowOptions{}, fmt.Errorf("%s: %w", path, err)
	}
	o.ConfigPath = path
	return o, nil
}

// MarshalOptions encodes options in the option file layout.
func MarshalOptions(o WindowOptions) ([]byte, error) {
	data, err := toml.Marshal(optionsFile{Window: o, Fonts: o.Fonts, Atlas: o.Atlas, Log: o.Log})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	return data, nil
}

// SaveOptions writes options to path.
func SaveOptions(path string, o WindowOptions) error {
	data, err := MarshalOptions(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
