package arbor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor/geom"
)

func TestScalePolicyText(t *testing.T) {
	tests := []struct {
		in      string
		want    ScalePolicy
		wantErr bool
	}{
		{in: "system", want: SystemScale},
		{in: "System", want: SystemScale},
		{in: "", want: SystemScale},
		{in: "1.5", want: FixedScale(1.5)},
		{in: "2", want: FixedScale(2)},
		{in: "0", wantErr: true},
		{in: "large", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p ScalePolicy
			err := p.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
	assert.Equal(t, "system", SystemScale.String())
	assert.Equal(t, "1.25", FixedScale(1.25).String())
}

func TestScalePolicyResolve(t *testing.T) {
	assert.Equal(t, float32(2), SystemScale.Resolve(2))
	assert.Equal(t, float32(1), SystemScale.Resolve(0))
	assert.Equal(t, float32(1.5), FixedScale(1.5).Resolve(2))
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions([]byte(`
[window]
title = "Notes"
width = 1024
scale = 1.5

[[fonts]]
name = "code"
path = "fonts/code.ttf"

[atlas]
width = 512

[log]
level = "debug"
`))
	require.NoError(t, err)

	want := DefaultOptions()
	want.Title = "Notes"
	want.Width = 1024
	want.Scale = FixedScale(1.5)
	want.Fonts = []FontOption{{Name: "code", Path: "fonts/code.ttf"}}
	want.Atlas.Width = 512
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("ParseOptions() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, geom.Sz(1024, 600), o.Size())
}

func TestParseOptionsSystemScale(t *testing.T) {
	o, err := ParseOptions([]byte("[window]\nscale = \"system\"\n"))
	require.NoError(t, err)
	assert.Equal(t, SystemScale, o.Scale)
}

func TestParseOptionsErrors(t *testing.T) {
	for name, data := range map[string]string{
		"unknown key": "[window]\ncolour = \"red\"\n",
		"bad scale":   "[window]\nscale = -1\n",
		"bad syntax":  "[window\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOptions([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	o := DefaultOptions()
	o.Title = "Saved"
	o.Scale = FixedScale(2)
	o.Fonts = []FontOption{{Name: "mono", Path: "/tmp/mono.ttf"}}
	require.NoError(t, SaveOptions(path, o))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[window]")
	assert.Contains(t, string(data), "[[fonts]]")

	got, err := LoadOptions(path)
	require.NoError(t, err)
	o.ConfigPath = path
	if diff := cmp.Diff(o, got); diff != "" {
		t.Errorf("LoadOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOptionsMissing(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	o := WindowOptions{Width: 300}.withDefaults()
	assert.Equal(t, "arbor", o.Title)
	assert.Equal(t, geom.Sz(300, 600), o.Size())
	assert.Equal(t, DefaultOptions().Atlas, o.Atlas)
	assert.True(t, o.Atlas.Pad)

	custom := AtlasOptions{Width: 512, Height: 512}
	assert.Equal(t, custom, WindowOptions{Atlas: custom}.withDefaults().Atlas)
}
