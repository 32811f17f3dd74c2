package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/arbor"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.Mkdir(dir, 0o755))

	var out bytes.Buffer
	require.NoError(t, Init([]string{"-dir", dir, "-width", "1024"}, &out))
	assert.Contains(t, out.String(), "Created")

	opts, err := arbor.LoadOptions(filepath.Join(dir, arbor.DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "notes", opts.Title)
	assert.Equal(t, float32(1024), opts.Width)
	assert.Equal(t, float32(600), opts.Height)

	err = Init([]string{"-dir", dir}, &out)
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, Init([]string{"-dir", dir, "-force", "-title", "Other"}, &out))
	opts, err = arbor.LoadOptions(filepath.Join(dir, arbor.DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "Other", opts.Title)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("[window]\ntitle = \"Hi\"\nscale = 2\n\n[[fonts]]\nname = \"code\"\npath = \"code.ttf\"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Check([]string{good}, &out))
	assert.Contains(t, out.String(), "is valid")
	assert.Contains(t, out.String(), `"Hi" 800x600 scale=2`)
	assert.Contains(t, out.String(), "font:   code (code.ttf)")

	badLevel := filepath.Join(dir, "level.toml")
	require.NoError(t, os.WriteFile(badLevel, []byte("[log]\nlevel = \"shout\"\n"), 0o644))
	assert.Error(t, Check([]string{badLevel}, &out))

	assert.Error(t, Check([]string{filepath.Join(dir, "missing.toml")}, &out))
}

func TestLookupDemo(t *testing.T) {
	newRoot, err := lookupDemo("todo")
	require.NoError(t, err)
	assert.NotNil(t, newRoot())

	_, err = lookupDemo("tetris")
	assert.ErrorContains(t, err, "available: counter, todo")
}

func TestRunOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	opts, err := runOptions("", "todo")
	require.NoError(t, err)
	assert.Equal(t, "arbor: todo", opts.Title)
	assert.Empty(t, opts.ConfigPath)

	require.NoError(t, arbor.SaveOptions(arbor.DefaultConfigFile, arbor.DefaultOptions()))
	opts, err = runOptions("", "todo")
	require.NoError(t, err)
	assert.Equal(t, arbor.DefaultConfigFile, opts.ConfigPath)
}

func TestListDemos(t *testing.T) {
	var out bytes.Buffer
	ListDemos(&out)
	assert.Equal(t, "counter\ntodo\n", out.String())
}
