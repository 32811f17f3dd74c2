package arbor

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("hello", slog.Int("n", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, float64(3), rec["n"])
}

func TestLogOptions(t *testing.T) {
	var buf bytes.Buffer
	l, err := LogOptions{Level: "warn", Format: "text"}.Logger(&buf)
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")

	_, err = LogOptions{Level: "loud"}.Logger(&buf)
	assert.Error(t, err)
	_, err = LogOptions{Format: "xml"}.Logger(&buf)
	assert.Error(t, err)
}

func TestOptionsLoggerOverride(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	l, err := WindowOptions{Logger: custom, Log: LogOptions{Level: "nonsense"}}.logger()
	require.NoError(t, err)
	assert.Same(t, custom, l)
}
