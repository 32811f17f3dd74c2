package arbor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// NewLogger writes text records to terminals and JSON records elsewhere.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return newLogger(w, level, isTerminal(w))
}

func newLogger(w io.Writer, level slog.Level, text bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Logger builds the logger the options describe, writing to w.
func (l LogOptions) Logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if l.Level != "" {
		if err := level.UnmarshalText([]byte(l.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
		}
	}
	switch strings.ToLower(l.Format) {
	case "", "auto":
		return NewLogger(w, level), nil
	case "text":
		return newLogger(w, level, true), nil
	case "json":
		return newLogger(w, level, false), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want auto, text or json", l.Format)
	}
}

// logger returns o.Logger, or one built from o.Log writing to stderr.
func (o WindowOptions) logger() (*slog.Logger, error) {
	if o.Logger != nil {
		return o.Logger, nil
	}
	return o.Log.Logger(os.Stderr)
}
