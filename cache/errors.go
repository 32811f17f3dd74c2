package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrGlyphTooLarge means a queued glyph cannot fit in the atlas even
	// when it is empty.
	ErrGlyphTooLarge = errors.New("glyph too large")

	// ErrNoRoomForWholeQueue means the queued glyphs do not fit together,
	// even after clearing the atlas.
	ErrNoRoomForWholeQueue = errors.New("no room for whole queue")

	// ErrUnknownFont is returned when a font name has not been registered.
	ErrUnknownFont = errors.New("unknown font")

	// ErrInvalidFont is returned when font bytes cannot be parsed.
	ErrInvalidFont = errors.New("invalid font")
)

// QueueError reports the glyph that made CacheQueued fail.
type QueueError struct {
	Font  FontID
	Glyph GlyphID
	Size  [2]int
	Err   error
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("caching glyph %d of font %d (%dx%d px): %v", e.Glyph, e.Font, e.Size[0], e.Size[1], e.Err)
}

func (e *QueueError) Unwrap() error { return e.Err }
