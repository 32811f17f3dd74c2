package widgets

import (
	"strings"
	"unicode"
)

// maxUndo bounds the undo history of a TextBuffer.
const maxUndo = 100

// TextBuffer is single-line editable text with a cursor. Positions are rune
// indices: 0 is before the first rune, Len() after the last.
type TextBuffer struct {
	content []rune
	cursor  int

	// MaxLength limits the rune count. Zero means no limit.
	MaxLength int
	// Filter, when set, drops inserted runes it returns false for.
	Filter func(r rune) bool

	undo []snapshot
	redo []snapshot
}

type snapshot struct {
	content []rune
	cursor  int
}

// NewTextBuffer creates a buffer holding text with the cursor at its end.
func NewTextBuffer(text string) *TextBuffer {
	b := &TextBuffer{}
	b.SetText(text)
	return b
}

// Text returns the content.
func (b *TextBuffer) Text() string { return string(b.content) }

// Len returns the number of runes.
func (b *TextBuffer) Len() int { return len(b.content) }

// Cursor returns the cursor position.
func (b *TextBuffer) Cursor() int { return b.cursor }

// SetText replaces the content, moves the cursor to the end and clears the
// history.
func (b *TextBuffer) SetText(text string) {
	b.content = []rune(singleLine(text))
	b.cursor = len(b.content)
	b.undo, b.redo = nil, nil
}

// SetCursor moves the cursor, clamped to the content.
func (b *TextBuffer) SetCursor(pos int) {
	b.cursor = b.clamp(pos)
}

// Insert adds text at the cursor and reports whether the content changed.
// Newlines are dropped, then the filter and the length limit apply.
func (b *TextBuffer) Insert(text string) bool {
	runes := []rune(singleLine(text))
	if b.Filter != nil {
		kept := runes[:0]
		for _, r := range runes {
			if b.Filter(r) {
				kept = append(kept, r)
			}
		}
		runes = kept
	}
	if b.MaxLength > 0 {
		room := max(b.MaxLength-len(b.content), 0)
		if len(runes) > room {
			runes = runes[:room]
		}
	}
	if len(runes) == 0 {
		return false
	}
	b.save()
	next := make([]rune, 0, len(b.content)+len(runes))
	next = append(next, b.content[:b.cursor]...)
	next = append(next, runes...)
	next = append(next, b.content[b.cursor:]...)
	b.content = next
	b.cursor += len(runes)
	return true
}

// Delete removes count runes after the cursor, or -count before it when
// count is negative. It reports whether the content changed.
func (b *TextBuffer) Delete(count int) bool {
	lo, hi := b.cursor, b.clamp(b.cursor+count)
	if count < 0 {
		lo, hi = hi, b.cursor
	}
	if lo == hi {
		return false
	}
	b.save()
	b.content = append(b.content[:lo], b.content[hi:]...)
	b.cursor = lo
	return true
}

// DeleteWord removes the word before the cursor, or after it when forward.
func (b *TextBuffer) DeleteWord(forward bool) bool {
	if forward {
		return b.Delete(b.wordEnd(b.cursor) - b.cursor)
	}
	return b.Delete(b.wordStart(b.cursor) - b.cursor)
}

// Move shifts the cursor by delta runes.
func (b *TextBuffer) Move(delta int) { b.cursor = b.clamp(b.cursor + delta) }

// MoveWord moves the cursor to the next word end or the previous word start.
func (b *TextBuffer) MoveWord(forward bool) {
	if forward {
		b.cursor = b.wordEnd(b.cursor)
	} else {
		b.cursor = b.wordStart(b.cursor)
	}
}

// Home moves the cursor to the start.
func (b *TextBuffer) Home() { b.cursor = 0 }

// End moves the cursor to the end.
func (b *TextBuffer) End() { b.cursor = len(b.content) }

// Undo restores the content before the last edit.
func (b *TextBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	b.redo = append(b.redo, b.snapshot())
	b.restore(&b.undo)
	return true
}

// Redo reapplies the last undone edit.
func (b *TextBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	b.undo = append(b.undo, b.snapshot())
	b.restore(&b.redo)
	return true
}

// ByteOffset converts a rune position to a byte offset in Text().
func (b *TextBuffer) ByteOffset(pos int) int {
	n := 0
	for _, r := range b.content[:b.clamp(pos)] {
		n += len(string(r))
	}
	return n
}

func (b *TextBuffer) snapshot() snapshot {
	return snapshot{content: append([]rune(nil), b.content...), cursor: b.cursor}
}

func (b *TextBuffer) save() {
	b.undo = append(b.undo, b.snapshot())
	if len(b.undo) > maxUndo {
		b.undo = b.undo[1:]
	}
	b.redo = nil
}

func (b *TextBuffer) restore(stack *[]snapshot) {
	s := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	b.content, b.cursor = s.content, s.cursor
}

func (b *TextBuffer) clamp(pos int) int {
	return min(max(pos, 0), len(b.content))
}

func (b *TextBuffer) wordStart(pos int) int {
	for pos > 0 && unicode.IsSpace(b.content[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(b.content[pos-1]) {
		pos--
	}
	return pos
}

func (b *TextBuffer) wordEnd(pos int) int {
	n := len(b.content)
	for pos < n && unicode.IsSpace(b.content[pos]) {
		pos++
	}
	for pos < n && !unicode.IsSpace(b.content[pos]) {
		pos++
	}
	return pos
}

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return lineBreaks.Replace(s)
}
