package widgets

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestTextBufferEditing(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		edit       func(b *TextBuffer) bool
		want       string
		wantCursor int
		changed    bool
	}{
		{
			name:       "insert at end",
			initial:    "Hello",
			edit:       func(b *TextBuffer) bool { return b.Insert("!") },
			want:       "Hello!",
			wantCursor: 6,
			changed:    true,
		},
		{
			name:    "insert in the middle",
			initial: "Hllo",
			edit: func(b *TextBuffer) bool {
				b.SetCursor(1)
				return b.Insert("e")
			},
			want:       "Hello",
			wantCursor: 2,
			changed:    true,
		},
		{
			name:       "newlines are dropped",
			initial:    "",
			edit:       func(b *TextBuffer) bool { return b.Insert("a\r\nb\nc") },
			want:       "abc",
			wantCursor: 3,
			changed:    true,
		},
		{
			name:    "backspace at start does nothing",
			initial: "abc",
			edit: func(b *TextBuffer) bool {
				b.Home()
				return b.Delete(-1)
			},
			want:       "abc",
			wantCursor: 0,
		},
		{
			name:       "backspace",
			initial:    "abc",
			edit:       func(b *TextBuffer) bool { return b.Delete(-1) },
			want:       "ab",
			wantCursor: 2,
			changed:    true,
		},
		{
			name:    "delete forward",
			initial: "abc",
			edit: func(b *TextBuffer) bool {
				b.SetCursor(1)
				return b.Delete(1)
			},
			want:       "ac",
			wantCursor: 1,
			changed:    true,
		},
		{
			name:       "delete previous word",
			initial:    "one two  ",
			edit:       func(b *TextBuffer) bool { return b.DeleteWord(false) },
			want:       "one ",
			wantCursor: 4,
			changed:    true,
		},
		{
			name:    "delete next word",
			initial: "one two",
			edit: func(b *TextBuffer) bool {
				b.Home()
				return b.DeleteWord(true)
			},
			want:       " two",
			wantCursor: 0,
			changed:    true,
		},
		{
			name:    "multi-byte runes",
			initial: "héllo",
			edit: func(b *TextBuffer) bool {
				b.SetCursor(2)
				return b.Delete(-1)
			},
			want:       "hllo",
			wantCursor: 1,
			changed:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTextBuffer(tt.initial)
			assert.Equal(t, tt.changed, tt.edit(b))
			assert.Equal(t, tt.want, b.Text())
			assert.Equal(t, tt.wantCursor, b.Cursor())
		})
	}
}

func TestTextBufferLimits(t *testing.T) {
	t.Run("max length truncates", func(t *testing.T) {
		b := NewTextBuffer("abc")
		b.MaxLength = 5
		assert.True(t, b.Insert("defg"))
		assert.Equal(t, "abcde", b.Text())
		assert.False(t, b.Insert("x"))
	})

	t.Run("filter", func(t *testing.T) {
		b := NewTextBuffer("")
		b.Filter = unicode.IsDigit
		assert.True(t, b.Insert("a1b2"))
		assert.Equal(t, "12", b.Text())
		assert.False(t, b.Insert("xyz"))
	})
}

func TestTextBufferCursorMoves(t *testing.T) {
	b := NewTextBuffer("alpha beta gamma")
	b.Home()
	b.MoveWord(true)
	assert.Equal(t, 5, b.Cursor())
	b.MoveWord(true)
	assert.Equal(t, 10, b.Cursor())
	b.MoveWord(false)
	assert.Equal(t, 6, b.Cursor())
	b.Move(-100)
	assert.Equal(t, 0, b.Cursor())
	b.Move(100)
	assert.Equal(t, b.Len(), b.Cursor())
	assert.Equal(t, len("alpha "), b.ByteOffset(6))
}

func TestTextBufferUndoRedo(t *testing.T) {
	b := NewTextBuffer("a")
	b.Insert("b")
	b.Insert("c")
	b.Delete(-1)
	assert.Equal(t, "ab", b.Text())

	assert.True(t, b.Undo())
	assert.Equal(t, "abc", b.Text())
	assert.True(t, b.Undo())
	assert.True(t, b.Undo())
	assert.Equal(t, "a", b.Text())
	assert.False(t, b.Undo())

	assert.True(t, b.Redo())
	assert.Equal(t, "ab", b.Text())
	assert.Equal(t, 2, b.Cursor())

	b.Insert("z")
	assert.False(t, b.Redo(), "a new edit clears the redo history")
}
