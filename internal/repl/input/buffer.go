package input

import (
	"unicode"
)

// Buffer holds the line being edited and the cursor. Text is stored as runes
// and every offset is a rune index, so multi-byte characters are never split.
// The cursor always satisfies 0 <= pos <= Len().
type Buffer struct {
	runes []rune
	pos   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{runes: []rune{}}
}

// NewBufferWithText creates a buffer holding text with the cursor at the end.
func NewBufferWithText(text string) *Buffer {
	b := NewBuffer()
	b.SetText(text)
	return b
}

func (b *Buffer) Text() string {
	return string(b.runes)
}

// Len returns the length of the text in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Pos returns the cursor position.
func (b *Buffer) Pos() int {
	return b.pos
}

func (b *Buffer) IsEmpty() bool {
	return len(b.runes) == 0
}

// SetText replaces the content and moves the cursor to the end.
// It reports whether the content changed.
func (b *Buffer) SetText(text string) bool {
	changed := text != string(b.runes)
	b.runes = []rune(text)
	b.pos = len(b.runes)
	return changed
}

// Clear empties the buffer. It reports whether there was anything to clear.
func (b *Buffer) Clear() bool {
	changed := len(b.runes) > 0
	b.runes = b.runes[:0]
	b.pos = 0
	return changed
}

// SetPos moves the cursor, clamped to [0, Len()].
func (b *Buffer) SetPos(pos int) {
	b.pos = max(0, min(pos, len(b.runes)))
}

func (b *Buffer) MoveLeft() {
	b.SetPos(b.pos - 1)
}

func (b *Buffer) MoveRight() {
	b.SetPos(b.pos + 1)
}

func (b *Buffer) CursorStart() {
	b.pos = 0
}

func (b *Buffer) CursorEnd() {
	b.pos = len(b.runes)
}

func (b *Buffer) AtEnd() bool {
	return b.pos == len(b.runes)
}

// Insert inserts text at the cursor and moves the cursor past it.
func (b *Buffer) Insert(text string) bool {
	return b.InsertRunes([]rune(text))
}

// InsertRunes inserts runes at the cursor and moves the cursor past them.
func (b *Buffer) InsertRunes(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}

	result := make([]rune, 0, len(b.runes)+len(runes))
	result = append(result, b.runes[:b.pos]...)
	result = append(result, runes...)
	result = append(result, b.runes[b.pos:]...)

	b.runes = result
	b.pos += len(runes)
	return true
}

// deleteRange removes runes in [from, to) and leaves the cursor at from.
func (b *Buffer) deleteRange(from, to int) bool {
	if from >= to {
		return false
	}
	b.runes = append(b.runes[:from], b.runes[to:]...)
	b.pos = from
	return true
}

// DeleteCharBackward deletes the character before the cursor.
func (b *Buffer) DeleteCharBackward() bool {
	if b.pos == 0 {
		return false
	}
	return b.deleteRange(b.pos-1, b.pos)
}

// DeleteCharForward deletes the character under the cursor.
func (b *Buffer) DeleteCharForward() bool {
	if b.pos >= len(b.runes) {
		return false
	}
	return b.deleteRange(b.pos, b.pos+1)
}

// DeleteBeforeCursor deletes everything before the cursor.
func (b *Buffer) DeleteBeforeCursor() bool {
	return b.deleteRange(0, b.pos)
}

// DeleteAfterCursor deletes everything from the cursor to the end.
func (b *Buffer) DeleteAfterCursor() bool {
	pos := b.pos
	changed := b.deleteRange(b.pos, len(b.runes))
	b.pos = pos
	return changed
}

// DeleteWordBackward deletes the word to the left of the cursor.
func (b *Buffer) DeleteWordBackward() bool {
	return b.deleteRange(b.wordStart(), b.pos)
}

// DeleteWordForward deletes the word to the right of the cursor.
func (b *Buffer) DeleteWordForward() bool {
	return b.deleteRange(b.pos, b.wordEnd())
}

// WordBackward moves the cursor to the start of the previous word.
// A word is a run of non-whitespace characters.
func (b *Buffer) WordBackward() {
	b.pos = b.wordStart()
}

// WordForward moves the cursor past the end of the next word.
func (b *Buffer) WordForward() {
	b.pos = b.wordEnd()
}

func (b *Buffer) wordStart() int {
	i := b.pos
	for i > 0 && unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	return i
}

func (b *Buffer) wordEnd() int {
	i := b.pos
	for i < len(b.runes) && unicode.IsSpace(b.runes[i]) {
		i++
	}
	for i < len(b.runes) && !unicode.IsSpace(b.runes[i]) {
		i++
	}
	return i
}

