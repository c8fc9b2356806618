package editor

import "github.com/willibrandon/jot/internal/buffer"

// InsertChar inserts r at the cursor and advances past it. Typing on the
// virtual row after the last line creates that row first.
func InsertChar(buf *buffer.Buffer, c *Cursor, r rune) {
	if c.Line == buf.Len() {
		buf.InsertRow(buf.Len(), "")
	}
	buf.InsertChar(c.Line, c.Col, r)
	c.Col++
}

// InsertNewline splits the current row at the cursor, or opens a blank row
// above it when the cursor is at column 0. The cursor lands at the start of
// the following row.
func InsertNewline(buf *buffer.Buffer, c *Cursor) {
	if c.Col == 0 {
		buf.InsertRow(c.Line, "")
	} else {
		buf.SplitRow(c.Line, c.Col)
	}
	c.Line++
	c.Col = 0
}

// DeleteBackward removes the rune left of the cursor. At column 0 the row is
// joined onto the previous one.
func DeleteBackward(buf *buffer.Buffer, c *Cursor) {
	if c.Line >= buf.Len() {
		return
	}
	if c.Line == 0 && c.Col == 0 {
		return
	}

	if c.Col > 0 {
		buf.DeleteChar(c.Line, c.Col-1)
		c.Col--
		return
	}

	c.Col = buf.RowLen(c.Line - 1)
	buf.RemoveAndJoin(c.Line)
	c.Line--
}

// DeleteForward removes the rune under the cursor, joining the next row when
// the cursor is at the end of a line.
func DeleteForward(buf *buffer.Buffer, c *Cursor) {
	if c.AtEnd(buf) {
		return
	}
	c.Move(DirRight, buf)
	DeleteBackward(buf, c)
}
