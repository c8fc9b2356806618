// Package editor implements the editing engine: cursor and viewport
// tracking, frame assembly, key mapping, the save prompt and the session loop
// that ties them to a terminal.
package editor

import "github.com/willibrandon/jot/internal/buffer"

// Direction is a cursor movement.
type Direction int

const (
	DirUp Direction = iota + 1
	DirDown
	DirLeft
	DirRight
	DirLineStart
	DirLineEnd
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirLineStart:
		return "line-start"
	case DirLineEnd:
		return "line-end"
	}
	return "none"
}

// Cursor tracks the edit position and the visible window into the buffer.
//
// Line and Col address the buffer (Col counts runes and may equal the row
// length). RenderCol is Col after tab expansion. RowOffset and ColOffset are
// the top-left corner of the viewport, Rows and Cols its size.
type Cursor struct {
	Line      int
	Col       int
	RenderCol int

	RowOffset int
	ColOffset int

	Rows int
	Cols int
}

// NewCursor creates a cursor at the top of a rows x cols viewport.
func NewCursor(rows, cols int) *Cursor {
	return &Cursor{Rows: max(rows, 1), Cols: max(cols, 1)}
}

// Move applies one step in dir. Left and Right flow across line boundaries;
// vertical moves keep Col within the new row.
func (c *Cursor) Move(dir Direction, buf *buffer.Buffer) {
	n := buf.Len()

	switch dir {
	case DirUp:
		if c.Line > 0 {
			c.Line--
		}
	case DirDown:
		if c.Line < n-1 {
			c.Line++
		}
	case DirLeft:
		if c.Col > 0 {
			c.Col--
		} else if c.Line > 0 {
			c.Line--
			c.Col = buf.RowLen(c.Line)
		}
	case DirRight:
		if c.Line < n {
			if c.Col < buf.RowLen(c.Line) {
				c.Col++
			} else if c.Line < n-1 {
				c.Line++
				c.Col = 0
			}
		}
	case DirLineStart:
		c.Col = 0
	case DirLineEnd:
		if c.Line < n {
			c.Col = buf.RowLen(c.Line)
		}
	}

	c.Col = min(c.Col, buf.RowLen(c.Line))
}

// Page snaps the cursor to the top or bottom edge of the viewport and then
// moves a full screen of rows in dir.
func (c *Cursor) Page(dir Direction, buf *buffer.Buffer) {
	switch dir {
	case DirUp:
		c.Line = c.RowOffset
	case DirDown:
		c.Line = min(c.RowOffset+c.Rows-1, buf.Len())
	default:
		return
	}
	for range c.Rows {
		c.Move(dir, buf)
	}
	c.Col = min(c.Col, buf.RowLen(c.Line))
}

// AtEnd reports whether the cursor sits after the last rune of the last row.
func (c *Cursor) AtEnd(buf *buffer.Buffer) bool {
	n := buf.Len()
	return n == 0 || c.Line >= n || (c.Line == n-1 && c.Col >= buf.RowLen(c.Line))
}

// Reconcile recomputes RenderCol and scrolls the viewport by the smallest
// amount that keeps the cursor visible. It must run before every render.
func (c *Cursor) Reconcile(buf *buffer.Buffer) {
	c.RenderCol = 0
	if c.Line < buf.Len() {
		c.RenderCol = buf.RenderCol(c.Line, c.Col)
	}

	if c.Line < c.RowOffset {
		c.RowOffset = c.Line
	}
	if c.Line >= c.RowOffset+c.Rows {
		c.RowOffset = c.Line - c.Rows + 1
	}
	if c.RenderCol < c.ColOffset {
		c.ColOffset = c.RenderCol
	}
	if c.RenderCol >= c.ColOffset+c.Cols {
		c.ColOffset = c.RenderCol - c.Cols + 1
	}
}

// Screen returns the terminal position of the cursor relative to the
// viewport. Valid after Reconcile.
func (c *Cursor) Screen() (x, y int) {
	return c.RenderCol - c.ColOffset, c.Line - c.RowOffset
}
