package editor

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/willibrandon/jot/internal/buffer"
)

// noName is shown in the status line for a buffer without a file.
const noName = "[No Name]"

var statusStyle = ansi.Style{}.Reverse().String()

// Frame assembles a complete screen into one buffer and writes it to the
// terminal in a single call. The cursor is hidden while the frame is drawn
// so a partial frame is never visible.
type Frame struct {
	out io.Writer
	buf bytes.Buffer
}

// NewFrame creates a frame builder writing to out.
func NewFrame(out io.Writer) *Frame {
	return &Frame{out: out}
}

// Render reconciles the viewport and draws content rows, the status line and
// the message line, then places the cursor and flushes.
func (f *Frame) Render(buf *buffer.Buffer, c *Cursor, msg *Message) error {
	c.Reconcile(buf)

	f.buf.WriteString(ansi.HideCursor)
	f.buf.WriteString(ansi.CursorHomePosition)
	f.drawRows(buf, c)
	f.drawStatus(buf, c)
	f.drawMessage(c, msg)

	x, y := c.Screen()
	f.buf.WriteString(ansi.CursorPosition(x+1, y+1))
	f.buf.WriteString(ansi.ShowCursor)

	_, err := f.out.Write(f.buf.Bytes())
	f.buf.Reset()
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (f *Frame) drawRows(buf *buffer.Buffer, c *Cursor) {
	for y := range c.Rows {
		row := y + c.RowOffset

		var text string
		var width int
		if row < buf.Len() {
			text, width = visible(buf.Rendered(row), c.ColOffset, c.Cols)
		} else {
			// Rows past the end show the number the next line would get.
			text = strconv.Itoa(row + 1)
			if len(text) > c.Cols {
				text = text[:c.Cols]
			}
			width = len(text)
		}
		f.buf.WriteString(text)

		// Erasing after a full-width row would clear its last cell.
		if width < c.Cols {
			f.buf.WriteString(ansi.EraseLineRight)
		}
		f.buf.WriteString("\r\n")
	}
}

func (f *Frame) drawStatus(buf *buffer.Buffer, c *Cursor) {
	name := noName
	if path, ok := buf.FileName(); ok {
		name = filepath.Base(path)
	}

	info := fmt.Sprintf("%s [%d lines]", name, buf.Len())
	if buf.Dirty() {
		info += " (modified)"
	}
	info = runewidth.Truncate(sanitize(info), c.Cols, "")
	position := fmt.Sprintf("%d/%d", c.Line+1, buf.Len())

	f.buf.WriteString(statusStyle)
	f.buf.WriteString(info)
	for w := runewidth.StringWidth(info); w < c.Cols; w++ {
		if c.Cols-w == len(position) {
			f.buf.WriteString(position)
			break
		}
		f.buf.WriteByte(' ')
	}
	f.buf.WriteString(ansi.ResetStyle)
	f.buf.WriteString("\r\n")
}

func (f *Frame) drawMessage(c *Cursor, msg *Message) {
	f.buf.WriteString(ansi.EraseLineRight)
	if text, ok := msg.Text(); ok {
		f.buf.WriteString(runewidth.Truncate(sanitize(text), c.Cols, ""))
	}
}

// visible returns the part of a rendered row between display columns from
// and from+width, and how many columns it fills. A wide rune cut by either
// edge is replaced by spaces.
func visible(rendered string, from, width int) (string, int) {
	end := from + width
	var sb strings.Builder
	col, filled := 0, 0
	for _, r := range rendered {
		if col >= end {
			break
		}
		w := buffer.RuneWidth(r)
		switch {
		case col >= from && col+w <= end:
			sb.WriteRune(printable(r))
			filled += w
		case col+w > from:
			for i := max(col, from); i < min(col+w, end); i++ {
				sb.WriteByte(' ')
				filled++
			}
		}
		col += w
	}
	return sb.String(), filled
}

// printable keeps control runes from reaching the terminal.
func printable(r rune) rune {
	if unicode.IsControl(r) {
		return '?'
	}
	return r
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		return printable(r)
	}, s)
}
