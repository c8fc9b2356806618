package editor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/hinshun/vt10x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/jot/internal/buffer"
)

// screen renders one frame into a vt10x emulator sized to the viewport plus
// the status and message lines.
func screen(t *testing.T, buf *buffer.Buffer, c *Cursor, msg *Message) vt10x.Terminal {
	t.Helper()

	var out bytes.Buffer
	require.NoError(t, NewFrame(&out).Render(buf, c, msg))

	term := vt10x.New(vt10x.WithSize(c.Cols, c.Rows+reservedRows))
	_, err := term.Write(out.Bytes())
	require.NoError(t, err)
	return term
}

func line(term vt10x.Terminal, y int) string {
	var sb strings.Builder
	cols, _ := term.Size()
	for x := 0; x < cols; x++ {
		sb.WriteRune(term.Cell(x, y).Char)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestRender_Layout(t *testing.T) {
	buf := buffer.FromLines([]string{"hello", "a\tb"}, buffer.WithFileName("/tmp/notes.txt"))
	c := NewCursor(3, 30)
	msg := NewMessage(time.Minute)
	msg.Set("hi %s", "there")

	term := screen(t, buf, c, msg)

	assert.Equal(t, "hello", line(term, 0))
	assert.Equal(t, "a       b", line(term, 1))
	assert.Equal(t, "3", line(term, 2), "rows past the end show their line number")
	assert.Equal(t, "notes.txt [2 lines]        1/2", line(term, 3))
	assert.Equal(t, "hi there", line(term, 4))

	assert.Equal(t, vt10x.DefaultFG, term.Cell(0, 3).BG, "status line is reverse video")
	assert.Equal(t, vt10x.DefaultFG, term.Cell(29, 3).BG)
	assert.Equal(t, vt10x.DefaultBG, term.Cell(0, 0).BG)
	assert.Equal(t, vt10x.DefaultBG, term.Cell(0, 4).BG, "style is reset after the status line")

	cur := term.Cursor()
	assert.Equal(t, 0, cur.X)
	assert.Equal(t, 0, cur.Y)
	assert.True(t, term.CursorVisible())
}

func TestRender_StatusLine(t *testing.T) {
	buf := buffer.New()
	c := NewCursor(2, 40)

	term := screen(t, buf, c, NewMessage(time.Minute))
	assert.Equal(t, "[No Name] [0 lines]                  1/0", line(term, 2))

	InsertChar(buf, c, 'x')
	term = screen(t, buf, c, NewMessage(time.Minute))
	assert.Equal(t, "[No Name] [1 lines] (modified)       1/1", line(term, 2))
}

func TestRender_HorizontalScroll(t *testing.T) {
	buf := buffer.FromLines([]string{"0123456789abcdef", "xy"})
	c := NewCursor(2, 10)
	c.Col = 12

	term := screen(t, buf, c, NewMessage(time.Minute))

	assert.Equal(t, 3, c.ColOffset)
	assert.Equal(t, "3456789abc", line(term, 0))
	assert.Equal(t, "", line(term, 1), "row scrolled past its end is empty")

	cur := term.Cursor()
	assert.Equal(t, 9, cur.X)
	assert.Equal(t, 0, cur.Y)
}

func TestRender_VerticalScroll(t *testing.T) {
	buf := buffer.FromLines([]string{"a", "b", "c", "d", "e", "f"})
	c := NewCursor(3, 10)
	c.Line = 4

	term := screen(t, buf, c, NewMessage(time.Minute))

	assert.Equal(t, 2, c.RowOffset)
	assert.Equal(t, "c", line(term, 0))
	assert.Equal(t, "d", line(term, 1))
	assert.Equal(t, "e", line(term, 2))
	assert.Equal(t, 2, term.Cursor().Y)
}

func TestRender_ExpiredMessage(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := NewMessage(5 * time.Second)
	msg.now = func() time.Time { return now }
	msg.Set("saved")

	buf := buffer.FromLines([]string{"x"})
	c := NewCursor(1, 20)

	assert.Equal(t, "saved", line(screen(t, buf, c, msg), 2))

	now = now.Add(6 * time.Second)
	assert.Equal(t, "", line(screen(t, buf, c, msg), 2))
}

func TestRender_MessageTruncatedAndSanitized(t *testing.T) {
	msg := NewMessage(time.Minute)
	msg.Set("a\tb\x07c and a lot more text")

	term := screen(t, buffer.New(), NewCursor(1, 8), msg)
	assert.Equal(t, "a b?c an", line(term, 2))
}

func TestRender_ControlRunes(t *testing.T) {
	buf := buffer.FromLines([]string{"a\x1bb"})
	term := screen(t, buf, NewCursor(1, 10), NewMessage(time.Minute))
	assert.Equal(t, "a?b", line(term, 0))
}

func TestRender_SequenceOrder(t *testing.T) {
	buf := buffer.FromLines([]string{"abc"})
	c := NewCursor(1, 10)
	c.Col = 2

	var out bytes.Buffer
	require.NoError(t, NewFrame(&out).Render(buf, c, NewMessage(time.Minute)))
	frame := out.String()

	assert.True(t, strings.HasPrefix(frame, ansi.HideCursor+ansi.CursorHomePosition))
	assert.True(t, strings.HasSuffix(frame, ansi.CursorPosition(3, 1)+ansi.ShowCursor))
	assert.Less(t, strings.Index(frame, "abc"), strings.Index(frame, ansi.Style{}.Reverse().String()))
}

type countingWriter struct {
	writes int
	err    error
	bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.err != nil {
		return 0, w.err
	}
	return w.Buffer.Write(p)
}

func TestRender_SingleWrite(t *testing.T) {
	w := &countingWriter{}
	f := NewFrame(w)
	buf := buffer.FromLines([]string{"one", "two", "three"})
	c := NewCursor(5, 20)

	require.NoError(t, f.Render(buf, c, NewMessage(time.Minute)))
	require.NoError(t, f.Render(buf, c, NewMessage(time.Minute)))
	assert.Equal(t, 2, w.writes)

	first := w.Len() / 2
	assert.Equal(t, w.String()[:first], w.String()[first:], "frame buffer is reset between renders")
}

func TestRender_WriteError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	w := &countingWriter{err: errBroken}

	err := NewFrame(w).Render(buffer.New(), NewCursor(1, 10), NewMessage(time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name      string
		rendered  string
		from      int
		width     int
		want      string
		wantWidth int
	}{
		{"whole row", "hello", 0, 10, "hello", 5},
		{"clipped right", "hello", 0, 3, "hel", 3},
		{"clipped left", "hello", 2, 10, "llo", 3},
		{"scrolled past end", "hello", 7, 10, "", 0},
		{"wide rune", "a世b", 0, 10, "a世b", 4},
		{"wide rune cut at right edge", "a世b", 0, 2, "a ", 2},
		{"wide rune cut at left edge", "a世b", 2, 10, " b", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := visible(tt.rendered, tt.from, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWidth, width)
		})
	}
}
