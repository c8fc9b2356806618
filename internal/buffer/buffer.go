package buffer

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"
)

// Buffer is the ordered sequence of lines being edited together with the
// file it was loaded from, if any. Row indices are always 0..Len()-1.
type Buffer struct {
	lines   []*Line
	path    string
	named   bool
	tabStop int
	dirty   bool
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithTabStop sets the tab stop used to render lines.
func WithTabStop(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.tabStop = n
		}
	}
}

// WithFileName associates a path with a new buffer without reading it.
func WithFileName(path string) Option {
	return func(b *Buffer) {
		b.SetFileName(path)
	}
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{tabStop: DefaultTabStop}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load reads path into a new buffer, one line per newline-separated row.
// A final newline does not produce an extra empty row.
func Load(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{Path: path, Err: ErrInvalidUTF8}
	}

	b := New(opts...)
	b.SetFileName(path)
	for _, text := range splitLines(string(data)) {
		b.lines = append(b.lines, newLine(text, b.tabStop))
	}
	b.dirty = false
	return b, nil
}

// FromLines builds an unnamed buffer holding the given rows.
func FromLines(rows []string, opts ...Option) *Buffer {
	b := New(opts...)
	for _, text := range rows {
		b.lines = append(b.lines, newLine(text, b.tabStop))
	}
	return b
}

func splitLines(text string) []string {
	rows := strings.Split(text, "\n")
	if rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	for i, row := range rows {
		rows[i] = strings.TrimSuffix(row, "\r")
	}
	return rows
}

// Len returns the number of rows.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Row returns the line at idx, or nil when idx is out of range.
func (b *Buffer) Row(idx int) *Line {
	if idx < 0 || idx >= len(b.lines) {
		return nil
	}
	return b.lines[idx]
}

// RowLen returns the rune length of row idx, 0 when out of range.
func (b *Buffer) RowLen(idx int) int {
	if l := b.Row(idx); l != nil {
		return l.Len()
	}
	return 0
}

// Content returns the text of row idx.
func (b *Buffer) Content(idx int) string {
	if l := b.Row(idx); l != nil {
		return l.Content()
	}
	return ""
}

// Rendered returns the display form of row idx.
func (b *Buffer) Rendered(idx int) string {
	if l := b.Row(idx); l != nil {
		return l.Rendered()
	}
	return ""
}

// RenderCol maps a rune column on row idx to its display column.
func (b *Buffer) RenderCol(idx, col int) int {
	l := b.Row(idx)
	if l == nil {
		return 0
	}
	return RenderColumn(l.content, col, b.tabStop)
}

// FileName returns the associated path and whether one is set.
func (b *Buffer) FileName() (string, bool) {
	return b.path, b.named
}

// SetFileName associates path with the buffer. An empty path clears it.
func (b *Buffer) SetFileName(path string) {
	b.path = path
	b.named = path != ""
}

// Dirty reports whether the buffer changed since it was loaded or saved.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// Lines returns a copy of every row's content.
func (b *Buffer) Lines() []string {
	rows := make([]string, len(b.lines))
	for i, l := range b.lines {
		rows[i] = l.Content()
	}
	return rows
}

// Contents returns all rows joined with newlines, the form written by Save.
func (b *Buffer) Contents() string {
	return strings.Join(b.Lines(), "\n")
}

// InsertRow inserts a new row holding text at position at (0 <= at <= Len).
func (b *Buffer) InsertRow(at int, text string) {
	if at < 0 || at > len(b.lines) {
		return
	}
	b.lines = slices.Insert(b.lines, at, newLine(text, b.tabStop))
	b.dirty = true
}

// RemoveAndJoin removes row at and appends its content to the row above.
func (b *Buffer) RemoveAndJoin(at int) {
	if at < 1 || at >= len(b.lines) {
		return
	}
	removed := b.lines[at]
	b.lines = slices.Delete(b.lines, at, at+1)
	b.lines[at-1].appendText(removed.content, b.tabStop)
	b.dirty = true
}

// SplitRow moves everything from col onward on row into a new row below it.
func (b *Buffer) SplitRow(row, col int) {
	l := b.Row(row)
	if l == nil || col < 0 || col > l.Len() {
		return
	}
	tail := l.truncate(col, b.tabStop)
	b.InsertRow(row+1, string(tail))
}

// InsertChar inserts ch into row at rune column col (0 <= col <= len).
func (b *Buffer) InsertChar(row, col int, ch rune) {
	l := b.Row(row)
	if l == nil || col < 0 || col > l.Len() {
		return
	}
	l.insert(col, ch, b.tabStop)
	b.dirty = true
}

// DeleteChar removes the rune at col on row. The caller keeps col < len.
func (b *Buffer) DeleteChar(row, col int) {
	l := b.Row(row)
	if l == nil || col < 0 || col >= l.Len() {
		return
	}
	l.delete(col, b.tabStop)
	b.dirty = true
}

// Save writes the buffer to its file, truncating it to the new length, and
// returns the number of bytes written.
func (b *Buffer) Save() (int, error) {
	if !b.named {
		return 0, ErrNoFileName
	}

	data := []byte(b.Contents())
	f, err := os.OpenFile(b.path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return 0, &SaveError{Path: b.path, Err: err}
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		f.Close()
		return 0, &SaveError{Path: b.path, Err: fmt.Errorf("truncate: %w", err)}
	}
	n, err := f.Write(data)
	if err != nil {
		f.Close()
		return n, &SaveError{Path: b.path, Err: fmt.Errorf("write: %w", err)}
	}
	if err := f.Close(); err != nil {
		return n, &SaveError{Path: b.path, Err: err}
	}

	b.dirty = false
	return n, nil
}
