// Package buffer holds the text being edited: an ordered list of lines, each
// kept together with its tab-expanded display form.
package buffer

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTabStop is the display column multiple a tab advances to.
const DefaultTabStop = 8

// Line is a single row of text and its rendered (tab-expanded) form.
type Line struct {
	content  []rune
	rendered string
}

func newLine(text string, tabStop int) *Line {
	l := &Line{content: []rune(text)}
	l.update(tabStop)
	return l
}

// Content returns the editable text of the line.
func (l *Line) Content() string {
	return string(l.content)
}

// Rendered returns the display form of the line with tabs expanded.
func (l *Line) Rendered() string {
	return l.rendered
}

// Len returns the number of runes in the line.
func (l *Line) Len() int {
	return len(l.content)
}

// update regenerates the rendered form. Every mutation calls it before
// returning so rendered never lags behind content.
func (l *Line) update(tabStop int) {
	l.rendered = Expand(string(l.content), tabStop)
}

func (l *Line) insert(at int, r rune, tabStop int) {
	l.content = slices.Insert(l.content, at, r)
	l.update(tabStop)
}

func (l *Line) delete(at int, tabStop int) {
	l.content = slices.Delete(l.content, at, at+1)
	l.update(tabStop)
}

func (l *Line) appendText(text []rune, tabStop int) {
	l.content = append(l.content, text...)
	l.update(tabStop)
}

// truncate cuts the line at col and returns the removed tail.
func (l *Line) truncate(col int, tabStop int) []rune {
	tail := slices.Clone(l.content[col:])
	l.content = l.content[:col]
	l.update(tabStop)
	return tail
}

// RuneWidth returns the number of display columns r occupies. Runes the
// terminal would draw with zero width still take one column so every rune
// has a position the cursor can land on.
func RuneWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// Expand replaces each tab in text with spaces up to the next multiple of
// tabStop display columns. A tab always produces at least one space.
func Expand(text string, tabStop int) string {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var sb strings.Builder
	col := 0
	for _, r := range text {
		if r == '\t' {
			n := tabStop - col%tabStop
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += RuneWidth(r)
	}
	return sb.String()
}

// RenderColumn maps a rune column of text to its display column after tab
// expansion.
func RenderColumn(text []rune, col, tabStop int) int {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	rx := 0
	for _, r := range text[:min(col, len(text))] {
		if r == '\t' {
			rx += tabStop - rx%tabStop
			continue
		}
		rx += RuneWidth(r)
	}
	return rx
}
