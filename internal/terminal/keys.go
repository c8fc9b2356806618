package terminal

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const esc = 0x1b

// sequences maps the escape sequences sent by common terminals to keys.
var sequences = map[string]tea.Key{
	// Arrows, normal and application cursor mode.
	"\x1b[A": {Type: tea.KeyUp},
	"\x1b[B": {Type: tea.KeyDown},
	"\x1b[C": {Type: tea.KeyRight},
	"\x1b[D": {Type: tea.KeyLeft},
	"\x1bOA": {Type: tea.KeyUp},
	"\x1bOB": {Type: tea.KeyDown},
	"\x1bOC": {Type: tea.KeyRight},
	"\x1bOD": {Type: tea.KeyLeft},

	"\x1b[1;2A": {Type: tea.KeyShiftUp},
	"\x1b[1;2B": {Type: tea.KeyShiftDown},
	"\x1b[1;2C": {Type: tea.KeyShiftRight},
	"\x1b[1;2D": {Type: tea.KeyShiftLeft},
	"\x1b[1;3A": {Type: tea.KeyUp, Alt: true},
	"\x1b[1;3B": {Type: tea.KeyDown, Alt: true},
	"\x1b[1;3C": {Type: tea.KeyRight, Alt: true},
	"\x1b[1;3D": {Type: tea.KeyLeft, Alt: true},
	"\x1b[1;5A": {Type: tea.KeyCtrlUp},
	"\x1b[1;5B": {Type: tea.KeyCtrlDown},
	"\x1b[1;5C": {Type: tea.KeyCtrlRight},
	"\x1b[1;5D": {Type: tea.KeyCtrlLeft},
	"\x1b[1;6A": {Type: tea.KeyCtrlShiftUp},
	"\x1b[1;6B": {Type: tea.KeyCtrlShiftDown},
	"\x1b[1;6C": {Type: tea.KeyCtrlShiftRight},
	"\x1b[1;6D": {Type: tea.KeyCtrlShiftLeft},

	// rxvt sends lowercase finals for ctrl arrows.
	"\x1bOa": {Type: tea.KeyCtrlUp},
	"\x1bOb": {Type: tea.KeyCtrlDown},
	"\x1bOc": {Type: tea.KeyCtrlRight},
	"\x1bOd": {Type: tea.KeyCtrlLeft},

	"\x1b[H":  {Type: tea.KeyHome},
	"\x1bOH":  {Type: tea.KeyHome},
	"\x1b[1~": {Type: tea.KeyHome},
	"\x1b[7~": {Type: tea.KeyHome},
	"\x1b[F":  {Type: tea.KeyEnd},
	"\x1bOF":  {Type: tea.KeyEnd},
	"\x1b[4~": {Type: tea.KeyEnd},
	"\x1b[8~": {Type: tea.KeyEnd},

	"\x1b[1;5H": {Type: tea.KeyCtrlHome},
	"\x1b[1;5F": {Type: tea.KeyCtrlEnd},

	"\x1b[2~":   {Type: tea.KeyInsert},
	"\x1b[3~":   {Type: tea.KeyDelete},
	"\x1b[5~":   {Type: tea.KeyPgUp},
	"\x1b[6~":   {Type: tea.KeyPgDown},
	"\x1b[5;5~": {Type: tea.KeyCtrlPgUp},
	"\x1b[6;5~": {Type: tea.KeyCtrlPgDown},
	"\x1b[Z":    {Type: tea.KeyShiftTab},

	"\x1bOP":   {Type: tea.KeyF1},
	"\x1bOQ":   {Type: tea.KeyF2},
	"\x1bOR":   {Type: tea.KeyF3},
	"\x1bOS":   {Type: tea.KeyF4},
	"\x1b[11~": {Type: tea.KeyF1},
	"\x1b[12~": {Type: tea.KeyF2},
	"\x1b[13~": {Type: tea.KeyF3},
	"\x1b[14~": {Type: tea.KeyF4},
	"\x1b[15~": {Type: tea.KeyF5},
	"\x1b[17~": {Type: tea.KeyF6},
	"\x1b[18~": {Type: tea.KeyF7},
	"\x1b[19~": {Type: tea.KeyF8},
	"\x1b[20~": {Type: tea.KeyF9},
	"\x1b[21~": {Type: tea.KeyF10},
	"\x1b[23~": {Type: tea.KeyF11},
	"\x1b[24~": {Type: tea.KeyF12},
}

// Decode reads one key from the start of b. It returns the key, the number
// of bytes it used and whether the bytes formed a recognised key.
//
// n is 0 when b is empty or ends inside a sequence that more input could
// complete; a lone ESC is reported that way too. Unrecognised sequences and
// invalid UTF-8 are consumed with ok set to false.
func Decode(b []byte) (k tea.Key, n int, ok bool) {
	if len(b) == 0 {
		return tea.Key{}, 0, false
	}

	switch c := b[0]; {
	case c == esc:
		return decodeEscape(b)
	case c == '\r' || c == '\n':
		return tea.Key{Type: tea.KeyEnter}, 1, true
	case c == 0x7f || c == 0x08:
		return tea.Key{Type: tea.KeyBackspace}, 1, true
	case c < 0x20:
		// Control bytes share their values with tea's ctrl key types.
		return tea.Key{Type: tea.KeyType(c)}, 1, true
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		if !utf8.FullRune(b) {
			return tea.Key{}, 0, false
		}
		return tea.Key{}, 1, false
	}
	if r == ' ' {
		return tea.Key{Type: tea.KeySpace, Runes: []rune{' '}}, size, true
	}
	return tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}, size, true
}

func decodeEscape(b []byte) (tea.Key, int, bool) {
	if len(b) == 1 {
		return tea.Key{}, 0, false
	}

	switch b[1] {
	case '[', 'O':
		n := sequenceLength(b)
		if n == 0 {
			return tea.Key{}, 0, false
		}
		k, ok := sequences[string(b[:n])]
		return k, n, ok
	case esc:
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}

	// ESC followed by a key is that key with alt held.
	k, n, ok := Decode(b[1:])
	if n == 0 {
		return tea.Key{}, 0, false
	}
	k.Alt = true
	return k, n + 1, ok
}

// sequenceLength returns the length of the CSI or SS3 sequence at the start
// of b, or 0 if b ends before the sequence does.
func sequenceLength(b []byte) int {
	if b[1] == 'O' {
		if len(b) < 3 {
			return 0
		}
		return 3
	}

	for i := 2; i < len(b); i++ {
		switch c := b[i]; {
		case c >= 0x20 && c <= 0x3f:
			// parameter and intermediate bytes
		case c >= 0x40 && c <= 0x7e:
			return i + 1
		default:
			// Malformed; drop what was read so far.
			return i
		}
	}
	return 0
}
