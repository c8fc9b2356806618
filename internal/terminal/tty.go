// Package terminal provides the terminal the editor runs on: raw mode,
// window size, timed key reads and the byte sink for frames.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when input or output is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// DefaultEscapeDelay is how long a lone ESC waits for the rest of a sequence.
const DefaultEscapeDelay = 25 * time.Millisecond

// TTY is a terminal opened for full-screen editing.
type TTY struct {
	in  *os.File
	out *os.File

	pending  []byte
	readBuf  []byte
	escDelay time.Duration
}

// Open wraps in and out, which must both be terminals.
func Open(in, out *os.File) (*TTY, error) {
	for _, f := range []*os.File{in, out} {
		if !term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
		}
	}
	return &TTY{
		in:       in,
		out:      out,
		readBuf:  make([]byte, 256),
		escDelay: DefaultEscapeDelay,
	}, nil
}

// Acquire switches the input to raw mode. The returned release func restores
// the previous mode, clears the screen and shows the cursor; it is safe to
// call more than once and is meant to be deferred.
func (t *TTY) Acquire() (release func(), err error) {
	fd := int(t.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_, _ = t.out.WriteString(ansi.EraseEntireScreen + ansi.CursorHomePosition + ansi.ShowCursor)
			_ = term.Restore(fd, state)
		})
	}, nil
}

// Size returns the terminal size in cells.
func (t *TTY) Size() (width, height int, err error) {
	width, height, err = term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("query terminal size: %w", err)
	}
	return width, height, nil
}

// Write sends raw bytes to the terminal.
func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadKey waits up to timeout for a key. It reports ok=false when nothing
// arrived in time or the input was an unrecognised sequence.
func (t *TTY) ReadKey(timeout time.Duration) (k tea.Key, ok bool, err error) {
	if len(t.pending) == 0 {
		ready, err := t.fill(timeout)
		if err != nil || !ready {
			return tea.Key{}, false, err
		}
	}

	for {
		k, n, ok := Decode(t.pending)
		if n > 0 {
			t.pending = t.pending[n:]
			return k, ok, nil
		}

		// The buffer ends inside a sequence. Give the rest a moment to
		// arrive before resolving what is there.
		ready, err := t.fill(t.escDelay)
		if err != nil {
			return tea.Key{}, false, err
		}
		if !ready {
			k, ok := t.flushIncomplete()
			return k, ok, nil
		}
	}
}

// flushIncomplete resolves a pending sequence that stopped arriving. A
// lone ESC is the Esc key. ESC followed by only a CSI or SS3 introducer is
// alt+introducer. Anything longer is dropped as a truncated sequence.
func (t *TTY) flushIncomplete() (tea.Key, bool) {
	p := t.pending
	t.pending = nil
	switch {
	case len(p) == 1 && p[0] == esc:
		return tea.Key{Type: tea.KeyEsc}, true
	case len(p) == 2 && p[0] == esc && (p[1] == '[' || p[1] == 'O'):
		return tea.Key{Type: tea.KeyRunes, Runes: []rune{rune(p[1])}, Alt: true}, true
	}
	return tea.Key{}, false
}

// fill appends whatever input is available within timeout to the pending
// buffer and reports whether anything was read.
func (t *TTY) fill(timeout time.Duration) (bool, error) {
	ready, err := poll(t.in.Fd(), timeout)
	if err != nil || !ready {
		return false, err
	}
	n, err := t.in.Read(t.readBuf)
	if err != nil {
		return false, fmt.Errorf("read input: %w", err)
	}
	t.pending = append(t.pending, t.readBuf[:n]...)
	return n > 0, nil
}
