package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/VividCortex/ewma"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/willibrandon/jot/internal/buffer"
)

const (
	// DefaultPollInterval bounds how long one key read blocks.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultSavePrompt is the message shown while asking for a file name.
	DefaultSavePrompt = "Save as: %s (ENTER to save | ESC to cancel)"

	// reservedRows are the status and message lines below the text.
	reservedRows = 2
)

// KeyReader delivers decoded key events. ReadKey waits at most timeout and
// reports ok=false when no key arrived.
type KeyReader interface {
	ReadKey(timeout time.Duration) (k tea.Key, ok bool, err error)
}

// Session runs the edit loop for one buffer on one terminal.
type Session struct {
	buf    *buffer.Buffer
	cursor *Cursor
	frame  *Frame
	msg    *Message
	keys   KeyMap
	input  KeyReader

	pollInterval time.Duration
	savePrompt   string
	log          *slog.Logger

	frameTime ewma.MovingAverage
}

// Option configures a Session.
type Option func(*Session)

// WithPollInterval sets how long a single key read may block.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithMessageTimeout sets how long status messages stay visible.
func WithMessageTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.msg = NewMessage(d)
	}
}

// WithSavePrompt sets the save prompt template. It must contain one %s
// where the typed name goes.
func WithSavePrompt(template string) Option {
	return func(s *Session) {
		if template != "" {
			s.savePrompt = template
		}
	}
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(km KeyMap) Option {
	return func(s *Session) {
		s.keys = km
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates a session editing buf on a terminal of width x height
// cells, reading keys from in and writing frames to out.
func NewSession(buf *buffer.Buffer, in KeyReader, out io.Writer, width, height int, opts ...Option) *Session {
	s := &Session{
		buf:          buf,
		cursor:       NewCursor(height-reservedRows, width),
		frame:        NewFrame(out),
		msg:          NewMessage(DefaultMessageTimeout),
		keys:         DefaultKeyMap(),
		input:        in,
		pollInterval: DefaultPollInterval,
		savePrompt:   DefaultSavePrompt,
		log:          slog.Default(),
		frameTime:    ewma.NewMovingAverage(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.msg.Set("%s", s.keys.HelpText())
	return s
}

// Buffer returns the buffer being edited.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

// Cursor returns the cursor state.
func (s *Session) Cursor() *Cursor {
	return s.cursor
}

// Message returns the status message.
func (s *Session) Message() *Message {
	return s.msg
}

// Run renders, reads a key and dispatches it until the quit command. It
// returns ctx.Err() when the context is cancelled while waiting for input.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("session started", "rows", s.buf.Len(), "viewport_rows", s.cursor.Rows, "viewport_cols", s.cursor.Cols)
	defer func() {
		s.log.Debug("session finished", "avg_frame_us", s.frameTime.Value())
	}()

	for {
		if err := s.render(); err != nil {
			return err
		}
		k, err := s.readKey(ctx)
		if err != nil {
			return err
		}
		quit, err := s.handle(ctx, k)
		if err != nil {
			return err
		}
		if quit {
			s.log.Info("quit", "dirty", s.buf.Dirty())
			return nil
		}
	}
}

func (s *Session) render() error {
	start := time.Now()
	err := s.frame.Render(s.buf, s.cursor, s.msg)
	s.frameTime.Add(float64(time.Since(start).Microseconds()))
	return err
}

// readKey polls until a key arrives. A timeout only means no input yet.
func (s *Session) readKey(ctx context.Context) (tea.Key, error) {
	for {
		if err := ctx.Err(); err != nil {
			return tea.Key{}, err
		}
		k, ok, err := s.input.ReadKey(s.pollInterval)
		if err != nil {
			return tea.Key{}, fmt.Errorf("read key: %w", err)
		}
		if ok {
			return k, nil
		}
	}
}

// handle applies one key and reports whether the session should stop.
func (s *Session) handle(ctx context.Context, k tea.Key) (bool, error) {
	cmd := s.keys.Map(k)

	switch cmd.Kind {
	case CmdQuit:
		return true, nil
	case CmdMove:
		s.cursor.Move(cmd.Dir, s.buf)
	case CmdPage:
		s.cursor.Page(cmd.Dir, s.buf)
	case CmdSave:
		return false, s.save(ctx)
	case CmdBackspace:
		DeleteBackward(s.buf, s.cursor)
	case CmdDelete:
		DeleteForward(s.buf, s.cursor)
	case CmdNewline:
		InsertNewline(s.buf, s.cursor)
	case CmdInsert:
		InsertChar(s.buf, s.cursor, cmd.Rune)
	default:
		s.log.Debug("ignored key", "key", k.String(), "type", int(k.Type))
	}
	return false, nil
}

// save writes the buffer, asking for a file name first when it has none.
// Failures become status messages; only prompt input errors are returned.
func (s *Session) save(ctx context.Context) error {
	if _, ok := s.buf.FileName(); !ok {
		name, ok, err := s.Prompt(ctx, s.savePrompt)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Info("save aborted", "reason", buffer.ErrNoFileName)
			s.msg.Set("Save aborted")
			return nil
		}
		s.buf.SetFileName(name)
	}

	path, _ := s.buf.FileName()
	n, err := s.buf.Save()
	if err != nil {
		s.log.Error("save failed", "path", path, "error", err)
		var saveErr *buffer.SaveError
		if errors.As(err, &saveErr) {
			err = saveErr.Err
		}
		s.msg.Set("Can't save! %v", err)
		return nil
	}

	s.log.Info("saved", "path", path, "bytes", n)
	s.msg.Set("%s saved (%s)", filepath.Base(path), humanize.Bytes(uint64(n)))
	return nil
}
