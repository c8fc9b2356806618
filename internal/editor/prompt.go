package editor

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
)

// Prompt collects a line of text on the message line while the rest of the
// screen keeps rendering. template is formatted with the current input.
// Enter returns the input when it is not empty; Esc cancels with ok=false.
func (s *Session) Prompt(ctx context.Context, template string) (input string, ok bool, err error) {
	var text []rune
	for {
		s.msg.Set(template, string(text))
		if err := s.render(); err != nil {
			return "", false, err
		}

		k, err := s.readKey(ctx)
		if err != nil {
			return "", false, err
		}

		switch {
		case key.Matches(k, s.keys.Newline):
			if len(text) > 0 {
				s.msg.Clear()
				return string(text), true, nil
			}
		case key.Matches(k, s.keys.Cancel):
			s.msg.Clear()
			return "", false, nil
		case key.Matches(k, s.keys.Backspace, s.keys.Delete):
			if len(text) > 0 {
				text = text[:len(text)-1]
			}
		default:
			if r, ok := insertable(k); ok {
				text = append(text, r)
			}
		}
	}
}
