package editor

import (
	"fmt"
	"time"
)

// DefaultMessageTimeout is how long a status message stays readable.
const DefaultMessageTimeout = 300 * time.Second

// Message is a transient status line text. It reads as absent once it is
// older than its timeout; nothing needs to clear it.
type Message struct {
	text    string
	setAt   time.Time
	timeout time.Duration
	now     func() time.Time
}

// NewMessage creates an empty message with the given display timeout.
func NewMessage(timeout time.Duration) *Message {
	if timeout <= 0 {
		timeout = DefaultMessageTimeout
	}
	return &Message{timeout: timeout, now: time.Now}
}

// Set replaces the message and restarts its timeout.
func (m *Message) Set(format string, args ...any) {
	m.text = fmt.Sprintf(format, args...)
	m.setAt = m.now()
}

// Clear removes the message.
func (m *Message) Clear() {
	m.text = ""
	m.setAt = time.Time{}
}

// Text returns the message if it is set and has not expired.
func (m *Message) Text() (string, bool) {
	if m.text == "" {
		return "", false
	}
	if m.now().Sub(m.setAt) > m.timeout {
		return "", false
	}
	return m.text, true
}
