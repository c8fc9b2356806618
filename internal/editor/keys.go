package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CommandKind identifies an editing or navigation command.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdQuit
	CmdMove
	CmdPage
	CmdSave
	CmdBackspace
	CmdDelete
	CmdNewline
	CmdInsert
)

// Command is the result of mapping one key event. Dir is set for CmdMove and
// CmdPage, Rune for CmdInsert.
type Command struct {
	Kind CommandKind
	Dir  Direction
	Rune rune
}

// KeyMap defines the keyboard bindings of the editor.
type KeyMap struct {
	Quit      key.Binding
	Save      key.Binding
	LineStart key.Binding
	LineEnd   key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	PageUp   key.Binding
	PageDown key.Binding

	Backspace key.Binding
	Delete    key.Binding
	Newline   key.Binding

	// Cancel is only used by the prompt.
	Cancel key.Binding
}

// DefaultKeyMap returns the default keyboard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "line start"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "line end"),
		),

		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),

		PageUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "page down"),
		),

		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete left"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("delete", "delete right"),
		),
		Newline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new line"),
		),

		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Actions lists the binding names accepted by Rebind.
var Actions = []string{
	"quit", "save", "line_start", "line_end",
	"up", "down", "left", "right",
	"page_up", "page_down",
	"backspace", "delete", "newline", "cancel",
}

func (km *KeyMap) binding(action string) *key.Binding {
	switch action {
	case "quit":
		return &km.Quit
	case "save":
		return &km.Save
	case "line_start":
		return &km.LineStart
	case "line_end":
		return &km.LineEnd
	case "up":
		return &km.Up
	case "down":
		return &km.Down
	case "left":
		return &km.Left
	case "right":
		return &km.Right
	case "page_up":
		return &km.PageUp
	case "page_down":
		return &km.PageDown
	case "backspace":
		return &km.Backspace
	case "delete":
		return &km.Delete
	case "newline":
		return &km.Newline
	case "cancel":
		return &km.Cancel
	}
	return nil
}

// Rebind replaces the keys of the named action. The first key is shown in
// the help line.
func (km *KeyMap) Rebind(action string, keys ...string) error {
	b := km.binding(action)
	if b == nil {
		return fmt.Errorf("unknown key action %q", action)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys given for %q", action)
	}
	b.SetKeys(keys...)
	b.SetHelp(keys[0], b.Help().Desc)
	return nil
}

// Map translates a key event into a command. Keys without a binding that
// do not produce text map to CmdNone.
func (km KeyMap) Map(k tea.Key) Command {
	switch {
	case key.Matches(k, km.Quit):
		return Command{Kind: CmdQuit}
	case key.Matches(k, km.Save):
		return Command{Kind: CmdSave}
	case key.Matches(k, km.LineStart):
		return Command{Kind: CmdMove, Dir: DirLineStart}
	case key.Matches(k, km.LineEnd):
		return Command{Kind: CmdMove, Dir: DirLineEnd}
	case key.Matches(k, km.Up):
		return Command{Kind: CmdMove, Dir: DirUp}
	case key.Matches(k, km.Down):
		return Command{Kind: CmdMove, Dir: DirDown}
	case key.Matches(k, km.Left):
		return Command{Kind: CmdMove, Dir: DirLeft}
	case key.Matches(k, km.Right):
		return Command{Kind: CmdMove, Dir: DirRight}
	case key.Matches(k, km.PageUp):
		return Command{Kind: CmdPage, Dir: DirUp}
	case key.Matches(k, km.PageDown):
		return Command{Kind: CmdPage, Dir: DirDown}
	case key.Matches(k, km.Backspace):
		return Command{Kind: CmdBackspace}
	case key.Matches(k, km.Delete):
		return Command{Kind: CmdDelete}
	case key.Matches(k, km.Newline):
		return Command{Kind: CmdNewline}
	}

	if r, ok := insertable(k); ok {
		return Command{Kind: CmdInsert, Rune: r}
	}
	return Command{}
}

// HelpText renders the main bindings as a single status line.
func (km KeyMap) HelpText() string {
	bindings := []key.Binding{km.Quit, km.Save, km.LineStart, km.LineEnd, km.PageUp, km.PageDown}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return "HELP: " + strings.Join(parts, " | ")
}

// insertable returns the rune a key types into the buffer: tab, or a single
// printable rune with no modifier other than shift.
func insertable(k tea.Key) (rune, bool) {
	switch k.Type {
	case tea.KeyTab:
		return '\t', true
	case tea.KeySpace:
		return ' ', true
	case tea.KeyRunes:
		if k.Alt || k.Paste || len(k.Runes) != 1 {
			return 0, false
		}
		if r := k.Runes[0]; unicode.IsPrint(r) {
			return r, true
		}
	}
	return 0, false
}
