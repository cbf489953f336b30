package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the dashboard bindings.
type KeyMap struct {
	Quit       key.Binding
	ToggleHelp key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	Back      key.Binding
	Submit    key.Binding
	Backspace key.Binding

	Stop key.Binding
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeys returns the standard bindings.
func DefaultKeys() KeyMap {
	return KeyMap{
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		ToggleHelp: bind("?", "help", "?"),

		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
		Select: bind("enter", "choose", "enter", " "),

		Back:      bind("esc", "back", "esc"),
		Submit:    bind("enter", "start moving", "enter"),
		Backspace: bind("⌫", "delete", "backspace"),

		Stop: bind("s", "stop moving", "s", "enter", "esc"),
	}
}

// groups returns the bindings shown for s, one slice per help column.
func (k KeyMap) groups(s state) [][]key.Binding {
	switch s {
	case stateMenu:
		return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.ToggleHelp, k.Quit}}
	case stateTimedInput:
		return [][]key.Binding{{k.Submit, k.Backspace, k.Back}, {k.Quit}}
	case stateRunning:
		return [][]key.Binding{{k.Stop}, {k.ToggleHelp, k.Quit}}
	}
	return [][]key.Binding{{k.ToggleHelp, k.Quit}}
}

type stateKeys [][]key.Binding

func (s stateKeys) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, g := range s {
		out = append(out, g...)
	}
	return out
}

func (s stateKeys) FullHelp() [][]key.Binding { return s }

// ForState returns the help.KeyMap for the given screen.
func (k KeyMap) ForState(s state) help.KeyMap {
	return stateKeys(k.groups(s))
}
