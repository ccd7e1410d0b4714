package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Raise  key.Binding
	Lower  key.Binding
	Reset  key.Binding
	EditKp key.Binding
	EditKi key.Binding
	EditKd key.Binding
	Commit key.Binding
	Cancel key.Binding
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Raise:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "target up")),
		Lower:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "target down")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		EditKp: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "edit kp")),
		EditKi: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit ki")),
		EditKd: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "edit kd")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Raise, k.Lower, k.EditKp, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Raise, k.Lower, k.Reset},
		{k.EditKp, k.EditKi, k.EditKd, k.Commit, k.Cancel},
		{k.Pause, k.Faster, k.Slower},
		{k.Help, k.Quit},
	}
}
