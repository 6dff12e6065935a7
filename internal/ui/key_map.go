package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	mode    key.Binding
	tab     key.Binding
	backTab key.Binding
	next    key.Binding
	play    key.Binding
	add     key.Binding
	remove  key.Binding
	refresh key.Binding
	submit  key.Binding
	back    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		mode:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "mode")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next mode")),
		backTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous mode")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "play next")),
		play:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		remove:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.mode, k.next, k.add, k.remove, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play},
		{k.mode, k.tab, k.backTab},
		{k.next, k.add, k.remove, k.refresh},
		{k.quit},
	}
}
