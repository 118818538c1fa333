package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	tab    key.Binding
	search key.Binding
	letter key.Binding
	lang   key.Binding
	sort   key.Binding
	remove key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "request")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		letter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "letter filter")),
		lang:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
		sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		remove: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.search, k.letter, k.lang, k.sort},
		{k.tab, k.back, k.remove, k.quit},
	}
}
