package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the normal-mode bindings. It doubles as the help.KeyMap for
// the footer.
type KeyMap struct {
	Up              key.Binding
	Down            key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	Home            key.Binding
	End             key.Binding
	Query           key.Binding
	StartDir        key.Binding
	Search          key.Binding
	Cancel          key.Binding
	CycleMode       key.Binding
	CaseSensitive   key.Binding
	Recursive       key.Binding
	IgnoreExtension key.Binding
	Remove          key.Binding
	Clear           key.Binding
	Export          key.Binding
	Preview         key.Binding
	Sort            key.Binding
	Help            key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the bindings used by the TUI
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:              key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:            key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:          key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:        key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:            key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:             key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Query:           key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "query")),
		StartDir:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "start folder")),
		Search:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Cancel:          key.NewBinding(key.WithKeys("esc", "ctrl+x"), key.WithHelp("esc", "cancel")),
		CycleMode:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		CaseSensitive:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "case")),
		Recursive:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recursive")),
		IgnoreExtension: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "ignore ext")),
		Remove:          key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Clear:           key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
		Export:          key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Preview:         key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view")),
		Sort:            key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:            key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Query, k.Search, k.Cancel, k.CycleMode, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Query, k.StartDir, k.Search, k.Cancel},
		{k.CycleMode, k.CaseSensitive, k.Recursive, k.IgnoreExtension},
		{k.Remove, k.Clear, k.Export, k.Preview, k.Sort},
		{k.Help, k.Quit},
	}
}
