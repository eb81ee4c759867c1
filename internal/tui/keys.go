package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Sort        key.Binding
	Toggle      key.Binding
	Inspect     key.Binding
	Back        key.Binding
	Filter      key.Binding
	SwitchView  key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	CopyCell    key.Binding
	CopyRow     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Sort:        key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "sort column")),
	Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
	Inspect:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect cell")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/clear filter")),
	Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	SwitchView:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "table/tree")),
	ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
	CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
	CopyCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	CopyRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Sort, k.Inspect, k.SwitchView, k.CopyCell, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Sort, k.Filter, k.Back, k.Inspect, k.SwitchView},
		{k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.CopyCell, k.CopyRow, k.Help, k.Quit},
	}
}

// treeKeys is the short help shown in tree mode.
type treeKeys struct{ keyMap }

func (k treeKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ExpandAll, k.CollapseAll, k.Back, k.SwitchView, k.CopyCell, k.Quit}
}
