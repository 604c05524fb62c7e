package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab        key.Binding
	PrevTab        key.Binding
	Up             key.Binding
	Down           key.Binding
	ToggleHidden   key.Binding
	Rename         key.Binding
	RestoreName    key.Binding
	Toggle         key.Binding
	NewCategory    key.Binding
	RenameCategory key.Binding
	DeleteCategory key.Binding
	AddItems       key.Binding
	Uncategorize   key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
	Reset          key.Binding
	Help           key.Binding
	Quit           key.Binding
	ForceQuit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next menu")),
		PrevTab:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous menu")),
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ToggleHidden:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "hide/show")),
		Rename:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		RestoreName:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restore name")),
		Toggle:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
		NewCategory:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new category")),
		RenameCategory: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename category")),
		DeleteCategory: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete category")),
		AddItems:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add items")),
		Uncategorize:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "out of category")),
		MoveUp:         key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:       key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Reset:          key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset menu")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit:      key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
