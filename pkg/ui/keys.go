package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the bindings of the tree view. It implements help.KeyMap for
// the footer.
type KeyMap struct {
	Down        key.Binding
	Up          key.Binding
	Parent      key.Binding
	Child       key.Binding
	PrevSibling key.Binding
	NextSibling key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Toggle      key.Binding

	InsertAfter  key.Binding
	InsertBefore key.Binding
	InsertBottom key.Binding
	InsertTop    key.Binding
	Delete       key.Binding
	Rename       key.Binding
	Icon         key.Binding

	Open     key.Binding
	Link     key.Binding
	DataFile key.Binding
	Yank     key.Binding

	Mark       key.Binding
	MoveAfter  key.Binding
	MoveBefore key.Binding
	MoveInside key.Binding

	Command key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the vi-flavoured bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Parent:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "parent")),
		Child:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "child")),
		PrevSibling: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev sibling")),
		NextSibling: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sibling")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "root")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		Toggle:      key.NewBinding(key.WithKeys("tab", " "), key.WithHelp("tab", "fold")),

		InsertAfter:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "add below")),
		InsertBefore: key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "add above")),
		InsertBottom: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "add child")),
		InsertTop:    key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "add first child")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Rename:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Icon:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "icon")),

		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Link:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "set link")),
		DataFile: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "new file")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),

		Mark:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark")),
		MoveAfter:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "move after")),
		MoveBefore: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "move before")),
		MoveInside: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "move inside")),

		Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.InsertAfter, k.InsertBottom, k.Delete, k.Open, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Parent, k.Child, k.PrevSibling, k.NextSibling, k.Top, k.Bottom, k.PageDown, k.PageUp},
		{k.Toggle, k.InsertAfter, k.InsertBefore, k.InsertBottom, k.InsertTop, k.Delete, k.Rename, k.Icon},
		{k.Open, k.Link, k.DataFile, k.Yank, k.Mark, k.MoveAfter, k.MoveBefore, k.MoveInside},
		{k.Command, k.Help, k.Quit},
	}
}
