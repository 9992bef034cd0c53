package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add, Next, Clear, Total, Sites, Open, Back, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add item")),
		Next:  key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
		Clear: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear list")),
		Total: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "view total")),
		Sites: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "view websites")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "visit")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// homeKeys is the help shown on the home screen.
type homeKeys keyMap

func (k homeKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Next, k.Clear, k.Total, k.Sites, k.Quit}
}

func (k homeKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
