package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Jump      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "próxima aba"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "aba anterior"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←", "mês anterior"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→", "próximo mês"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "ir para aba"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recarregar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "sair"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevMonth, k.NextMonth, k.Reload, k.Help, k.Quit}
}

// FullHelp returns every binding for the help panel
func (k keyMap) FullHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Jump, k.PrevMonth, k.NextMonth, k.Reload, k.Help, k.Quit}
}
