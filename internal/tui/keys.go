package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Comments key.Binding
	Back     key.Binding

	// Actions
	Like     key.Binding
	Refresh  key.Binding
	LoadMore key.Binding
	Compose  key.Binding
	Submit   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next category"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab", "prev category"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Comments: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "comments"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Like: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space", "like"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i", "n"),
			key.WithHelp("i", "write comment"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "post"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global keymap instance
var Keys = DefaultKeyMap()

// FeedHelp returns the bindings shown in the feed footer
func FeedHelp() []key.Binding {
	return []key.Binding{Keys.NextTab, Keys.Like, Keys.Comments, Keys.Refresh, Keys.Help, Keys.Quit}
}

// ThreadHelp returns the bindings shown in the comment footer
func ThreadHelp() []key.Binding {
	return []key.Binding{Keys.Compose, Keys.LoadMore, Keys.Refresh, Keys.Back}
}

// AllHelp returns every binding for the help screen
func AllHelp() []key.Binding {
	return []key.Binding{
		Keys.Up, Keys.Down, Keys.NextTab, Keys.PrevTab, Keys.Top, Keys.Bottom,
		Keys.Comments, Keys.Back, Keys.Like, Keys.Refresh, Keys.LoadMore,
		Keys.Compose, Keys.Help, Keys.Quit,
	}
}
