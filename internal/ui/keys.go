package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Views
	OpenSearch   key.Binding
	OpenActivity key.Binding
	Reload       key.Binding

	// Library
	CycleFilter key.Binding
	CycleSort   key.Binding
	OpenBook    key.Binding
	DeleteBook  key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Book modal
	PrevStatus key.Binding
	NextStatus key.Binding
	Save       key.Binding
	ModalDel   key.Binding

	// Search
	Submit      key.Binding
	AddResult   key.Binding
	SwitchFocus key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to library"),
		),

		OpenSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search catalog"),
		),
		OpenActivity: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Activity log"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		OpenBook: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Edit book"),
		),
		DeleteBook: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove book"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		PrevStatus: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Previous status"),
		),
		NextStatus: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Next status"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save"),
		),
		ModalDel: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Remove book"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Search"),
		),
		AddResult: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add to library"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Input/results"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Escape},
		{k.OpenBook, k.DeleteBook, k.CycleFilter, k.CycleSort, k.Reload},
		{k.PrevStatus, k.NextStatus, k.Save, k.ModalDel},
		{k.OpenSearch, k.Submit, k.SwitchFocus, k.AddResult},
		{k.OpenActivity, k.CycleTheme, k.Help, k.Quit},
	}
}
