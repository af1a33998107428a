// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// LibraryKeyMap defines the keybindings for library mode.
type LibraryKeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Actions
	Open        key.Binding
	New         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Pin         key.Binding
	ArchiveItem key.Binding
	Yank        key.Binding
	AddToList   key.Binding
	Refresh     key.Binding
	Search      key.Binding
	Filter      key.Binding

	// Sidebar
	NextSection     key.Binding
	PrevSection     key.Binding
	MoveSectionUp   key.Binding
	MoveSectionDown key.Binding

	// General
	Palette key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultLibraryKeyMap returns the default library mode keybindings.
func DefaultLibraryKeyMap() LibraryKeyMap {
	return LibraryKeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "focus sidebar"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "focus items"),
		),

		// Actions
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open item"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle pin"),
		),
		ArchiveItem: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle archive"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		AddToList: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "add to list"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by tag"),
		),

		// Sidebar
		NextSection: key.NewBinding(
			key.WithKeys("ctrl+j", "ctrl+n"),
			key.WithHelp("ctrl+j/n", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("ctrl+k", "ctrl+p"),
			key.WithHelp("ctrl+k/p", "previous section"),
		),
		MoveSectionUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "move section up"),
		),
		MoveSectionDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "move section down"),
		),

		// General
		Palette: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("^space", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k LibraryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k LibraryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right}, // Navigation
		{k.Open, k.New, k.Edit, k.Delete, k.Pin, k.ArchiveItem, k.Yank, k.AddToList, k.Refresh}, // Actions
		{k.Search, k.Filter, k.NextSection, k.PrevSection},                                     // Finding
		{k.Palette, k.Help, k.Escape, k.Quit},                                      // General
	}
}

// EditorKeyMap defines the keybindings for editor mode.
type EditorKeyMap struct {
	// Formatting
	Bold      key.Binding
	Italic    key.Binding
	Strike    key.Binding
	Highlight key.Binding
	Code      key.Binding

	// File
	Save    key.Binding
	Preview key.Binding

	// General
	Palette key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultEditorKeyMap returns the default editor mode keybindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		// Formatting
		Bold: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "bold"),
		),
		Italic: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("ctrl+i", "italic"),
		),
		Strike: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "strikethrough"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "highlight"),
		),
		Code: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "inline code"),
		),

		// File
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "toggle preview"),
		),

		// General
		Palette: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("^space", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to library"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Help, k.Escape}
}

// FullHelp returns keybindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bold, k.Italic, k.Strike, k.Highlight, k.Code}, // Formatting
		{k.Save, k.Preview},                               // File
		{k.Palette, k.Help, k.Escape, k.Quit},             // General
	}
}

// PaletteKeyMap defines the keybindings inside the command palette.
type PaletteKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Execute key.Binding
	Close   key.Binding
}

// DefaultPaletteKeyMap returns the command palette keybindings.
func DefaultPaletteKeyMap() PaletteKeyMap {
	return PaletteKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("↑", "previous command"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("↓", "next command"),
		),
		Execute: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run command"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close palette"),
		),
	}
}

// ToggleLogs opens the debug log overlay from any mode. Only active when
// the app runs with --debug.
var ToggleLogs = key.NewBinding(
	key.WithKeys("ctrl+x"),
	key.WithHelp("ctrl+x", "logs"),
)
