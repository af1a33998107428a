// Package commandpalette provides a searchable picker modal component
// for quick command execution and item selection.
package commandpalette

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tiddly/internal/keys"
	"github.com/zjrosen/tiddly/internal/ui/overlay"
	"github.com/zjrosen/tiddly/internal/ui/styles"
)

// Item represents a selectable item in the command palette.
type Item struct {
	ID          string                 // Unique identifier
	Name        string                 // Display name (shown bold on first line)
	Description string                 // Description (shown muted on second line)
	Color       lipgloss.TerminalColor // Optional color for the name
}

// Config defines command palette configuration.
type Config struct {
	Title           string             // Modal title (empty = no title bar)
	Placeholder     string             // Search input placeholder
	Items           []Item             // Available items
	OnSelect        func(Item) tea.Msg // Called when item selected (optional)
	OnCancel        func() tea.Msg     // Called on Esc (optional)
	MaxWidth        int                // Maximum width (default 80)
	MaxVisibleItems int                // Max items visible before scrolling (default 5)
}

// SelectMsg is sent when an item is selected (if OnSelect is nil).
type SelectMsg struct {
	Item Item
}

// CancelMsg is sent when cancelled (if OnCancel is nil).
type CancelMsg struct{}

// Model holds the command palette state.
type Model struct {
	config         Config
	keymap         keys.PaletteKeyMap
	textInput      textinput.Model
	filtered       []Item // Items matching search
	cursor         int    // Currently selected item index in filtered list
	scrollOffset   int    // First visible item index for scrolling
	viewportWidth  int
	viewportHeight int
}

// New creates a new command palette with the given configuration.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Search..."
	}
	ti.Prompt = ""
	ti.Focus()

	return Model{
		config:    cfg,
		keymap:    keys.DefaultPaletteKeyMap(),
		textInput: ti,
		filtered:  cfg.Items,
		cursor:    0,
	}
}

// Init returns the initial command (starts cursor blink).
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Down):
			// Move cursor down (arrows or ctrl+j, not j - conflicts with typing)
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Up):
			if m.cursor > 0 {
				m.cursor--
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Execute):
			return m, m.selectCmd()

		case key.Matches(msg, m.keymap.Close), msg.Type == tea.KeyCtrlC:
			return m, m.cancelCmd()

		case msg.Type == tea.KeyCtrlU:
			// Clear search
			m.textInput.SetValue("")
			m = m.updateFilter()
			return m, nil

		default:
			// Forward to text input for typing
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			m = m.updateFilter()
			return m, cmd
		}

	case tea.MouseMsg:
		// Only handle wheel events for scrolling
		if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
			return m, nil
		}
		maxVisible := m.maxVisibleItems()
		maxOffset := max(0, len(m.filtered)-maxVisible)
		if msg.Button == tea.MouseButtonWheelUp {
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
		} else {
			if m.scrollOffset < maxOffset {
				m.scrollOffset++
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
	}

	return m, nil
}

// updateFilter filters items based on current search text.
func (m Model) updateFilter() Model {
	query := strings.ToLower(m.textInput.Value())

	if query == "" {
		m.filtered = m.config.Items
	} else {
		var nameMatches []Item
		var descMatches []Item

		for _, item := range m.config.Items {
			nameLower := strings.ToLower(item.Name)
			descLower := strings.ToLower(item.Description)

			if strings.Contains(nameLower, query) {
				nameMatches = append(nameMatches, item)
			} else if strings.Contains(descLower, query) {
				descMatches = append(descMatches, item)
			}
		}

		// Name matches first, then description-only matches
		m.filtered = append(nameMatches, descMatches...)
	}

	// Reset cursor and scroll offset if cursor is out of bounds
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
		m.scrollOffset = 0
	}

	return m
}

// maxVisibleItems returns the max visible items.
// Uses configured value or default, only shrinks if viewport is too small.
func (m Model) maxVisibleItems() int {
	target := m.config.MaxVisibleItems
	if target <= 0 {
		target = 5
	}

	// Only shrink if viewport forces it
	if m.viewportHeight > 0 {
		// Fixed overhead: border (2) + title+divider (2) + search+divider (2) + footer+divider (2)
		// Each item takes ~3 lines (name, description, divider)
		overhead := 8
		availableLines := m.viewportHeight - overhead
		maxFromViewport := max(availableLines/3, 2)
		if maxFromViewport < target {
			return maxFromViewport
		}
	}

	return target
}

// ensureCursorVisible adjusts scroll offset to keep cursor in view.
func (m Model) ensureCursorVisible() Model {
	maxVisible := m.maxVisibleItems()

	if m.cursor >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.cursor - maxVisible + 1
	}

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}

	return m
}

// selectCmd returns the appropriate select command.
func (m Model) selectCmd() tea.Cmd {
	if len(m.filtered) == 0 {
		return nil
	}

	selected := m.filtered[m.cursor]
	if m.config.OnSelect != nil {
		return func() tea.Msg { return m.config.OnSelect(selected) }
	}
	return func() tea.Msg { return SelectMsg{Item: selected} }
}

// cancelCmd returns the appropriate cancel command.
func (m Model) cancelCmd() tea.Cmd {
	if m.config.OnCancel != nil {
		return func() tea.Msg { return m.config.OnCancel() }
	}
	return func() tea.Msg { return CancelMsg{} }
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Selected returns the currently selected item.
func (m Model) Selected() (Item, bool) {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return Item{}, false
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// FilteredItems returns the currently filtered items.
func (m Model) FilteredItems() []Item {
	return m.filtered
}

// SearchText returns the current search text.
func (m Model) SearchText() string {
	return m.textInput.Value()
}

// View renders the command palette box.
func (m Model) View() string {
	maxWidth := m.config.MaxWidth
	if maxWidth == 0 {
		maxWidth = 80
	}
	contentWidth := maxWidth

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	hintsStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor)
	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", contentWidth))

	// Search input with icon
	searchIcon := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(" > ")
	m.textInput.Width = contentWidth - 4
	searchLine := searchIcon + m.textInput.View()

	var content strings.Builder

	// Title with hints on the right (if provided)
	if m.config.Title != "" {
		title := titleStyle.Render(m.config.Title)
		hints := hintsStyle.Render("↑/↓ • Enter • Esc")
		padding := max(contentWidth-lipgloss.Width(title)-lipgloss.Width(hints)-1, 1)
		content.WriteString(title + strings.Repeat(" ", padding) + hints)
		content.WriteString("\n")
		content.WriteString(divider)
		content.WriteString("\n")
	}

	content.WriteString(searchLine)
	content.WriteString("\n")
	content.WriteString(divider)

	// Items with scrolling - fixed height to prevent modal shifting
	maxVisible := m.maxVisibleItems()
	emptyLine := strings.Repeat(" ", contentWidth)

	if len(m.filtered) == 0 {
		noResultsStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Padding(1, 1)
		content.WriteString("\n")
		content.WriteString(noResultsStyle.Render("No matching items"))
		// Padding(1,1) already provides 3 lines, pad the remaining slots
		for i := 1; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
		}
	} else {
		endIdx := min(m.scrollOffset+maxVisible, len(m.filtered))
		hasMoreBelow := endIdx < len(m.filtered)

		renderedCount := 0
		for i := m.scrollOffset; i < endIdx; i++ {
			item := m.filtered[i]
			content.WriteString("\n")
			content.WriteString(m.renderItem(item, i == m.cursor, contentWidth))
			content.WriteString("\n") // Empty line after each item for spacing
			renderedCount++
		}

		// Pad remaining slots to maintain fixed height (3 lines each)
		for i := renderedCount; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
		}

		if hasMoreBelow {
			moreStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
			moreText := moreStyle.Render("↓ more")
			padding := (contentWidth - lipgloss.Width(moreText)) / 2
			content.WriteString(strings.Repeat(" ", padding) + moreText)
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(contentWidth)

	return boxStyle.Render(content.String())
}

// renderItem renders a single item with name and description.
func (m Model) renderItem(item Item, selected bool, width int) string {
	var result strings.Builder

	// Use item's color if set, otherwise default
	nameStyle := lipgloss.NewStyle()
	if item.Color != nil {
		nameStyle = nameStyle.Foreground(item.Color)
	}
	if selected {
		nameStyle = nameStyle.Bold(true)
	}

	var indicator string
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	} else {
		indicator = " "
	}

	nameWidth := width - 2

	name := item.Name
	if lipgloss.Width(name) > nameWidth {
		name = styles.TruncateString(name, nameWidth)
	}

	result.WriteString(indicator + nameStyle.Render(name))

	// Description with word wrapping
	if item.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Width(width - 4)

		result.WriteString("\n  ")
		result.WriteString(descStyle.Render(item.Description))
	}

	return result.String()
}

// Overlay renders the command palette on top of a background view.
func (m Model) Overlay(background string) string {
	paletteBox := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			paletteBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, paletteBox, background)
}
