// Package itemlist renders the scrollable item pane for library mode.
package itemlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/ui/styles"
)

// SelectionChangedMsg is sent when the cursor lands on a new item.
type SelectionChangedMsg struct {
	Item *domain.Item
}

// zoneItemPrefix is the prefix for item row zone IDs.
const zoneItemPrefix = "itemlist-row:"

// ItemZoneID returns the bubblezone ID for the item at index.
func ItemZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneItemPrefix, index)
}

// Model holds the item list state.
type Model struct {
	items        []*domain.Item
	title        string
	cursor       int
	scrollOffset int
	focused      bool
	showPreview  bool
	width        int
	height       int
}

// New creates an empty item list.
func New() Model {
	return Model{title: "Items"}
}

// SetItems replaces the item set, keeping the cursor on the same item
// GUID when it survives the refresh.
func (m Model) SetItems(items []*domain.Item) Model {
	var prevGUID string
	if m.cursor >= 0 && m.cursor < len(m.items) {
		prevGUID = m.items[m.cursor].GUID()
	}

	m.items = items
	m.cursor = 0
	m.scrollOffset = 0
	for i, item := range items {
		if item.GUID() == prevGUID {
			m.cursor = i
			break
		}
	}
	m = m.ensureCursorVisible()
	return m
}

// SetTitle sets the pane title (section or filter description).
func (m Model) SetTitle(title string) Model {
	m.title = title
	return m
}

// SetShowPreview toggles the snippet line under each item.
func (m Model) SetShowPreview(show bool) Model {
	m.showPreview = show
	return m
}

// SetSize updates the pane dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.ensureCursorVisible()
}

// Focus marks the list as the active pane.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the list is the active pane.
func (m Model) Focused() bool {
	return m.focused
}

// Items returns the current item set.
func (m Model) Items() []*domain.Item {
	return m.items
}

// Cursor returns the current cursor index.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the item under the cursor.
func (m Model) Selected() (*domain.Item, bool) {
	if m.cursor >= 0 && m.cursor < len(m.items) {
		return m.items[m.cursor], true
	}
	return nil, false
}

// CursorUp moves the cursor up one item.
func (m Model) CursorUp() (Model, tea.Cmd) {
	if m.cursor > 0 {
		m.cursor--
		m = m.ensureCursorVisible()
		return m, m.selectionChangedCmd()
	}
	return m, nil
}

// CursorDown moves the cursor down one item.
func (m Model) CursorDown() (Model, tea.Cmd) {
	if m.cursor < len(m.items)-1 {
		m.cursor++
		m = m.ensureCursorVisible()
		return m, m.selectionChangedCmd()
	}
	return m, nil
}

// HandleMouse moves the cursor to a clicked item, if any zone matches.
func (m Model) HandleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.items {
		if z := zone.Get(ItemZoneID(i)); z != nil && z.InBounds(msg) {
			if i != m.cursor {
				m.cursor = i
				m = m.ensureCursorVisible()
				return m, m.selectionChangedCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) selectionChangedCmd() tea.Cmd {
	item := m.items[m.cursor]
	return func() tea.Msg { return SelectionChangedMsg{Item: item} }
}

// rowsPerItem is the number of lines one item occupies.
func (m Model) rowsPerItem() int {
	if m.showPreview {
		return 2
	}
	return 1
}

// visibleItems returns how many items fit in the pane.
func (m Model) visibleItems() int {
	inner := m.height - 2 // borders
	if inner < 1 {
		inner = 1
	}
	visible := inner / m.rowsPerItem()
	if visible < 1 {
		visible = 1
	}
	return visible
}

// ensureCursorVisible adjusts scroll offset to keep cursor in view.
func (m Model) ensureCursorVisible() Model {
	visible := m.visibleItems()

	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	return m
}

// View renders the item pane with a title border.
func (m Model) View() string {
	innerWidth := m.width - 2
	if innerWidth < 8 {
		innerWidth = 8
	}

	var b strings.Builder
	if len(m.items) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true)
		b.WriteString(emptyStyle.Render("No items"))
	} else {
		end := m.scrollOffset + m.visibleItems()
		if end > len(m.items) {
			end = len(m.items)
		}
		for i := m.scrollOffset; i < end; i++ {
			if i > m.scrollOffset {
				b.WriteString("\n")
			}
			b.WriteString(zone.Mark(ItemZoneID(i), m.renderItem(m.items[i], i == m.cursor, innerWidth)))
		}
	}

	title := fmt.Sprintf("%s (%d)", m.title, len(m.items))
	return styles.RenderWithTitleBorder(
		b.String(), title, m.width, m.height,
		m.focused, styles.OverlayTitleColor, styles.BorderHighlightColor,
	)
}

// renderItem renders one item: pin marker, kind badge, title, tags, and
// an optional snippet line.
func (m Model) renderItem(item *domain.Item, selected bool, width int) string {
	indicator := " "
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	}

	pin := " "
	if item.Pinned() {
		pin = styles.PinStyle.Render("*")
	}

	badge := kindBadge(item.Kind())

	titleStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if selected {
		titleStyle = titleStyle.Bold(true)
	}

	tags := ""
	if len(item.Tags()) > 0 {
		tags = " " + styles.TagStyle.Render("#"+strings.Join(item.Tags(), " #"))
	}

	// Fixed prefix: indicator, pin, badge and separating spaces
	prefixWidth := 6
	titleWidth := width - prefixWidth - lipgloss.Width(tags)
	if titleWidth < 4 {
		titleWidth = 4
		tags = ""
	}
	title := truncate.StringWithTail(item.Title(), uint(titleWidth), "...") //nolint:gosec // width is clamped above

	line := indicator + pin + badge + " " + titleStyle.Render(title) + tags

	if m.showPreview {
		line += "\n    " + m.renderSnippet(item, width-4)
	}
	return line
}

// renderSnippet renders the first content line, squashed to one row.
func (m Model) renderSnippet(item *domain.Item, width int) string {
	snippetStyle := lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)

	text := item.Content()
	if item.Kind() == domain.KindBookmark && text == "" {
		text = item.URL()
	}
	text = firstLine(text)
	if text == "" {
		return snippetStyle.Render("-")
	}
	if width < 4 {
		width = 4
	}
	return snippetStyle.Render(truncate.StringWithTail(text, uint(width), "...")) //nolint:gosec // width is clamped above
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// kindBadge returns a one-cell colored marker for the item kind.
func kindBadge(kind domain.ItemKind) string {
	switch kind {
	case domain.KindBookmark:
		return styles.KindBookmarkStyle.Render("B")
	case domain.KindNote:
		return styles.KindNoteStyle.Render("N")
	case domain.KindPrompt:
		return styles.KindPromptStyle.Render("P")
	default:
		return "?"
	}
}

// PadLabel pads a label to a fixed display width, accounting for wide
// runes in titles.
func PadLabel(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
