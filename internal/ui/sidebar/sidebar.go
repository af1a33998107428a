// Package sidebar renders the library navigation pane: item kind
// sections, the tag cloud and saved lists, each with optional counts.
package sidebar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/ui/styles"
)

// RowKind classifies a sidebar row.
type RowKind int

const (
	// RowSection is a top-level section header (bookmarks, notes, ...).
	RowSection RowKind = iota
	// RowTag is a tag beneath the tags section.
	RowTag
	// RowList is a saved list beneath the lists section.
	RowList
)

// Row is one selectable line in the sidebar.
type Row struct {
	Kind   RowKind
	ID     string // section name, tag, or list GUID
	Label  string
	Count  int // -1 hides the count badge
	Pinned bool
}

// SelectionChangedMsg is sent when the cursor lands on a new row.
type SelectionChangedMsg struct {
	Row Row
}

// zoneRowPrefix is the prefix for sidebar row zone IDs.
const zoneRowPrefix = "sidebar-row:"

// RowZoneID returns the bubblezone ID for the row at index.
func RowZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneRowPrefix, index)
}

// Data is everything the sidebar needs to build its rows.
type Data struct {
	Order       []string // section order from config
	Counts      map[string]int
	Tags        []domain.TagCount
	Lists       []*domain.List
	PinnedLists []string // list names surfaced first
	ShowCounts  bool
}

// Model holds the sidebar state.
type Model struct {
	rows    []Row
	cursor  int
	focused bool
	width   int
	height  int
}

// New creates an empty sidebar.
func New() Model {
	return Model{}
}

// SetData rebuilds the row set, keeping the cursor on the same row ID
// when it still exists.
func (m Model) SetData(d Data) Model {
	var prevID string
	var prevKind RowKind
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		prevID = m.rows[m.cursor].ID
		prevKind = m.rows[m.cursor].Kind
	}

	m.rows = buildRows(d)

	m.cursor = 0
	for i, row := range m.rows {
		if row.ID == prevID && row.Kind == prevKind {
			m.cursor = i
			break
		}
	}
	return m
}

func buildRows(d Data) []Row {
	count := func(section string) int {
		if !d.ShowCounts {
			return -1
		}
		return d.Counts[section]
	}

	var rows []Row
	for _, section := range d.Order {
		switch section {
		case "tags":
			rows = append(rows, Row{Kind: RowSection, ID: "tags", Label: "Tags", Count: tagTotal(d)})
			for _, tc := range d.Tags {
				c := -1
				if d.ShowCounts {
					c = tc.Count
				}
				rows = append(rows, Row{Kind: RowTag, ID: tc.Tag, Label: tc.Tag, Count: c})
			}
		case "lists":
			listCount := -1
			if d.ShowCounts {
				listCount = len(d.Lists)
			}
			rows = append(rows, Row{Kind: RowSection, ID: "lists", Label: "Lists", Count: listCount})
			for _, l := range orderLists(d.Lists, d.PinnedLists) {
				c := -1
				if d.ShowCounts {
					c = l.Len()
				}
				rows = append(rows, Row{
					Kind:   RowList,
					ID:     l.GUID(),
					Label:  l.Name(),
					Count:  c,
					Pinned: pinnedList(d.PinnedLists, l.Name()),
				})
			}
		default:
			rows = append(rows, Row{
				Kind:  RowSection,
				ID:    section,
				Label: sectionLabel(section),
				Count: count(section),
			})
		}
	}
	return rows
}

// orderLists puts pinned lists first, both groups keeping their
// repository order.
func orderLists(lists []*domain.List, pinned []string) []*domain.List {
	if len(pinned) == 0 {
		return lists
	}
	ordered := make([]*domain.List, 0, len(lists))
	for _, l := range lists {
		if pinnedList(pinned, l.Name()) {
			ordered = append(ordered, l)
		}
	}
	for _, l := range lists {
		if !pinnedList(pinned, l.Name()) {
			ordered = append(ordered, l)
		}
	}
	return ordered
}

func pinnedList(pinned []string, name string) bool {
	for _, p := range pinned {
		if p == name {
			return true
		}
	}
	return false
}

func tagTotal(d Data) int {
	if !d.ShowCounts {
		return -1
	}
	return len(d.Tags)
}

func sectionLabel(section string) string {
	switch section {
	case "bookmarks":
		return "Bookmarks"
	case "notes":
		return "Notes"
	case "prompts":
		return "Prompts"
	default:
		return section
	}
}

// Focus marks the sidebar as the active pane.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the sidebar is the active pane.
func (m Model) Focused() bool {
	return m.focused
}

// SetSize updates the pane dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Rows returns the current row set.
func (m Model) Rows() []Row {
	return m.rows
}

// Cursor returns the current cursor index.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return Row{}, false
}

// CursorUp moves the cursor up one row.
func (m Model) CursorUp() (Model, tea.Cmd) {
	if m.cursor > 0 {
		m.cursor--
		return m, m.selectionChangedCmd()
	}
	return m, nil
}

// CursorDown moves the cursor down one row.
func (m Model) CursorDown() (Model, tea.Cmd) {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		return m, m.selectionChangedCmd()
	}
	return m, nil
}

// NextSection jumps to the next section header.
func (m Model) NextSection() (Model, tea.Cmd) {
	for i := m.cursor + 1; i < len(m.rows); i++ {
		if m.rows[i].Kind == RowSection {
			m.cursor = i
			return m, m.selectionChangedCmd()
		}
	}
	return m, nil
}

// PrevSection jumps to the previous section header.
func (m Model) PrevSection() (Model, tea.Cmd) {
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Kind == RowSection {
			m.cursor = i
			return m, m.selectionChangedCmd()
		}
	}
	return m, nil
}

// HandleMouse moves the cursor to a clicked row, if any zone matches.
func (m Model) HandleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.rows {
		if z := zone.Get(RowZoneID(i)); z != nil && z.InBounds(msg) {
			if i != m.cursor {
				m.cursor = i
				return m, m.selectionChangedCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) selectionChangedCmd() tea.Cmd {
	row := m.rows[m.cursor]
	return func() tea.Msg { return SelectionChangedMsg{Row: row} }
}

// View renders the sidebar pane with a title border.
func (m Model) View() string {
	innerWidth := m.width - 2
	if innerWidth < 4 {
		innerWidth = 4
	}

	var b strings.Builder
	for i, row := range m.rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(zone.Mark(RowZoneID(i), m.renderRow(row, i == m.cursor, innerWidth)))
	}

	return styles.RenderWithTitleBorder(
		b.String(), "Library", m.width, m.height,
		m.focused, styles.OverlayTitleColor, styles.BorderHighlightColor,
	)
}

// renderRow renders one sidebar line: indicator, label, count badge.
func (m Model) renderRow(row Row, selected bool, width int) string {
	indicator := " "
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	}

	indent := ""
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	switch row.Kind {
	case RowSection:
		labelStyle = labelStyle.Bold(true)
	case RowTag:
		indent = "  "
		labelStyle = styles.TagStyle
	case RowList:
		indent = "  "
		if row.Pinned {
			indent = " " + styles.PinStyle.Render("*")
		}
		labelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	}

	badge := styles.FormatCount(row.Count)
	badgeStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	// Label gets whatever width the badge leaves over
	labelWidth := width - lipgloss.Width(indicator) - lipgloss.Width(indent) - lipgloss.Width(badge) - 2
	label := styles.TruncateString(row.Label, labelWidth)

	line := indicator + indent + labelStyle.Render(label)
	if badge != "" {
		pad := width - lipgloss.Width(line) - lipgloss.Width(badge)
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + badgeStyle.Render(badge)
	}
	return line
}
