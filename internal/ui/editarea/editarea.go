// Package editarea provides the markdown editing buffer for editor mode.
//
// The buffer tracks a cursor and an optional selection anchor in rune
// coordinates, while exposing byte offsets for the marker toggle logic.
// Marker toggling (bold, italic, strikethrough, highlight, inline code)
// goes through the toggle package so one code path serves both the
// collapsed-cursor and selection cases.
package editarea

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tiddly/internal/toggle"
	"github.com/zjrosen/tiddly/internal/ui/styles"
)

// Model holds the edit buffer state.
type Model struct {
	lines []string

	row int // cursor line index
	col int // cursor rune index within the line

	anchorRow int
	anchorCol int
	selecting bool

	scrollOffset     int
	focused          bool
	highlightMarkers bool
	width            int
	height           int
}

// New creates an empty edit buffer.
func New() Model {
	return Model{lines: []string{""}}
}

// SetValue replaces the buffer content and moves the cursor to the start.
func (m Model) SetValue(s string) Model {
	m.lines = strings.Split(s, "\n")
	m.row, m.col = 0, 0
	m.selecting = false
	m.scrollOffset = 0
	return m
}

// Value returns the buffer content.
func (m Model) Value() string {
	return strings.Join(m.lines, "\n")
}

// SetSize updates the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.ensureCursorVisible()
}

// Focus marks the buffer as receiving input.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the buffer receives input.
func (m Model) Focused() bool {
	return m.focused
}

// SetHighlightMarkers toggles dimmed styling of inline marker runes.
func (m Model) SetHighlightMarkers(on bool) Model {
	m.highlightMarkers = on
	return m
}

// Cursor returns the cursor position as (line, rune column).
func (m Model) Cursor() (row, col int) {
	return m.row, m.col
}

// Selecting reports whether a selection is active.
func (m Model) Selecting() bool {
	return m.selecting
}

// SelectedText returns the text inside the active selection.
func (m Model) SelectedText() string {
	if !m.selecting {
		return ""
	}
	start, end := m.selectionRange()
	return m.Value()[start:end]
}

// InsertText inserts text at the cursor, replacing any active selection.
func (m Model) InsertText(text string) Model {
	return m.insertText(text).ensureCursorVisible()
}

// AtWordStart reports whether the cursor sits at the start of a line or
// right after whitespace.
func (m Model) AtWordStart() bool {
	if m.col == 0 {
		return true
	}
	line := []rune(m.lines[m.row])
	if m.col > len(line) {
		return true
	}
	return unicode.IsSpace(line[m.col-1])
}

// offsetAt converts (row, rune col) to a byte offset in Value().
func (m Model) offsetAt(row, col int) int {
	off := 0
	for i := 0; i < row; i++ {
		off += len(m.lines[i]) + 1 // +1 for the newline
	}
	runes := []rune(m.lines[row])
	if col > len(runes) {
		col = len(runes)
	}
	return off + len(string(runes[:col]))
}

// posAt converts a byte offset back to (row, rune col).
func (m Model) posAt(offset int) (row, col int) {
	for i, line := range m.lines {
		lineLen := len(line)
		if offset <= lineLen {
			return i, len([]rune(line[:offset]))
		}
		offset -= lineLen + 1
	}
	last := len(m.lines) - 1
	return last, len([]rune(m.lines[last]))
}

// selectionRange returns the selection as ordered byte offsets. With no
// active selection both offsets equal the cursor offset.
func (m Model) selectionRange() (start, end int) {
	cur := m.offsetAt(m.row, m.col)
	if !m.selecting {
		return cur, cur
	}
	anchor := m.offsetAt(m.anchorRow, m.anchorCol)
	if anchor <= cur {
		return anchor, cur
	}
	return cur, anchor
}

// startSelection drops the anchor at the cursor if none is active.
func (m Model) startSelection() Model {
	if !m.selecting {
		m.selecting = true
		m.anchorRow = m.row
		m.anchorCol = m.col
	}
	return m
}

// ClearSelection drops the active selection.
func (m Model) ClearSelection() Model {
	m.selecting = false
	return m
}

// ToggleMarker applies the marker toggle at the cursor or selection.
// The resulting selection mirrors what the toggle produced: the inner
// text for wraps and unwraps, a collapsed cursor between fresh markers
// for inserts.
func (m Model) ToggleMarker(marker toggle.Marker) Model {
	doc := m.Value()
	start, end := m.selectionRange()

	edit := toggle.Apply(toggle.Probe(doc, start, end, marker), marker)

	replaceFrom := start - edit.TrimBefore
	replaceTo := end + edit.TrimAfter
	newDoc := doc[:replaceFrom] + edit.Text + doc[replaceTo:]

	m.lines = strings.Split(newDoc, "\n")

	selStart := replaceFrom + edit.SelStart
	selEnd := replaceFrom + edit.SelEnd
	m.row, m.col = m.posAt(selEnd)
	if selStart == selEnd {
		m.selecting = false
	} else {
		m.selecting = true
		m.anchorRow, m.anchorCol = m.posAt(selStart)
	}
	return m.ensureCursorVisible()
}

// Update handles key input for the buffer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyRunes:
		m = m.insertText(string(keyMsg.Runes))
	case tea.KeySpace:
		m = m.insertText(" ")
	case tea.KeyTab:
		m = m.insertText("\t")
	case tea.KeyEnter:
		m = m.insertText("\n")
	case tea.KeyBackspace:
		m = m.backspace()
	case tea.KeyDelete:
		m = m.deleteForward()
	case tea.KeyLeft:
		m = m.ClearSelection().cursorLeft()
	case tea.KeyRight:
		m = m.ClearSelection().cursorRight()
	case tea.KeyUp:
		m = m.ClearSelection().cursorUp()
	case tea.KeyDown:
		m = m.ClearSelection().cursorDown()
	case tea.KeyShiftLeft:
		m = m.startSelection().cursorLeft()
	case tea.KeyShiftRight:
		m = m.startSelection().cursorRight()
	case tea.KeyShiftUp:
		m = m.startSelection().cursorUp()
	case tea.KeyShiftDown:
		m = m.startSelection().cursorDown()
	case tea.KeyHome, tea.KeyCtrlA:
		m.col = 0
		m.selecting = false
	case tea.KeyEnd, tea.KeyCtrlE:
		m.col = len([]rune(m.lines[m.row]))
		m.selecting = false
	}

	return m.ensureCursorVisible(), nil
}

// insertText replaces the selection (if any) with text.
func (m Model) insertText(text string) Model {
	doc := m.Value()
	start, end := m.selectionRange()

	newDoc := doc[:start] + text + doc[end:]
	m.lines = strings.Split(newDoc, "\n")
	m.row, m.col = m.posAt(start + len(text))
	m.selecting = false
	return m
}

// backspace deletes the selection, or the rune before the cursor.
func (m Model) backspace() Model {
	doc := m.Value()
	start, end := m.selectionRange()

	if start == end {
		if start == 0 {
			return m
		}
		// Step back one rune
		_, size := lastRune(doc[:start])
		start -= size
	}

	newDoc := doc[:start] + doc[end:]
	m.lines = strings.Split(newDoc, "\n")
	m.row, m.col = m.posAt(start)
	m.selecting = false
	return m
}

// deleteForward deletes the selection, or the rune under the cursor.
func (m Model) deleteForward() Model {
	doc := m.Value()
	start, end := m.selectionRange()

	if start == end {
		if end >= len(doc) {
			return m
		}
		_, size := firstRune(doc[end:])
		end += size
	}

	newDoc := doc[:start] + doc[end:]
	m.lines = strings.Split(newDoc, "\n")
	m.row, m.col = m.posAt(start)
	m.selecting = false
	return m
}

func lastRune(s string) (rune, int) {
	r := []rune(s)
	last := r[len(r)-1]
	return last, len(string(last))
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func (m Model) cursorLeft() Model {
	if m.col > 0 {
		m.col--
	} else if m.row > 0 {
		m.row--
		m.col = len([]rune(m.lines[m.row]))
	}
	return m
}

func (m Model) cursorRight() Model {
	if m.col < len([]rune(m.lines[m.row])) {
		m.col++
	} else if m.row < len(m.lines)-1 {
		m.row++
		m.col = 0
	}
	return m
}

func (m Model) cursorUp() Model {
	if m.row > 0 {
		m.row--
		m.col = clampCol(m.lines[m.row], m.col)
	} else {
		m.col = 0
	}
	return m
}

func (m Model) cursorDown() Model {
	if m.row < len(m.lines)-1 {
		m.row++
		m.col = clampCol(m.lines[m.row], m.col)
	} else {
		m.col = len([]rune(m.lines[m.row]))
	}
	return m
}

func clampCol(line string, col int) int {
	if n := len([]rune(line)); col > n {
		return n
	}
	return col
}

// visibleLines returns how many buffer lines fit in the viewport.
func (m Model) visibleLines() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

// ensureCursorVisible adjusts the scroll offset to keep the cursor row
// in view.
func (m Model) ensureCursorVisible() Model {
	visible := m.visibleLines()
	if m.row >= m.scrollOffset+visible {
		m.scrollOffset = m.row - visible + 1
	}
	if m.row < m.scrollOffset {
		m.scrollOffset = m.row
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	return m
}

// isMarkerRune reports whether r is an inline marker character.
func isMarkerRune(r rune) bool {
	switch r {
	case '*', '_', '~', '=', '`':
		return true
	}
	return false
}

// View renders the visible buffer lines with cursor, selection, and
// optional marker styling.
func (m Model) View() string {
	selStart, selEnd := m.selectionRange()
	cursorOff := m.offsetAt(m.row, m.col)

	cursorStyle := lipgloss.NewStyle().Reverse(true)
	selStyle := lipgloss.NewStyle().Background(styles.BorderHighlightColor).Foreground(styles.ButtonTextColor)

	var b strings.Builder
	end := m.scrollOffset + m.visibleLines()
	if end > len(m.lines) {
		end = len(m.lines)
	}

	off := m.offsetAt(m.scrollOffset, 0)
	for i := m.scrollOffset; i < end; i++ {
		if i > m.scrollOffset {
			b.WriteString("\n")
		}
		line := m.lines[i]
		cursorDrawn := false
		for _, r := range line {
			size := len(string(r))
			switch {
			case m.focused && off == cursorOff:
				b.WriteString(cursorStyle.Render(string(r)))
				cursorDrawn = true
			case m.selecting && off >= selStart && off < selEnd:
				b.WriteString(selStyle.Render(string(r)))
			case m.highlightMarkers && isMarkerRune(r):
				b.WriteString(styles.MarkerStyle.Render(string(r)))
			default:
				b.WriteString(string(r))
			}
			off += size
		}
		// Cursor sits past the end of the line
		if m.focused && !cursorDrawn && off == cursorOff {
			b.WriteString(cursorStyle.Render(" "))
		}
		off++ // the newline
	}

	return b.String()
}
