// Package editor implements the markdown editor mode controller. It wraps
// the edit buffer with marker toggles, a glamour preview, save and
// discard flows, and a small command palette.
package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/keys"
	"github.com/zjrosen/tiddly/internal/log"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/mode/shared"
	"github.com/zjrosen/tiddly/internal/toggle"
	"github.com/zjrosen/tiddly/internal/ui/commandpalette"
	"github.com/zjrosen/tiddly/internal/ui/editarea"
	"github.com/zjrosen/tiddly/internal/ui/markdown"
	"github.com/zjrosen/tiddly/internal/ui/modal"
	"github.com/zjrosen/tiddly/internal/ui/overlay"
	"github.com/zjrosen/tiddly/internal/ui/styles"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
)

// ViewMode determines which view is active within editor mode.
type ViewMode int

const (
	ViewEdit ViewMode = iota
	ViewHelp
	ViewPalette
	ViewConfirmDiscard
)

// CloseEditorMsg requests switching back to library mode.
type CloseEditorMsg struct{}

// Model is the editor mode state.
type Model struct {
	services  mode.Services
	keymap    keys.EditorKeyMap
	clipboard shared.Clipboard

	item     *domain.Item
	buffer   editarea.Model
	renderer *markdown.Renderer
	toaster  toaster.Model
	modal    modal.Model
	palette  commandpalette.Model
	help     help.Model

	view        ViewMode
	showPreview bool
	savedValue  string
	width       int
	height      int

	err        error
	errContext string
}

// New creates an editor mode controller for the given item.
func New(services mode.Services, item *domain.Item) Model {
	cfg := services.Config

	buffer := editarea.New().
		SetValue(item.Content()).
		SetHighlightMarkers(cfg.Editor.HighlightMarkers).
		Focus()

	return Model{
		services:   services,
		keymap:     keys.DefaultEditorKeyMap(),
		clipboard:  shared.SystemClipboard{},
		item:       item,
		buffer:     buffer,
		toaster:    toaster.New(),
		help:       help.New(),
		view:       ViewEdit,
		savedValue: item.Content(),
	}
}

// SetClipboard swaps the clipboard implementation. Used in tests.
func (m Model) SetClipboard(c shared.Clipboard) Model {
	m.clipboard = c
	return m
}

// Init returns initial commands for the mode.
func (m Model) Init() tea.Cmd {
	return nil
}

// Item returns the item being edited.
func (m Model) Item() *domain.Item {
	return m.item
}

// Dirty reports whether the buffer differs from the last saved content.
func (m Model) Dirty() bool {
	return m.buffer.Value() != m.savedValue
}

// CurrentView returns the active view mode. Exposed for tests.
func (m Model) CurrentView() ViewMode {
	return m.view
}

// Value returns the current buffer content. Exposed for tests.
func (m Model) Value() string {
	return m.buffer.Value()
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.buffer = m.buffer.SetSize(max(width-2, 20), max(height-4, 3))
	m.toaster = m.toaster.SetSize(width, height)

	if m.renderer != nil {
		if err := m.renderer.SetWidth(m.previewWidth()); err != nil {
			log.ErrorErr(log.CatEditor, "failed to resize preview renderer", err)
		}
	}
	if m.view == ViewConfirmDiscard {
		m.modal.SetSize(width, height)
	}
	if m.view == ViewPalette {
		m.palette = m.palette.SetSize(width, height)
	}
	return m
}

func (m Model) previewWidth() int {
	return max(m.width-4, 20)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case savedMsg:
		return m.handleSaved(msg)

	case paletteActionMsg:
		return m.handlePaletteAction(msg)

	case snippetSelectedMsg:
		return m.handleSnippetSelected(msg)

	case modal.SubmitMsg:
		if m.view == ViewConfirmDiscard {
			m.view = ViewEdit
			return m, closeCmd()
		}
		return m, nil

	case modal.CancelMsg:
		m.view = ViewEdit
		return m, nil

	case commandpalette.CancelMsg:
		m.view = ViewEdit
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case clearErrorMsg:
		m.err = nil
		m.errContext = ""
		return m, nil
	}

	switch m.view {
	case ViewPalette:
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	case ViewConfirmDiscard:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.view {
	case ViewHelp:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "ctrl+g", "q":
			m.view = ViewEdit
			return m, nil
		}
		return m, nil

	case ViewPalette:
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd

	case ViewConfirmDiscard:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	// ViewEdit
	if m.err != nil && !key.Matches(msg, m.keymap.Quit) {
		m.err = nil
		m.errContext = ""
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.view = ViewHelp
		return m, nil

	case key.Matches(msg, m.keymap.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.keymap.Preview):
		return m.togglePreview()

	case key.Matches(msg, m.keymap.Palette):
		return m.openPalette()

	case key.Matches(msg, m.keymap.Bold):
		m.buffer = m.buffer.ToggleMarker(toggle.Bold)
		return m, m.autosaveCmd()

	case key.Matches(msg, m.keymap.Italic):
		m.buffer = m.buffer.ToggleMarker(toggle.Italic)
		return m, m.autosaveCmd()

	case key.Matches(msg, m.keymap.Strike):
		m.buffer = m.buffer.ToggleMarker(toggle.Strike)
		return m, m.autosaveCmd()

	case key.Matches(msg, m.keymap.Highlight):
		m.buffer = m.buffer.ToggleMarker(toggle.Highlight)
		return m, m.autosaveCmd()

	case key.Matches(msg, m.keymap.Code):
		m.buffer = m.buffer.ToggleMarker(toggle.Code)
		return m, m.autosaveCmd()

	case key.Matches(msg, m.keymap.Escape):
		return m.requestClose()
	}

	// Everything else feeds the buffer. Preview mode swallows input so
	// typing can't silently change a hidden buffer.
	if m.showPreview {
		return m, nil
	}

	// A slash at a word boundary opens the block snippet palette instead
	// of typing a literal slash
	if msg.Type == tea.KeyRunes && string(msg.Runes) == "/" && m.buffer.AtWordStart() {
		return m.openSnippetPalette()
	}
	var cmd tea.Cmd
	m.buffer, cmd = m.buffer.Update(msg)
	return m, tea.Batch(cmd, m.autosaveCmd())
}

// requestClose closes immediately when clean, saves first under
// autosave, and otherwise asks before discarding.
func (m Model) requestClose() (Model, tea.Cmd) {
	if !m.Dirty() {
		return m, closeCmd()
	}

	if m.services.Config.Editor.Autosave {
		return m, tea.Sequence(m.saveCmd(), closeCmd())
	}

	added, removed := diffStats(m.savedValue, m.buffer.Value())
	m.modal = modal.New(modal.Config{
		Title: "Discard Changes",
		Message: fmt.Sprintf("Discard unsaved changes to '%s'? (+%d/-%d chars)",
			m.item.Title(), added, removed),
		ConfirmVariant: modal.ButtonDanger,
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewConfirmDiscard
	return m, m.modal.Init()
}

// diffStats counts inserted and deleted characters between two versions.
func diffStats(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

func closeCmd() tea.Cmd {
	return func() tea.Msg { return CloseEditorMsg{} }
}

// Saving

type savedMsg struct {
	value string
	err   error
}

type clearErrorMsg struct{}

func (m Model) saveCmd() tea.Cmd {
	repo := m.services.Items
	item := m.item
	value := m.buffer.Value()
	return func() tea.Msg {
		item.SetContent(value)
		return savedMsg{value: value, err: repo.Save(item)}
	}
}

// autosaveCmd saves after every edit when autosave is enabled.
func (m Model) autosaveCmd() tea.Cmd {
	if !m.services.Config.Editor.Autosave || !m.Dirty() {
		return nil
	}
	return m.saveCmd()
}

func (m Model) handleSaved(msg savedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatEditor, "save failed", msg.err, "item", m.item.GUID())
		m.err = msg.err
		m.errContext = "saving"
		return m, scheduleErrorClear()
	}

	m.savedValue = msg.value
	if m.services.Config.Editor.Autosave {
		// Quiet save; a toast per keystroke would be noise
		return m, nil
	}
	m.toaster = m.toaster.Show("Saved: "+m.item.Title(), toaster.StyleSuccess)
	return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
}

// Preview

func (m Model) togglePreview() (Model, tea.Cmd) {
	m.showPreview = !m.showPreview
	if m.showPreview && m.renderer == nil {
		r, err := markdown.New(m.previewWidth())
		if err != nil {
			log.ErrorErr(log.CatEditor, "failed to build preview renderer", err)
			m.showPreview = false
			m.err = err
			m.errContext = "opening preview"
			return m, scheduleErrorClear()
		}
		m.renderer = r
	}
	return m, nil
}

// Command palette

type paletteActionMsg struct {
	id string
}

func (m Model) openPalette() (Model, tea.Cmd) {
	items := []commandpalette.Item{
		{ID: "save", Name: "Save", Description: "Write content back to the database"},
		{ID: "preview", Name: "Toggle Preview", Description: "Render the markdown"},
		{ID: "copy", Name: "Copy Content", Description: "Copy the buffer to the clipboard"},
		{ID: "discard", Name: "Discard and Close", Description: "Drop unsaved changes"},
	}

	m.palette = commandpalette.New(commandpalette.Config{
		Title:       "Editor Commands",
		Placeholder: "Type a command...",
		Items:       items,
		OnSelect: func(item commandpalette.Item) tea.Msg {
			return paletteActionMsg{id: item.ID}
		},
	}).SetSize(m.width, m.height)
	m.view = ViewPalette
	return m, m.palette.Init()
}

// Slash commands

type snippetSelectedMsg struct {
	snippet string
}

func (m Model) openSnippetPalette() (Model, tea.Cmd) {
	items := []commandpalette.Item{
		{ID: "h1", Name: "Heading", Description: "# "},
		{ID: "h2", Name: "Subheading", Description: "## "},
		{ID: "bullet", Name: "Bullet List", Description: "- "},
		{ID: "task", Name: "Task", Description: "- [ ] "},
		{ID: "quote", Name: "Quote", Description: "> "},
		{ID: "code", Name: "Code Block", Description: "```"},
		{ID: "divider", Name: "Divider", Description: "---"},
	}
	snippets := map[string]string{
		"h1":      "# ",
		"h2":      "## ",
		"bullet":  "- ",
		"task":    "- [ ] ",
		"quote":   "> ",
		"code":    "```\n\n```\n",
		"divider": "---\n",
	}

	m.palette = commandpalette.New(commandpalette.Config{
		Title:       "Insert Block",
		Placeholder: "Type a block name...",
		Items:       items,
		OnSelect: func(item commandpalette.Item) tea.Msg {
			return snippetSelectedMsg{snippet: snippets[item.ID]}
		},
	}).SetSize(m.width, m.height)
	m.view = ViewPalette
	return m, m.palette.Init()
}

func (m Model) handleSnippetSelected(msg snippetSelectedMsg) (Model, tea.Cmd) {
	m.view = ViewEdit
	m.buffer = m.buffer.InsertText(msg.snippet)
	return m, m.autosaveCmd()
}

func (m Model) handlePaletteAction(msg paletteActionMsg) (Model, tea.Cmd) {
	m.view = ViewEdit
	log.Debug(log.CatPalette, "running editor command", "id", msg.id)

	switch msg.id {
	case "save":
		return m, m.saveCmd()
	case "preview":
		return m.togglePreview()
	case "copy":
		if err := m.clipboard.Copy(m.buffer.Value()); err != nil {
			m.err = err
			m.errContext = "copying to clipboard"
			return m, scheduleErrorClear()
		}
		m.toaster = m.toaster.Show("Copied content", toaster.StyleSuccess)
		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
	case "discard":
		return m.requestClose()
	}
	return m, nil
}

// View renders the editor mode.
func (m Model) View() string {
	base := m.renderEditor()

	switch m.view {
	case ViewHelp:
		return m.renderHelpOverlay(base)
	case ViewConfirmDiscard:
		return m.modal.Overlay(base)
	case ViewPalette:
		return m.palette.Overlay(base)
	default:
		return m.toaster.Overlay(base, m.width, m.height)
	}
}

func (m Model) renderEditor() string {
	title := m.item.Title()
	if m.Dirty() {
		title += " *"
	}
	if m.showPreview {
		title += " (preview)"
	}

	body := m.buffer.View()
	if m.showPreview && m.renderer != nil {
		rendered, err := m.renderer.Render(m.buffer.Value())
		if err != nil {
			rendered = "preview failed: " + err.Error()
		}
		body = rendered
	}

	pane := styles.RenderWithTitleBorder(
		body, title, m.width, max(m.height-1, 3),
		true, styles.OverlayTitleColor, styles.BorderHighlightColor,
	)

	var bottom string
	if m.err != nil {
		bottom = m.renderErrorBar()
	} else {
		bottom = styles.StatusBarStyle.Width(m.width).Render(m.help.View(m.keymap))
	}

	return pane + "\n" + bottom
}

func (m Model) renderErrorBar() string {
	msg := "Error"
	if m.errContext != "" {
		msg += " " + m.errContext
	}
	msg += ": " + m.err.Error() + "  [Press any key to dismiss]"
	return styles.ErrorStyle.Width(m.width).Render(msg)
}

func (m Model) renderHelpOverlay(bg string) string {
	m.help.ShowAll = true
	content := m.help.View(m.keymap)
	box := styles.RenderWithTitleBorder(
		content, "Help", lipgloss.Width(content)+4, lipgloss.Height(content)+2,
		true, styles.OverlayTitleColor, styles.BorderHighlightColor,
	)
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, box, bg)
}

func scheduleErrorClear() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
