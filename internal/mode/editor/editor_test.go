package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/infrastructure/sqlite"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/mode/shared"
	"github.com/zjrosen/tiddly/internal/testutil"
	"github.com/zjrosen/tiddly/internal/ui/modal"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	m.Run()
}

func newTestModel(t *testing.T) (Model, *sqlite.DB, *domain.Item) {
	t.Helper()

	db := testutil.NewTestDB(t)
	saved := testutil.NewBuilder(t, db).
		WithNote("note-1", "meeting notes", testutil.Content("hello world")).
		Build()

	cfg := config.Defaults()
	item := saved["note-1"]
	m := New(mode.Services{
		Items:  db.ItemRepository(),
		Lists:  db.ListRepository(),
		Config: &cfg,
	}, item).SetSize(80, 24)

	return m, db, item
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestTypingMarksDirty(t *testing.T) {
	m, _, _ := newTestModel(t)
	require.False(t, m.Dirty())

	m = typeText(m, "x")
	assert.True(t, m.Dirty())
	assert.Equal(t, "xhello world", m.Value())
}

func TestBoldToggleWrapsSelection(t *testing.T) {
	m, _, _ := newTestModel(t)

	// Select "hello" then toggle bold
	for i := 0; i < 5; i++ {
		m, _ = press(m, tea.KeyShiftRight)
	}
	m, _ = press(m, tea.KeyCtrlB)

	assert.Equal(t, "**hello** world", m.Value())

	// Toggling again unwraps
	m, _ = press(m, tea.KeyCtrlB)
	assert.Equal(t, "hello world", m.Value())
}

func TestSavePersistsContent(t *testing.T) {
	m, db, item := newTestModel(t)
	m = typeText(m, "x")

	m, cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	msg := cmd()
	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	m, _ = m.Update(msg)
	assert.False(t, m.Dirty())
	assert.True(t, m.toaster.Visible())

	got, err := db.ItemRepository().FindByID(item.ID())
	require.NoError(t, err)
	assert.Equal(t, "xhello world", got.Content())
}

func TestEscapeCleanClosesImmediately(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, CloseEditorMsg{}, cmd())
}

func TestEscapeDirtyAsksForConfirmation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "draft ")

	m, _ = press(m, tea.KeyEsc)
	require.Equal(t, ViewConfirmDiscard, m.CurrentView())
	assert.Contains(t, m.View(), "Discard")

	// Confirming emits the close message
	m, cmd := m.Update(modal.SubmitMsg{Values: map[string]string{}})
	require.NotNil(t, cmd)
	assert.IsType(t, CloseEditorMsg{}, cmd())
	assert.Equal(t, ViewEdit, m.CurrentView())
}

func TestEscapeDirtyCancelKeepsEditing(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "draft ")
	m, _ = press(m, tea.KeyEsc)

	m, _ = m.Update(modal.CancelMsg{})
	assert.Equal(t, ViewEdit, m.CurrentView())
	assert.True(t, m.Dirty())
}

func TestAutosaveSavesOnEdit(t *testing.T) {
	db := testutil.NewTestDB(t)
	saved := testutil.NewBuilder(t, db).WithNote("note-1", "n", testutil.Content("a")).Build()

	cfg := config.Defaults()
	cfg.Editor.Autosave = true
	item := saved["note-1"]
	m := New(mode.Services{Items: db.ItemRepository(), Lists: db.ListRepository(), Config: &cfg}, item).
		SetSize(80, 24)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	require.NotNil(t, cmd)

	// The batch contains the save command; run messages through Update
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			m, _ = m.Update(c())
		}
	} else {
		m, _ = m.Update(msg)
	}

	got, err := db.ItemRepository().FindByID(item.ID())
	require.NoError(t, err)
	assert.Equal(t, "ba", got.Content())
	// Autosave stays quiet
	assert.False(t, m.toaster.Visible())
}

func TestPreviewToggleSwallowsTyping(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(m, tea.KeyCtrlP)
	before := m.Value()
	m = typeText(m, "should not appear")
	assert.Equal(t, before, m.Value())

	m, _ = press(m, tea.KeyCtrlP)
	m = typeText(m, "x")
	assert.NotEqual(t, before, m.Value())
}

func TestPreviewRendersMarkdown(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(m, tea.KeyCtrlP)

	out := m.View()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "(preview)")
}

func TestDirtyTitleMarker(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.NotContains(t, m.View(), "meeting notes *")

	m = typeText(m, "x")
	assert.Contains(t, m.View(), "meeting notes *")
}

func TestPaletteCopyUsesClipboard(t *testing.T) {
	m, _, _ := newTestModel(t)
	clip := &shared.MockClipboard{}
	m = m.SetClipboard(clip)

	m, _ = m.Update(paletteActionMsg{id: "copy"})

	require.Len(t, clip.Copied, 1)
	assert.Equal(t, "hello world", clip.Copied[0])
}

func TestSlashAtLineStartOpensSnippetPalette(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.Equal(t, ViewPalette, m.CurrentView())

	m, cmd := m.Update(snippetSelectedMsg{snippet: "## "})
	assert.Equal(t, ViewEdit, m.CurrentView())
	assert.Equal(t, "## hello world", m.Value())
	_ = cmd
}

func TestSlashMidWordTypesLiteral(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(m, tea.KeyRight)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	assert.Equal(t, ViewEdit, m.CurrentView())
	assert.Equal(t, "h/ello world", m.Value())
}

func TestDiffStats(t *testing.T) {
	added, removed := diffStats("hello world", "hello brave world")
	assert.Equal(t, 6, added)
	assert.Equal(t, 0, removed)

	added, removed = diffStats("abc", "")
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, removed)
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(m, tea.KeyCtrlG)
	assert.Equal(t, ViewHelp, m.CurrentView())

	m, _ = press(m, tea.KeyEsc)
	assert.Equal(t, ViewEdit, m.CurrentView())
}
