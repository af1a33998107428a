package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/mode/editor"
	"github.com/zjrosen/tiddly/internal/mode/library"
	"github.com/zjrosen/tiddly/internal/pubsub"
	"github.com/zjrosen/tiddly/internal/testutil"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
	"github.com/zjrosen/tiddly/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.ANSI256)
	m.Run()
}

// newTestModel builds an app over a seeded database. DBPath stays empty
// so no watcher starts.
func newTestModel(t *testing.T) (Model, map[string]*domain.Item) {
	t.Helper()

	db := testutil.NewTestDB(t)
	saved := testutil.NewBuilder(t, db).WithStandardLibraryData().Build()

	cfg := config.Defaults()
	m := New(mode.Services{
		Items:  db.ItemRepository(),
		Lists:  db.ListRepository(),
		Config: &cfg,
	}, false)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), saved
}

func TestDefaultModeIsLibrary(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, mode.ModeLibrary, m.currentMode)
}

func TestWindowSizePropagates(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = updated.(Model)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 50, m.height)
	assert.NotEmpty(t, m.View())
}

func TestOpenEditorSwitchesMode(t *testing.T) {
	m, saved := newTestModel(t)

	updated, cmd := m.Update(library.OpenEditorMsg{Item: saved["note-1"]})
	m = updated.(Model)

	assert.Equal(t, mode.ModeEditor, m.currentMode)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "wal checkpointing")
}

func TestCloseEditorReturnsToLibrary(t *testing.T) {
	m, saved := newTestModel(t)

	updated, _ := m.Update(library.OpenEditorMsg{Item: saved["note-1"]})
	m = updated.(Model)
	require.Equal(t, mode.ModeEditor, m.currentMode)

	updated, cmd := m.Update(editor.CloseEditorMsg{})
	m = updated.(Model)

	assert.Equal(t, mode.ModeLibrary, m.currentMode)
	// Closing triggers a library reload
	assert.NotNil(t, cmd)
}

func TestToastShowAndDismiss(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(mode.ShowToastMsg{Message: "saved everything", Style: toaster.StyleSuccess})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.toaster.Visible())
	assert.Contains(t, m.View(), "saved everything")

	updated, _ = m.Update(toaster.DismissMsg{})
	m = updated.(Model)
	assert.False(t, m.toaster.Visible())
}

func TestDBChangeRefreshesLibraryAndRearmsListener(t *testing.T) {
	m, _ := newTestModel(t)

	// Wire a listener directly; the test model starts without a watcher
	broker := pubsub.NewBroker[watcher.Event]()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.watcherListener = pubsub.NewContinuousListener(ctx, broker)

	updated, cmd := m.Update(pubsub.Event[watcher.Event]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Event{Kind: watcher.DBChanged},
	})
	m = updated.(Model)

	assert.Equal(t, mode.ModeLibrary, m.currentMode)
	assert.NotNil(t, cmd)
}

func TestWatchErrorKeepsListening(t *testing.T) {
	m, _ := newTestModel(t)

	broker := pubsub.NewBroker[watcher.Event]()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.watcherListener = pubsub.NewContinuousListener(ctx, broker)

	_, cmd := m.Update(pubsub.Event[watcher.Event]{
		Type:    pubsub.ErrorEvent,
		Payload: watcher.Event{Kind: watcher.WatchError, Err: assert.AnError},
	})
	assert.NotNil(t, cmd)
}

func TestQuitKeyDelegatesToLibrary(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDebugOverlayToggle(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := config.Defaults()
	m := New(mode.Services{
		Items:  db.ItemRepository(),
		Lists:  db.ListRepository(),
		Config: &cfg,
	}, true)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	assert.True(t, m.logOverlay.Visible())
	assert.Contains(t, m.View(), "Logs")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	assert.False(t, m.logOverlay.Visible())
}

func TestCloseWithoutWatcherIsNoop(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NoError(t, m.Close())
}

func TestAppSmoke(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.NewBuilder(t, db).WithStandardLibraryData().Build()

	cfg := config.Defaults()
	m := New(mode.Services{
		Items:  db.ItemRepository(),
		Lists:  db.ListRepository(),
		Config: &cfg,
	}, false)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Go blog"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
