// Package app contains the root application model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/tiddly/internal/keys"
	"github.com/zjrosen/tiddly/internal/log"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/mode/editor"
	"github.com/zjrosen/tiddly/internal/mode/library"
	"github.com/zjrosen/tiddly/internal/pubsub"
	"github.com/zjrosen/tiddly/internal/ui/logoverlay"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
	"github.com/zjrosen/tiddly/internal/watcher"
)

// Model is the root application state.
type Model struct {
	// Mode management. The editor is built on demand when the library
	// opens an item and discarded again on close.
	currentMode mode.AppMode
	library     library.Model
	editor      editor.Model

	// Shared services (passed to mode controllers)
	services mode.Services

	// Global state
	width  int
	height int

	// Centralized toaster for notifications that outlive a mode switch
	toaster toaster.Model

	debugMode    bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	// File watcher for auto-refresh (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model. The watcher starts only when
// auto-refresh is enabled and a database path is known; the app works
// fine without it. debugMode enables the log overlay (Ctrl+X toggle).
func New(services mode.Services, debugMode bool) Model {
	var (
		watcherHandle   *watcher.Watcher
		watcherCtx      context.Context
		watcherCancel   context.CancelFunc
		watcherListener *pubsub.ContinuousListener[watcher.Event]
	)

	if services.Config.AutoRefresh && services.DBPath != "" {
		wcfg := watcher.DefaultConfig(services.DBPath)
		if ms := services.Config.Database.RefreshDebounceMS; ms > 0 {
			wcfg.DebounceDur = time.Duration(ms) * time.Millisecond
		}

		w, err := watcher.New(wcfg)
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherCtx, watcherCancel = context.WithCancel(context.Background())
				watcherListener = pubsub.NewContinuousListener(watcherCtx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are not fatal, just no auto-refresh
	}

	overlay := logoverlay.New()
	var logListenCmd tea.Cmd
	if debugMode {
		logListenCmd = overlay.StartListening()
	}

	return Model{
		currentMode:     mode.ModeLibrary,
		library:         library.New(services),
		services:        services,
		debugMode:       debugMode,
		logOverlay:      overlay,
		logListenCmd:    logListenCmd,
		watcherHandle:   watcherHandle,
		watcherCtx:      watcherCtx,
		watcherCancel:   watcherCancel,
		watcherListener: watcherListener,
	}
}

// Init implements tea.Model. The application starts in library mode.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.library.Init(),
	}

	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}

	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.library = m.library.SetSize(msg.Width, msg.Height)
		if m.currentMode == mode.ModeEditor {
			m.editor = m.editor.SetSize(msg.Width, msg.Height)
		}
		m.toaster = m.toaster.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)

		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()

		return m, nil

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, keys.ToggleLogs) {
			m.logOverlay.Toggle()
			return m, nil
		}

		// A visible log overlay takes precedence for key input
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)

			return m, cmd
		}

	case library.OpenEditorMsg:
		log.Info(log.CatMode, "Switching mode", "from", "library", "to", "editor", "item", msg.Item.GUID())
		m.currentMode = mode.ModeEditor
		m.editor = editor.New(m.services, msg.Item).SetSize(m.width, m.height)
		return m, m.editor.Init()

	case editor.CloseEditorMsg:
		log.Info(log.CatMode, "Switching mode", "from", "editor", "to", "library")
		m.currentMode = mode.ModeLibrary
		// Reload so edits made in the editor show up in the listing
		return m, m.library.Refresh()

	case pubsub.Event[watcher.Event]:
		return m.handleWatcherEvent(msg)

	case mode.ShowToastMsg:
		m.toaster = m.toaster.Show(msg.Message, msg.Style)

		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()

		return m, nil
	}

	// Delegate all other messages to the active mode controller
	switch m.currentMode {
	case mode.ModeEditor:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)

		return m, cmd

	default:
		var cmd tea.Cmd
		m.library, cmd = m.library.Update(msg)

		return m, cmd
	}
}

// handleWatcherEvent reacts to database change notifications and re-arms
// the listener so the next event is delivered.
func (m Model) handleWatcherEvent(msg pubsub.Event[watcher.Event]) (tea.Model, tea.Cmd) {
	switch msg.Payload.Kind {
	case watcher.DBChanged:
		if m.services.ItemCache != nil {
			if err := m.services.ItemCache.Flush(context.Background()); err != nil {
				log.Warn(log.CatCache, "Failed to flush item cache on DB change", "error", err)
			}
		}

		log.Debug(log.CatMode, "DB changed, refreshing active mode", "mode", m.currentMode)
		var modeCmd tea.Cmd
		if m.currentMode == mode.ModeLibrary {
			m.library, modeCmd = m.library.HandleDBChanged()
		}
		// The editor keeps its in-memory buffer; the library reloads on close
		return m, tea.Batch(modeCmd, m.listenCmd())

	case watcher.WatchError:
		log.Warn(log.CatWatcher, "Watcher error received", "error", msg.Payload.Err)
		return m, m.listenCmd()
	}

	return m, m.listenCmd()
}

func (m Model) listenCmd() tea.Cmd {
	if m.watcherListener == nil {
		return nil
	}
	return m.watcherListener.Listen()
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.currentMode {
	case mode.ModeEditor:
		view = m.editor.View()
	default:
		view = m.library.View()
	}

	// Overlay toaster on top of the active mode's view
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	// Resolve zone markers once for the whole frame so mouse hit testing
	// sees final coordinates
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logOverlay.StopListening()

	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}

	return nil
}
