// Package mode defines the mode controller interface and shared services.
package mode

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/tiddly/internal/cachemanager"
	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
)

// AppMode identifies the current application mode.
type AppMode int

const (
	ModeLibrary AppMode = iota
	ModeEditor
)

// Controller defines the interface all modes must implement.
type Controller interface {
	// Init returns initial commands for the mode.
	Init() tea.Cmd

	// Update handles messages and returns updated model and commands.
	Update(msg tea.Msg) (Controller, tea.Cmd)

	// View renders the mode's UI.
	View() string

	// SetSize handles terminal resize events.
	SetSize(width, height int) Controller
}

// ShowToastMsg asks the app shell to surface a toast notification. Modes
// emit it when the toast should outlive a mode switch.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// Services contains shared dependencies injected into mode controllers.
type Services struct {
	Items      domain.ItemRepository
	Lists      domain.ListRepository
	ItemCache  cachemanager.CacheManager[string, []*domain.Item]
	Config     *config.Config
	ConfigPath string
	DBPath     string
}
