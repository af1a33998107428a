// Package library implements the library mode controller: the sidebar of
// sections, tags, and lists next to the filtered item pane.
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tiddly/internal/cachemanager"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/keys"
	"github.com/zjrosen/tiddly/internal/log"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/mode/shared"
	"github.com/zjrosen/tiddly/internal/ui/commandpalette"
	"github.com/zjrosen/tiddly/internal/ui/itemlist"
	"github.com/zjrosen/tiddly/internal/ui/modal"
	"github.com/zjrosen/tiddly/internal/ui/overlay"
	"github.com/zjrosen/tiddly/internal/ui/sidebar"
	"github.com/zjrosen/tiddly/internal/ui/styles"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
)

// ViewMode determines which view is active within library mode.
type ViewMode int

const (
	ViewBrowse ViewMode = iota
	ViewHelp
	ViewNewItemModal
	ViewEditItemModal
	ViewNewListModal
	ViewDeleteConfirm
	ViewPalette
	ViewTagPicker
	ViewListPicker
	ViewSearch
)

// Pane identifies which pane holds keyboard focus while browsing.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneItems
)

// sidebarWidth is the fixed width of the sidebar pane.
const sidebarWidth = 28

// itemCacheTTL bounds how long a filtered item listing stays cached.
const itemCacheTTL = 30 * time.Second

// OpenEditorMsg requests switching to editor mode for an item.
type OpenEditorMsg struct {
	Item *domain.Item
}

// Model is the library mode state.
type Model struct {
	services  mode.Services
	keymap    keys.LibraryKeyMap
	clipboard shared.Clipboard
	itemQuery *cachemanager.ReadThroughCache[string, []*domain.Item, domain.ItemFilter]

	sidebar sidebar.Model
	items   itemlist.Model
	toaster toaster.Model
	modal   modal.Model
	palette commandpalette.Model
	help    help.Model
	search  textinput.Model

	view   ViewMode
	pane   Pane
	width  int
	height int

	err        error
	errContext string

	// Active filter state. listGUID is set instead of filter when a
	// list row is selected.
	filter      domain.ItemFilter
	filterTitle string
	listGUID    string
	lists       []*domain.List

	// Kind preselected for the new-item modal.
	newItemKind domain.ItemKind

	// Item pending modal confirmation or edit.
	pendingDeleteID int64
	editingID       int64

	autoRefreshed   bool
	manualRefreshed bool
}

// New creates a new library mode controller.
func New(services mode.Services) Model {
	cfg := services.Config
	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)

	search := textinput.New()
	search.Placeholder = "Search title, url, content..."
	search.Prompt = "/ "

	items := services.Items
	itemQuery := cachemanager.NewReadThroughCache(
		services.ItemCache,
		func(_ context.Context, f domain.ItemFilter) ([]*domain.Item, error) {
			return items.ListWithFilter(f)
		},
		services.ItemCache == nil,
	)

	m := Model{
		services:  services,
		keymap:    keys.DefaultLibraryKeyMap(),
		clipboard: shared.SystemClipboard{},
		itemQuery: itemQuery,
		sidebar:   sidebar.New().Focus(),
		items: itemlist.New().
			SetShowPreview(cfg.UI.ShowPreview),
		toaster:     toaster.New(),
		help:        help.New(),
		search:      search,
		view:        ViewBrowse,
		pane:        PaneSidebar,
		newItemKind: domain.KindNote,
	}

	// Start on the first configured section
	order := cfg.SidebarOrder()
	if len(order) > 0 {
		m.filter, m.filterTitle = sectionFilter(order[0])
		m.newItemKind = kindForSection(order[0])
	}
	m.items = m.items.SetTitle(m.filterTitle)

	return m
}

// SetClipboard swaps the clipboard implementation. Used in tests.
func (m Model) SetClipboard(c shared.Clipboard) Model {
	m.clipboard = c
	return m
}

// Init returns initial commands for the mode.
func (m Model) Init() tea.Cmd {
	return m.loadAllCmd()
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	paneHeight := height - 1 // Status bar
	if paneHeight < 3 {
		paneHeight = 3
	}
	m.sidebar = m.sidebar.SetSize(sidebarWidth, paneHeight)
	m.items = m.items.SetSize(max(width-sidebarWidth, 20), paneHeight)
	m.toaster = m.toaster.SetSize(width, height)
	m.search.Width = max(width-8, 20)

	if m.view == ViewNewItemModal || m.view == ViewEditItemModal ||
		m.view == ViewNewListModal || m.view == ViewDeleteConfirm {
		m.modal.SetSize(width, height)
	}
	if m.view == ViewPalette || m.view == ViewTagPicker || m.view == ViewListPicker {
		m.palette = m.palette.SetSize(width, height)
	}
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case dataLoadedMsg:
		return m.handleDataLoaded(msg)

	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg)

	case sidebar.SelectionChangedMsg:
		return m.handleSidebarSelection(msg.Row)

	case itemlist.SelectionChangedMsg:
		// Selection only matters when an action follows; nothing to do
		return m, nil

	case itemSavedMsg:
		return m.handleItemSaved(msg)

	case itemDeletedMsg:
		return m.handleItemDeleted(msg)

	case listSavedMsg:
		return m.handleListSaved(msg)

	case listPickedMsg:
		return m.handleListPicked(msg)

	case listToggledMsg:
		return m.handleListToggled(msg)

	case purgedMsg:
		if msg.err != nil {
			m.toaster = m.toaster.Show("Purge failed: "+msg.err.Error(), toaster.StyleError)
			return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
		}
		m.toaster = m.toaster.Show("Purged deleted items", toaster.StyleSuccess)
		return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.refreshCmd())

	case tagSelectedMsg:
		m.view = ViewBrowse
		m.listGUID = ""
		m.filter.Tag = msg.tag
		m.filter.Kind = ""
		m.filterTitle = "#" + msg.tag
		return m, m.loadItemsCmd()

	case paletteActionMsg:
		return m.handlePaletteAction(msg)

	case modal.SubmitMsg:
		return m.handleModalSubmit(msg)

	case modal.CancelMsg:
		m.view = ViewBrowse
		m.pendingDeleteID = 0
		m.editingID = 0
		return m, nil

	case commandpalette.CancelMsg:
		m.view = ViewBrowse
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case clearErrorMsg:
		m.err = nil
		m.errContext = ""
		return m, nil

	case clearRefreshIndicatorMsg:
		m.autoRefreshed = false
		m.manualRefreshed = false
		return m, nil
	}

	// Text-entry views need every remaining message kind (blink ticks)
	switch m.view {
	case ViewSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case ViewPalette, ViewTagPicker, ViewListPicker:
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	case ViewNewItemModal, ViewEditItemModal, ViewNewListModal, ViewDeleteConfirm:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Refresh drops cached listings and reloads everything.
func (m Model) Refresh() tea.Cmd {
	return m.refreshCmd()
}

// HandleDBChanged reacts to an external database change reported by the
// watcher: flush caches and reload in place.
func (m Model) HandleDBChanged() (Model, tea.Cmd) {
	m.autoRefreshed = true
	m.manualRefreshed = false
	return m, tea.Batch(m.refreshCmd(), scheduleRefreshIndicatorClear())
}

// Filter returns the active item filter. Exposed for tests.
func (m Model) Filter() domain.ItemFilter {
	return m.filter
}

// CurrentView returns the active view mode. Exposed for tests.
func (m Model) CurrentView() ViewMode {
	return m.view
}

// FocusedPane returns the pane holding keyboard focus.
func (m Model) FocusedPane() Pane {
	return m.pane
}

// View renders the library mode.
func (m Model) View() string {
	base := m.renderBrowse()

	switch m.view {
	case ViewHelp:
		return m.renderHelpOverlay(base)
	case ViewNewItemModal, ViewEditItemModal, ViewNewListModal, ViewDeleteConfirm:
		return m.modal.Overlay(base)
	case ViewPalette, ViewTagPicker, ViewListPicker:
		return m.palette.Overlay(base)
	default:
		return m.toaster.Overlay(base, m.width, m.height)
	}
}

func (m Model) renderBrowse() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.items.View())

	var bottom string
	switch {
	case m.view == ViewSearch:
		bottom = m.search.View()
	case m.err != nil:
		bottom = m.renderErrorBar()
	default:
		bottom = m.renderStatusBar()
	}

	return panes + "\n" + bottom
}

func (m Model) renderStatusBar() string {
	content := fmt.Sprintf("%s · %d items", m.filterTitle, len(m.items.Items()))
	if m.filter.Search != "" {
		content += fmt.Sprintf(" · search: %q", m.filter.Search)
	}
	if m.manualRefreshed {
		content += " · refreshed"
	} else if m.autoRefreshed {
		content += " · reloaded (db changed)"
	}
	return styles.StatusBarStyle.Width(m.width).Render(content)
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

// Data loading

type dataLoadedMsg struct {
	items  []*domain.Item
	title  string
	counts map[string]int
	tags   []domain.TagCount
	lists  []*domain.List
	err    error
}

type itemsLoadedMsg struct {
	items []*domain.Item
	title string
	err   error
}

type itemSavedMsg struct {
	action string // Toast verb, e.g. "Created", "Updated"
	title  string
	err    error
}

type itemDeletedMsg struct {
	err error
}

type listSavedMsg struct {
	name string
	err  error
}

type listPickedMsg struct {
	guid string
}

type listToggledMsg struct {
	list  string
	title string
	added bool
	err   error
}

type purgedMsg struct {
	err error
}

type clearErrorMsg struct{}

type clearRefreshIndicatorMsg struct{}

// filterKey builds the cache key for a filtered listing.
func filterKey(f domain.ItemFilter) string {
	return fmt.Sprintf("items|%s|%s|%s|%t|%t|%d",
		f.Kind, f.Tag, f.Search, f.PinnedOnly, f.IncludeArchived, f.Limit)
}

// loadAllCmd loads the item pane and all sidebar data in one shot.
func (m Model) loadAllCmd() tea.Cmd {
	services := m.services
	loadItems := m.itemsLoader()
	title := m.filterTitle

	return func() tea.Msg {
		items, err := loadItems()
		if err != nil {
			return dataLoadedMsg{err: err}
		}

		all, err := services.Items.ListWithFilter(domain.ItemFilter{})
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		counts := make(map[string]int)
		for _, item := range all {
			counts[sectionForKind(item.Kind())]++
		}

		tags, err := services.Items.TagCounts()
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		lists, err := services.Lists.All()
		if err != nil {
			return dataLoadedMsg{err: err}
		}

		return dataLoadedMsg{
			items:  items,
			title:  title,
			counts: counts,
			tags:   tags,
			lists:  lists,
		}
	}
}

// loadItemsCmd reloads only the item pane for the current filter.
func (m Model) loadItemsCmd() tea.Cmd {
	loadItems := m.itemsLoader()
	title := m.filterTitle
	return func() tea.Msg {
		items, err := loadItems()
		return itemsLoadedMsg{items: items, title: title, err: err}
	}
}

// itemsLoader captures the current filter as a plain loader function.
// List selections bypass the filter query and resolve membership by ID.
func (m Model) itemsLoader() func() ([]*domain.Item, error) {
	services := m.services
	query := m.itemQuery
	filter := m.filter

	if m.listGUID != "" {
		list := m.findList(m.listGUID)
		return func() ([]*domain.Item, error) {
			if list == nil {
				return nil, nil
			}
			items := make([]*domain.Item, 0, list.Len())
			for _, id := range list.ItemIDs() {
				item, err := services.Items.FindByID(id)
				if err != nil {
					// Membership can outlive the item; skip the hole
					log.Debug(log.CatMode, "list member missing", "list", list.Name(), "item_id", id)
					continue
				}
				items = append(items, item)
			}
			return items, nil
		}
	}

	return func() ([]*domain.Item, error) {
		return query.Get(context.Background(), filterKey(filter), filter, itemCacheTTL)
	}
}

// refreshCmd flushes the item cache, then reloads everything.
func (m Model) refreshCmd() tea.Cmd {
	cache := m.services.ItemCache
	load := m.loadAllCmd()
	return func() tea.Msg {
		if cache != nil {
			_ = cache.Flush(context.Background())
		}
		return load()
	}
}

func (m Model) handleDataLoaded(msg dataLoadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "library load failed", msg.err)
		m.err = msg.err
		m.errContext = "loading library"
		return m, scheduleErrorClear()
	}

	m.lists = msg.lists
	m.sidebar = m.sidebar.SetData(sidebar.Data{
		Order:       m.services.Config.SidebarOrder(),
		Counts:      msg.counts,
		Tags:        msg.tags,
		Lists:       msg.lists,
		PinnedLists: m.services.Config.UI.PinnedLists,
		ShowCounts:  m.services.Config.UI.ShowCounts,
	})
	m.items = m.items.SetTitle(msg.title).SetItems(msg.items)
	return m, nil
}

func (m Model) handleItemsLoaded(msg itemsLoadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "item load failed", msg.err)
		m.err = msg.err
		m.errContext = "loading items"
		return m, scheduleErrorClear()
	}
	m.items = m.items.SetTitle(msg.title).SetItems(msg.items)
	return m, nil
}

// handleSidebarSelection maps the selected row to an item filter and
// reloads the item pane.
func (m Model) handleSidebarSelection(row sidebar.Row) (Model, tea.Cmd) {
	m.listGUID = ""
	m.filter.Search = ""
	m.search.SetValue("")

	switch row.Kind {
	case sidebar.RowSection:
		m.filter, m.filterTitle = sectionFilter(row.ID)
		m.newItemKind = kindForSection(row.ID)
	case sidebar.RowTag:
		m.filter = domain.ItemFilter{Tag: row.ID}
		m.filterTitle = "#" + row.ID
	case sidebar.RowList:
		m.filter = domain.ItemFilter{}
		m.listGUID = row.ID
		m.filterTitle = row.Label
	}

	return m, m.loadItemsCmd()
}

func (m Model) handleItemSaved(msg itemSavedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "item save failed", msg.err)
		m.err = msg.err
		m.errContext = "saving item"
		return m, scheduleErrorClear()
	}
	m.toaster = m.toaster.Show(fmt.Sprintf("%s: %s", msg.action, msg.title), toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.refreshCmd())
}

func (m Model) handleListSaved(msg listSavedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "list save failed", msg.err)
		m.err = msg.err
		m.errContext = "saving list"
		return m, scheduleErrorClear()
	}
	m.toaster = m.toaster.Show("Created list: "+msg.name, toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.refreshCmd())
}

// handleListPicked toggles the selected item's membership in the picked
// list and persists the list.
func (m Model) handleListPicked(msg listPickedMsg) (Model, tea.Cmd) {
	m.view = ViewBrowse

	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}
	list := m.findList(msg.guid)
	if list == nil {
		return m, nil
	}

	added := !list.Contains(item.ID())
	if added {
		list.Add(item.ID())
	} else {
		list.Remove(item.ID())
	}

	repo := m.services.Lists
	return m, func() tea.Msg {
		return listToggledMsg{
			list:  list.Name(),
			title: item.Title(),
			added: added,
			err:   repo.Save(list),
		}
	}
}

func (m Model) handleListToggled(msg listToggledMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "list membership save failed", msg.err)
		m.err = msg.err
		m.errContext = "updating list"
		return m, scheduleErrorClear()
	}
	text := fmt.Sprintf("Added to %s: %s", msg.list, msg.title)
	if !msg.added {
		text = fmt.Sprintf("Removed from %s: %s", msg.list, msg.title)
	}
	m.toaster = m.toaster.Show(text, toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.refreshCmd())
}

func (m Model) handleItemDeleted(msg itemDeletedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatMode, "item delete failed", msg.err)
		m.err = msg.err
		m.errContext = "deleting item"
		return m, scheduleErrorClear()
	}
	m.toaster = m.toaster.Show("Item deleted", toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.refreshCmd())
}

func (m Model) findList(guid string) *domain.List {
	for _, l := range m.lists {
		if l.GUID() == guid {
			return l
		}
	}
	return nil
}

// sectionFilter maps a sidebar section ID to an item filter and pane title.
func sectionFilter(section string) (domain.ItemFilter, string) {
	switch section {
	case "bookmarks":
		return domain.ItemFilter{Kind: domain.KindBookmark}, "Bookmarks"
	case "notes":
		return domain.ItemFilter{Kind: domain.KindNote}, "Notes"
	case "prompts":
		return domain.ItemFilter{Kind: domain.KindPrompt}, "Prompts"
	default:
		return domain.ItemFilter{}, "All Items"
	}
}

// kindForSection maps a section to the kind preselected for new items.
func kindForSection(section string) domain.ItemKind {
	switch section {
	case "bookmarks":
		return domain.KindBookmark
	case "prompts":
		return domain.KindPrompt
	default:
		return domain.KindNote
	}
}

// sectionForKind is the inverse mapping used for sidebar counts.
func sectionForKind(kind domain.ItemKind) string {
	switch kind {
	case domain.KindBookmark:
		return "bookmarks"
	case domain.KindPrompt:
		return "prompts"
	default:
		return "notes"
	}
}

func scheduleErrorClear() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func scheduleRefreshIndicatorClear() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return clearRefreshIndicatorMsg{}
	})
}
