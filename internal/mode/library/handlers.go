package library

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/log"
	"github.com/zjrosen/tiddly/internal/ui/commandpalette"
	"github.com/zjrosen/tiddly/internal/ui/modal"
	"github.com/zjrosen/tiddly/internal/ui/sidebar"
	"github.com/zjrosen/tiddly/internal/ui/toaster"
)

// handleKey routes key messages to the appropriate handler based on view mode.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.view {
	case ViewBrowse:
		return m.handleBrowseKey(msg)
	case ViewHelp:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "?", "q":
			m.view = ViewBrowse
			return m, nil
		}
		return m, nil
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewNewItemModal, ViewEditItemModal, ViewNewListModal, ViewDeleteConfirm:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	case ViewPalette, ViewTagPicker, ViewListPicker:
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Dismiss error on any key press except quit
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

	case key.Matches(msg, m.keymap.Refresh):
		m.manualRefreshed = true
		m.autoRefreshed = false
		return m, tea.Batch(m.refreshCmd(), scheduleRefreshIndicatorClear())

	case key.Matches(msg, m.keymap.Left):
		m.pane = PaneSidebar
		m.sidebar = m.sidebar.Focus()
		m.items = m.items.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.Right):
		m.pane = PaneItems
		m.sidebar = m.sidebar.Blur()
		m.items = m.items.Focus()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if m.pane == PaneSidebar {
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.CursorUp()
			return m, cmd
		}
		var cmd tea.Cmd
		m.items, cmd = m.items.CursorUp()
		return m, cmd

	case key.Matches(msg, m.keymap.Down):
		if m.pane == PaneSidebar {
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.CursorDown()
			return m, cmd
		}
		var cmd tea.Cmd
		m.items, cmd = m.items.CursorDown()
		return m, cmd

	case key.Matches(msg, m.keymap.NextSection):
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.NextSection()
		return m, cmd

	case key.Matches(msg, m.keymap.PrevSection):
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.PrevSection()
		return m, cmd

	case key.Matches(msg, m.keymap.MoveSectionUp):
		return m.moveSection(-1)

	case key.Matches(msg, m.keymap.MoveSectionDown):
		return m.moveSection(1)

	case key.Matches(msg, m.keymap.Open):
		if item, ok := m.items.Selected(); ok {
			return m, func() tea.Msg { return OpenEditorMsg{Item: item} }
		}
		return m, nil

	case key.Matches(msg, m.keymap.New):
		return m.openNewItemModal(m.newItemKind)

	case key.Matches(msg, m.keymap.Edit):
		return m.openEditItemModal()

	case key.Matches(msg, m.keymap.Delete):
		return m.openDeleteConfirm()

	case key.Matches(msg, m.keymap.Pin):
		return m.togglePin()

	case key.Matches(msg, m.keymap.ArchiveItem):
		return m.toggleArchive()

	case key.Matches(msg, m.keymap.Yank):
		return m.yankSelected()

	case key.Matches(msg, m.keymap.AddToList):
		return m.openListPicker()

	case key.Matches(msg, m.keymap.Search):
		m.view = ViewSearch
		m.search.SetValue(m.filter.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Filter):
		return m.openTagPicker()

	case key.Matches(msg, m.keymap.Palette):
		return m.openCommandPalette()

	case key.Matches(msg, m.keymap.Escape):
		// Clear an active search or tag filter
		if m.filter.Search != "" || m.filter.Tag != "" {
			m.filter.Search = ""
			if m.filter.Tag != "" && m.filter.Kind == "" {
				m.filter.Tag = ""
				m.filterTitle = "All Items"
			}
			return m, m.loadItemsCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewBrowse
		m.search.Blur()
		m.search.SetValue("")
		if m.filter.Search != "" {
			m.filter.Search = ""
			return m, m.loadItemsCmd()
		}
		return m, nil

	case "enter":
		m.view = ViewBrowse
		m.search.Blur()
		m.filter.Search = strings.TrimSpace(m.search.Value())
		m.listGUID = ""
		if m.filter.Search != "" {
			m.filterTitle = "Search"
		}
		return m, m.loadItemsCmd()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.view != ViewBrowse {
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.HandleMouse(msg)
	if cmd != nil {
		m.pane = PaneSidebar
		m.sidebar = m.sidebar.Focus()
		m.items = m.items.Blur()
		cmds = append(cmds, cmd)
	}
	m.items, cmd = m.items.HandleMouse(msg)
	if cmd != nil {
		m.pane = PaneItems
		m.sidebar = m.sidebar.Blur()
		m.items = m.items.Focus()
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// moveSection shifts the sidebar section under the cursor and persists
// the new order to the config file.
func (m Model) moveSection(delta int) (Model, tea.Cmd) {
	row, ok := m.sidebar.Selected()
	if !ok || row.Kind != sidebar.RowSection {
		return m, nil
	}

	order := m.services.Config.SidebarOrder()
	index := -1
	for i, s := range order {
		if s == row.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return m, nil
	}

	if err := config.MoveSection(m.configPath(), order, index, delta); err != nil {
		log.ErrorErr(log.CatConfig, "failed to move sidebar section", err, "section", row.ID)
		m.err = err
		m.errContext = "moving section"
		return m, scheduleErrorClear()
	}

	target := index + delta
	if target < 0 || target >= len(order) {
		return m, nil
	}
	order[index], order[target] = order[target], order[index]
	m.services.Config.UI.SidebarOrder = order

	return m, m.loadAllCmd()
}

// configPath returns the config path or default.
func (m Model) configPath() string {
	if m.services.ConfigPath == "" {
		return config.DefaultConfigPath()
	}
	return m.services.ConfigPath
}

func (m Model) openNewItemModal(kind domain.ItemKind) (Model, tea.Cmd) {
	m.newItemKind = kind
	m.modal = modal.New(modal.Config{
		Title:          "New " + titleForKind(kind),
		ConfirmVariant: modal.ButtonPrimary,
		Inputs:         itemInputs(kind, nil),
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewNewItemModal
	return m, m.modal.Init()
}

func (m Model) openEditItemModal() (Model, tea.Cmd) {
	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}

	m.editingID = item.ID()
	m.modal = modal.New(modal.Config{
		Title:          "Edit Item",
		ConfirmVariant: modal.ButtonPrimary,
		Inputs:         itemInputs(item.Kind(), item),
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewEditItemModal
	return m, m.modal.Init()
}

// itemInputs builds the modal fields for an item kind, pre-filled from
// an existing item when editing.
func itemInputs(kind domain.ItemKind, item *domain.Item) []modal.InputConfig {
	var title, url, tags string
	if item != nil {
		title = item.Title()
		url = item.URL()
		tags = strings.Join(item.Tags(), ", ")
	}

	inputs := []modal.InputConfig{
		{Key: "title", Label: "Title", Placeholder: "Enter title...", Value: title, MaxLength: 200},
	}
	if kind == domain.KindBookmark {
		inputs = append(inputs, modal.InputConfig{
			Key: "url", Label: "URL", Placeholder: "https://...", Value: url, MaxLength: 2000,
		})
	}
	inputs = append(inputs, modal.InputConfig{
		Key: "tags", Label: "Tags", Placeholder: "comma, separated", Value: tags, Optional: true, MaxLength: 200,
	})
	return inputs
}

func (m Model) openNewListModal() (Model, tea.Cmd) {
	m.modal = modal.New(modal.Config{
		Title:          "New List",
		ConfirmVariant: modal.ButtonPrimary,
		Inputs: []modal.InputConfig{
			{Key: "name", Label: "Name", Placeholder: "Enter list name...", MaxLength: 100},
		},
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewNewListModal
	return m, m.modal.Init()
}

func (m Model) openDeleteConfirm() (Model, tea.Cmd) {
	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}

	m.pendingDeleteID = item.ID()
	m.modal = modal.New(modal.Config{
		Title:          "Delete Item",
		Message:        fmt.Sprintf("Delete '%s'? It can be restored until the next purge.", item.Title()),
		ConfirmVariant: modal.ButtonDanger,
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewDeleteConfirm
	return m, m.modal.Init()
}

func (m Model) handleModalSubmit(msg modal.SubmitMsg) (Model, tea.Cmd) {
	switch m.view {
	case ViewNewItemModal:
		m.view = ViewBrowse
		kind := m.newItemKind
		item := domain.NewItem(uuid.New().String(), kind, strings.TrimSpace(msg.Values["title"]))
		item.SetURL(strings.TrimSpace(msg.Values["url"]))
		item.SetTags(parseTags(msg.Values["tags"]))
		return m, m.saveItemCmd(item, "Created")

	case ViewEditItemModal:
		m.view = ViewBrowse
		id := m.editingID
		m.editingID = 0
		item, ok := m.items.Selected()
		if !ok || item.ID() != id {
			return m, nil
		}
		item.SetTitle(strings.TrimSpace(msg.Values["title"]))
		if item.Kind() == domain.KindBookmark {
			item.SetURL(strings.TrimSpace(msg.Values["url"]))
		}
		item.SetTags(parseTags(msg.Values["tags"]))
		return m, m.saveItemCmd(item, "Updated")

	case ViewNewListModal:
		m.view = ViewBrowse
		name := strings.TrimSpace(msg.Values["name"])
		repo := m.services.Lists
		return m, func() tea.Msg {
			list := domain.NewList(uuid.New().String(), name)
			return listSavedMsg{name: name, err: repo.Save(list)}
		}

	case ViewDeleteConfirm:
		m.view = ViewBrowse
		id := m.pendingDeleteID
		m.pendingDeleteID = 0
		return m, m.deleteItemCmd(id)
	}

	return m, nil
}

func (m Model) saveItemCmd(item *domain.Item, action string) tea.Cmd {
	repo := m.services.Items
	return func() tea.Msg {
		err := repo.Save(item)
		return itemSavedMsg{action: action, title: item.Title(), err: err}
	}
}

func (m Model) deleteItemCmd(id int64) tea.Cmd {
	repo := m.services.Items
	return func() tea.Msg {
		return itemDeletedMsg{err: repo.Delete(id)}
	}
}

func (m Model) togglePin() (Model, tea.Cmd) {
	// On a sidebar list row, pin toggles the list instead of an item
	if m.pane == PaneSidebar {
		if row, ok := m.sidebar.Selected(); ok && row.Kind == sidebar.RowList {
			return m.toggleListPin(row.Label)
		}
	}

	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}

	action := "Pinned"
	if item.Pinned() {
		item.Unpin()
		action = "Unpinned"
	} else {
		item.Pin()
	}
	return m, m.saveItemCmd(item, action)
}

// toggleListPin adds or removes a list from the pinned set and persists
// it to the config file. Pinned lists sort first in the sidebar.
func (m Model) toggleListPin(name string) (Model, tea.Cmd) {
	pinned := m.services.Config.UI.PinnedLists
	next := make([]string, 0, len(pinned)+1)
	action := "Pinned list"
	found := false
	for _, p := range pinned {
		if p == name {
			found = true
			continue
		}
		next = append(next, p)
	}
	if !found {
		next = append(next, name)
	} else {
		action = "Unpinned list"
	}

	if err := config.SavePinnedLists(m.configPath(), next); err != nil {
		log.ErrorErr(log.CatConfig, "failed to save pinned lists", err, "list", name)
		m.err = err
		m.errContext = "pinning list"
		return m, scheduleErrorClear()
	}
	m.services.Config.UI.PinnedLists = next

	m.toaster = m.toaster.Show(action+": "+name, toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toaster.DefaultDuration), m.loadAllCmd())
}

func (m Model) toggleArchive() (Model, tea.Cmd) {
	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}

	action := "Archived"
	if item.IsArchived() {
		item.Unarchive()
		action = "Unarchived"
	} else {
		item.Archive()
	}
	return m, m.saveItemCmd(item, action)
}

// yankSelected copies the bookmark URL, or the content for notes and
// prompts, to the system clipboard.
func (m Model) yankSelected() (Model, tea.Cmd) {
	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}

	text := item.Content()
	what := "content"
	if item.Kind() == domain.KindBookmark && item.URL() != "" {
		text = item.URL()
		what = "url"
	}
	if text == "" {
		m.toaster = m.toaster.Show("Nothing to copy", toaster.StyleWarn)
		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
	}

	if err := m.clipboard.Copy(text); err != nil {
		m.err = err
		m.errContext = "copying to clipboard"
		return m, scheduleErrorClear()
	}
	m.toaster = m.toaster.Show("Copied "+what+": "+item.Title(), toaster.StyleSuccess)
	return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
}

// Tag picker

type tagSelectedMsg struct {
	tag string
}

func (m Model) openTagPicker() (Model, tea.Cmd) {
	rows := m.sidebar.Rows()
	items := make([]commandpalette.Item, 0, len(rows))
	for _, row := range rows {
		if row.Kind != sidebar.RowTag {
			continue
		}
		desc := ""
		if row.Count >= 0 {
			desc = fmt.Sprintf("%d items", row.Count)
		}
		items = append(items, commandpalette.Item{
			ID:          row.ID,
			Name:        "#" + row.Label,
			Description: desc,
		})
	}
	if len(items) == 0 {
		m.toaster = m.toaster.Show("No tags yet", toaster.StyleInfo)
		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
	}

	m.palette = commandpalette.New(commandpalette.Config{
		Title:       "Filter by Tag",
		Placeholder: "Type to filter tags...",
		Items:       items,
		OnSelect: func(item commandpalette.Item) tea.Msg {
			return tagSelectedMsg{tag: item.ID}
		},
	}).SetSize(m.width, m.height)
	m.view = ViewTagPicker
	return m, m.palette.Init()
}

// List picker

// openListPicker shows the lists the selected item can be added to or
// removed from.
func (m Model) openListPicker() (Model, tea.Cmd) {
	item, ok := m.items.Selected()
	if !ok {
		return m, nil
	}
	if len(m.lists) == 0 {
		m.toaster = m.toaster.Show("No lists yet", toaster.StyleInfo)
		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)
	}

	items := make([]commandpalette.Item, 0, len(m.lists))
	for _, list := range m.lists {
		desc := fmt.Sprintf("%d items", list.Len())
		if list.Contains(item.ID()) {
			desc += " · remove"
		}
		items = append(items, commandpalette.Item{
			ID:          list.GUID(),
			Name:        list.Name(),
			Description: desc,
		})
	}

	m.palette = commandpalette.New(commandpalette.Config{
		Title:       "Add to List",
		Placeholder: "Type to filter lists...",
		Items:       items,
		OnSelect: func(item commandpalette.Item) tea.Msg {
			return listPickedMsg{guid: item.ID}
		},
	}).SetSize(m.width, m.height)
	m.view = ViewListPicker
	return m, m.palette.Init()
}

// Command palette

type paletteActionMsg struct {
	id string
}

func (m Model) openCommandPalette() (Model, tea.Cmd) {
	items := []commandpalette.Item{
		{ID: "new-bookmark", Name: "New Bookmark", Description: "Create a bookmark"},
		{ID: "new-note", Name: "New Note", Description: "Create a note"},
		{ID: "new-prompt", Name: "New Prompt", Description: "Create a prompt"},
		{ID: "new-list", Name: "New List", Description: "Create a named list"},
		{ID: "refresh", Name: "Refresh", Description: "Reload from the database"},
		{ID: "toggle-preview", Name: "Toggle Preview", Description: "Show or hide item snippets"},
		{ID: "toggle-counts", Name: "Toggle Counts", Description: "Show or hide sidebar counts"},
		{ID: "show-archived", Name: "Show Archived", Description: "Include archived items in the listing"},
		{ID: "show-pinned", Name: "Pinned Only", Description: "Restrict the listing to pinned items"},
		{ID: "purge", Name: "Purge Deleted", Description: "Permanently remove soft-deleted items"},
	}

	m.palette = commandpalette.New(commandpalette.Config{
		Title:       "Commands",
		Placeholder: "Type a command...",
		Items:       items,
		OnSelect: func(item commandpalette.Item) tea.Msg {
			return paletteActionMsg{id: item.ID}
		},
	}).SetSize(m.width, m.height)
	m.view = ViewPalette
	return m, m.palette.Init()
}

func (m Model) handlePaletteAction(msg paletteActionMsg) (Model, tea.Cmd) {
	m.view = ViewBrowse
	log.Debug(log.CatPalette, "running palette command", "id", msg.id)

	switch msg.id {
	case "new-bookmark":
		return m.openNewItemModal(domain.KindBookmark)
	case "new-note":
		return m.openNewItemModal(domain.KindNote)
	case "new-prompt":
		return m.openNewItemModal(domain.KindPrompt)
	case "new-list":
		return m.openNewListModal()
	case "refresh":
		m.manualRefreshed = true
		return m, tea.Batch(m.refreshCmd(), scheduleRefreshIndicatorClear())
	case "toggle-preview":
		m.services.Config.UI.ShowPreview = !m.services.Config.UI.ShowPreview
		m.items = m.items.SetShowPreview(m.services.Config.UI.ShowPreview)
		return m, nil
	case "toggle-counts":
		m.services.Config.UI.ShowCounts = !m.services.Config.UI.ShowCounts
		return m, m.loadAllCmd()
	case "show-archived":
		m.filter.IncludeArchived = !m.filter.IncludeArchived
		return m, m.loadItemsCmd()
	case "show-pinned":
		m.filter.PinnedOnly = !m.filter.PinnedOnly
		return m, m.loadItemsCmd()
	case "purge":
		repo := m.services.Items
		return m, func() tea.Msg {
			return purgedMsg{err: repo.Purge()}
		}
	}
	return m, nil
}

// titleForKind returns the capitalized kind name for modal titles.
func titleForKind(kind domain.ItemKind) string {
	switch kind {
	case domain.KindBookmark:
		return "Bookmark"
	case domain.KindPrompt:
		return "Prompt"
	default:
		return "Note"
	}
}

// parseTags splits a comma separated tag string and normalizes it.
func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return domain.NormalizeTags(tags)
}
