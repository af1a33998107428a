package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/infrastructure/sqlite"
)

// Builder seeds a test database through the repositories, so the data
// passes the same write path production uses.
type Builder struct {
	t     *testing.T
	db    *sqlite.DB
	items []*domain.Item
	lists []pendingList
}

type pendingList struct {
	guid  string
	name  string
	guids []string // Member item GUIDs, resolved to IDs at Build time
}

// NewBuilder creates a builder bound to the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithBookmark queues a bookmark item.
func (b *Builder) WithBookmark(guid, title string, opts ...ItemOption) *Builder {
	return b.withItem(guid, domain.KindBookmark, title, opts)
}

// WithNote queues a note item.
func (b *Builder) WithNote(guid, title string, opts ...ItemOption) *Builder {
	return b.withItem(guid, domain.KindNote, title, opts)
}

// WithPrompt queues a prompt item.
func (b *Builder) WithPrompt(guid, title string, opts ...ItemOption) *Builder {
	return b.withItem(guid, domain.KindPrompt, title, opts)
}

func (b *Builder) withItem(guid string, kind domain.ItemKind, title string, opts []ItemOption) *Builder {
	item := domain.NewItem(guid, kind, title)
	for _, opt := range opts {
		opt(item)
	}
	b.items = append(b.items, item)
	return b
}

// WithList queues a list whose members are referenced by item GUID.
func (b *Builder) WithList(guid, name string, memberGUIDs ...string) *Builder {
	b.lists = append(b.lists, pendingList{guid: guid, name: name, guids: memberGUIDs})
	return b
}

// Build persists everything queued so far and returns the saved items
// keyed by GUID, with repository-assigned IDs filled in.
func (b *Builder) Build() map[string]*domain.Item {
	b.t.Helper()

	saved := make(map[string]*domain.Item, len(b.items))
	for _, item := range b.items {
		require.NoError(b.t, b.db.ItemRepository().Save(item))
		saved[item.GUID()] = item
	}

	for _, pending := range b.lists {
		list := domain.NewList(pending.guid, pending.name)
		for _, guid := range pending.guids {
			item, ok := saved[guid]
			require.True(b.t, ok, "list %q references unknown item %q", pending.name, guid)
			list.Add(item.ID())
		}
		require.NoError(b.t, b.db.ListRepository().Save(list))
	}

	b.items = nil
	b.lists = nil
	return saved
}
