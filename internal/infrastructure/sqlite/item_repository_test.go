package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestItemRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := db.ItemRepository()

	t.Run("insert assigns an id", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindBookmark, "go blog")
		item.SetURL("https://go.dev/blog")
		item.SetTags([]string{"go", "reading"})

		require.NoError(t, repo.Save(item))
		assert.Greater(t, item.ID(), int64(0))
	})

	t.Run("find by id round trips all fields", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindNote, "scratch")
		item.SetContent("# heading\n\nbody")
		item.SetTags([]string{"b", "a"})
		item.Pin()
		require.NoError(t, repo.Save(item))

		found, err := repo.FindByID(item.ID())
		require.NoError(t, err)
		assert.Equal(t, item.GUID(), found.GUID())
		assert.Equal(t, domain.KindNote, found.Kind())
		assert.Equal(t, "scratch", found.Title())
		assert.Equal(t, "# heading\n\nbody", found.Content())
		assert.Equal(t, []string{"a", "b"}, found.Tags())
		assert.True(t, found.Pinned())
	})

	t.Run("find by guid", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindPrompt, "review prompt")
		require.NoError(t, repo.Save(item))

		found, err := repo.FindByGUID(item.GUID())
		require.NoError(t, err)
		assert.Equal(t, item.ID(), found.ID())
	})

	t.Run("missing id yields ItemNotFoundError", func(t *testing.T) {
		_, err := repo.FindByID(99999)
		var notFound *domain.ItemNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, int64(99999), notFound.ID)
	})

	t.Run("update replaces tags", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindNote, "tagged")
		item.SetTags([]string{"old"})
		require.NoError(t, repo.Save(item))

		item.SetTags([]string{"new", "fresh"})
		require.NoError(t, repo.Save(item))

		found, err := repo.FindByID(item.ID())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"new", "fresh"}, found.Tags())
	})
}

func TestItemRepository_ListWithFilter(t *testing.T) {
	db := newTestDB(t)
	repo := db.ItemRepository()

	seed := func(kind domain.ItemKind, title string, tags ...string) *domain.Item {
		item := domain.NewItem(uuid.NewString(), kind, title)
		item.SetTags(tags)
		require.NoError(t, repo.Save(item))
		return item
	}

	bookmark := seed(domain.KindBookmark, "go blog", "go")
	note := seed(domain.KindNote, "meeting notes", "work")
	prompt := seed(domain.KindPrompt, "code review", "work", "go")

	archived := seed(domain.KindNote, "stale")
	archived.Archive()
	require.NoError(t, repo.Save(archived))

	deleted := seed(domain.KindNote, "trash")
	require.NoError(t, repo.Delete(deleted.ID()))

	t.Run("default excludes archived and deleted", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("filter by kind", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{Kind: domain.KindBookmark})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, bookmark.ID(), items[0].ID())
	})

	t.Run("filter by tag", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{Tag: "work"})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("search matches title", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{Search: "meeting"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, note.ID(), items[0].ID())
	})

	t.Run("pinned items sort first", func(t *testing.T) {
		prompt.Pin()
		require.NoError(t, repo.Save(prompt))

		items, err := repo.ListWithFilter(domain.ItemFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, prompt.ID(), items[0].ID())
	})

	t.Run("include archived", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{IncludeArchived: true})
		require.NoError(t, err)
		assert.Len(t, items, 4)
	})

	t.Run("limit caps results", func(t *testing.T) {
		items, err := repo.ListWithFilter(domain.ItemFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestItemRepository_TagCounts(t *testing.T) {
	db := newTestDB(t)
	repo := db.ItemRepository()

	for _, tags := range [][]string{{"go", "tui"}, {"go"}, {"zeta"}} {
		item := domain.NewItem(uuid.NewString(), domain.KindNote, "n")
		item.SetTags(tags)
		require.NoError(t, repo.Save(item))
	}

	// Deleted items drop out of counts
	dead := domain.NewItem(uuid.NewString(), domain.KindNote, "dead")
	dead.SetTags([]string{"go"})
	require.NoError(t, repo.Save(dead))
	require.NoError(t, repo.Delete(dead.ID()))

	counts, err := repo.TagCounts()
	require.NoError(t, err)
	assert.Equal(t, []domain.TagCount{
		{Tag: "go", Count: 2},
		{Tag: "tui", Count: 1},
		{Tag: "zeta", Count: 1},
	}, counts)
}

func TestItemRepository_DeleteAndPurge(t *testing.T) {
	db := newTestDB(t)
	repo := db.ItemRepository()

	t.Run("delete is soft", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindNote, "bye")
		require.NoError(t, repo.Save(item))
		require.NoError(t, repo.Delete(item.ID()))

		_, err := repo.FindByID(item.ID())
		var notFound *domain.ItemNotFoundError
		assert.ErrorAs(t, err, &notFound)

		items, err := repo.ListWithFilter(domain.ItemFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.NotEmpty(t, items)
	})

	t.Run("delete of missing item errors", func(t *testing.T) {
		var notFound *domain.ItemNotFoundError
		assert.ErrorAs(t, repo.Delete(424242), &notFound)
	})

	t.Run("double delete errors", func(t *testing.T) {
		item := domain.NewItem(uuid.NewString(), domain.KindNote, "twice")
		require.NoError(t, repo.Save(item))
		require.NoError(t, repo.Delete(item.ID()))

		var notFound *domain.ItemNotFoundError
		assert.ErrorAs(t, repo.Delete(item.ID()), &notFound)
	})

	t.Run("purge removes deleted rows for good", func(t *testing.T) {
		require.NoError(t, repo.Purge())

		items, err := repo.ListWithFilter(domain.ItemFilter{IncludeDeleted: true, IncludeArchived: true})
		require.NoError(t, err)
		for _, item := range items {
			assert.False(t, item.IsDeleted())
		}
	})
}
