package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/domain"
)

func TestBuilderSavesItemsWithIDs(t *testing.T) {
	db := NewTestDB(t)

	saved := NewBuilder(t, db).
		WithBookmark("bm-1", "a bookmark", URL("https://example.com"), Tags("go"), Pinned()).
		WithNote("note-1", "a note", Content("body")).
		Build()

	require.Len(t, saved, 2)
	assert.NotZero(t, saved["bm-1"].ID())
	assert.NotZero(t, saved["note-1"].ID())

	got, err := db.ItemRepository().FindByGUID("bm-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindBookmark, got.Kind())
	assert.Equal(t, "https://example.com", got.URL())
	assert.True(t, got.Pinned())
}

func TestBuilderResolvesListMembersByGUID(t *testing.T) {
	db := NewTestDB(t)

	saved := NewBuilder(t, db).
		WithNote("note-1", "first").
		WithNote("note-2", "second").
		WithList("list-1", "reading", "note-1", "note-2").
		Build()

	list, err := db.ListRepository().FindByName("reading")
	require.NoError(t, err)
	assert.Equal(t, []int64{saved["note-1"].ID(), saved["note-2"].ID()}, list.ItemIDs())
}

func TestStandardLibraryData(t *testing.T) {
	db := NewTestDB(t)
	NewBuilder(t, db).WithStandardLibraryData().Build()

	items, err := db.ItemRepository().ListWithFilter(domain.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 5)

	tags, err := db.ItemRepository().TagCounts()
	require.NoError(t, err)
	assert.NotEmpty(t, tags)

	lists, err := db.ListRepository().All()
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "reading", lists[0].Name())
}
