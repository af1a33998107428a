package testutil

import (
	"github.com/zjrosen/tiddly/internal/domain"
)

// ItemOption mutates an item before it is persisted by the builder.
type ItemOption func(*domain.Item)

// URL sets the item URL.
func URL(url string) ItemOption {
	return func(i *domain.Item) { i.SetURL(url) }
}

// Content sets the item content.
func Content(content string) ItemOption {
	return func(i *domain.Item) { i.SetContent(content) }
}

// Tags sets the item tags.
func Tags(tags ...string) ItemOption {
	return func(i *domain.Item) { i.SetTags(tags) }
}

// Pinned pins the item.
func Pinned() ItemOption {
	return func(i *domain.Item) { i.Pin() }
}

// Archived archives the item.
func Archived() ItemOption {
	return func(i *domain.Item) { i.Archive() }
}
