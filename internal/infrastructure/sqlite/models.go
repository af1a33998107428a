package sqlite

import (
	"time"

	"github.com/zjrosen/tiddly/internal/domain"
)

// ItemModel represents the database row for the items table.
// Fields map directly to SQL columns with Unix timestamps for time values.
// Tags live in the item_tags table and are attached separately.
type ItemModel struct {
	ID      int64
	GUID    string
	Kind    string
	Title   string
	URL     *string // nullable
	Content *string // nullable
	Pinned  bool

	CreatedAt  int64  // Unix timestamp
	UpdatedAt  int64  // Unix timestamp
	ArchivedAt *int64 // Unix timestamp, nullable
	DeletedAt  *int64 // Unix timestamp, nullable
}

// toItemModel converts a domain Item entity to a database ItemModel.
func toItemModel(item *domain.Item) *ItemModel {
	m := &ItemModel{
		ID:        item.ID(),
		GUID:      item.GUID(),
		Kind:      string(item.Kind()),
		Title:     item.Title(),
		Pinned:    item.Pinned(),
		CreatedAt: item.CreatedAt().Unix(),
		UpdatedAt: item.UpdatedAt().Unix(),
	}
	if item.URL() != "" {
		url := item.URL()
		m.URL = &url
	}
	if item.Content() != "" {
		content := item.Content()
		m.Content = &content
	}
	if item.ArchivedAt() != nil {
		archivedAt := item.ArchivedAt().Unix()
		m.ArchivedAt = &archivedAt
	}
	if item.DeletedAt() != nil {
		deletedAt := item.DeletedAt().Unix()
		m.DeletedAt = &deletedAt
	}
	return m
}

// toDomain converts a database ItemModel plus its tags to a domain Item.
func (m *ItemModel) toDomain(tags []string) *domain.Item {
	var url, content string
	if m.URL != nil {
		url = *m.URL
	}
	if m.Content != nil {
		content = *m.Content
	}
	var archivedAt *time.Time
	if m.ArchivedAt != nil {
		t := time.Unix(*m.ArchivedAt, 0)
		archivedAt = &t
	}
	var deletedAt *time.Time
	if m.DeletedAt != nil {
		t := time.Unix(*m.DeletedAt, 0)
		deletedAt = &t
	}
	return domain.ReconstituteItem(
		m.ID,
		m.GUID,
		domain.ItemKind(m.Kind),
		m.Title,
		url,
		content,
		tags,
		m.Pinned,
		time.Unix(m.CreatedAt, 0),
		time.Unix(m.UpdatedAt, 0),
		archivedAt,
		deletedAt,
	)
}

// ListModel represents the database row for the lists table.
// Membership lives in the list_items table and is attached separately.
type ListModel struct {
	ID   int64
	GUID string
	Name string

	CreatedAt int64  // Unix timestamp
	UpdatedAt int64  // Unix timestamp
	DeletedAt *int64 // Unix timestamp, nullable
}

// toListModel converts a domain List entity to a database ListModel.
func toListModel(list *domain.List) *ListModel {
	m := &ListModel{
		ID:        list.ID(),
		GUID:      list.GUID(),
		Name:      list.Name(),
		CreatedAt: list.CreatedAt().Unix(),
		UpdatedAt: list.UpdatedAt().Unix(),
	}
	if list.DeletedAt() != nil {
		deletedAt := list.DeletedAt().Unix()
		m.DeletedAt = &deletedAt
	}
	return m
}

// toDomain converts a database ListModel plus its membership to a domain List.
func (m *ListModel) toDomain(itemIDs []int64) *domain.List {
	var deletedAt *time.Time
	if m.DeletedAt != nil {
		t := time.Unix(*m.DeletedAt, 0)
		deletedAt = &t
	}
	return domain.ReconstituteList(
		m.ID,
		m.GUID,
		m.Name,
		itemIDs,
		time.Unix(m.CreatedAt, 0),
		time.Unix(m.UpdatedAt, 0),
		deletedAt,
	)
}
