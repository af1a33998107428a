package domain

// ItemFilter provides filtering options for listing items.
type ItemFilter struct {
	// Kind filters items by kind. If empty, all kinds are included.
	Kind ItemKind

	// Tag filters to items carrying the given tag.
	Tag string

	// Search matches case-insensitively against title, URL, and content.
	Search string

	// PinnedOnly restricts results to pinned items.
	PinnedOnly bool

	// IncludeArchived includes archived items in results.
	// By default, archived items are excluded.
	IncludeArchived bool

	// IncludeDeleted includes soft-deleted items in results.
	// By default, deleted items are excluded.
	IncludeDeleted bool

	// Limit restricts the number of items returned. 0 means no limit.
	Limit int
}

// TagCount pairs a tag with the number of live items carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// ItemRepository defines the persistence interface for Item entities.
type ItemRepository interface {
	// Save persists an item. A zero ID inserts a new record and assigns
	// the ID; a nonzero ID updates the existing record.
	Save(item *Item) error

	// FindByID retrieves an item by its database ID.
	// Returns ItemNotFoundError if no matching item exists.
	// Soft-deleted items are not returned.
	FindByID(id int64) (*Item, error)

	// FindByGUID retrieves an item by its GUID.
	// Returns ItemNotFoundError if no matching item exists.
	// Soft-deleted items are not returned.
	FindByGUID(guid string) (*Item, error)

	// ListWithFilter retrieves items matching the filter, pinned items
	// first, then by updated_at descending.
	ListWithFilter(filter ItemFilter) ([]*Item, error)

	// TagCounts returns every tag in use with its live item count,
	// ordered by tag name.
	TagCounts() ([]TagCount, error)

	// Delete soft-deletes an item by setting its deletedAt timestamp.
	// Returns ItemNotFoundError if no matching item exists.
	Delete(id int64) error

	// Purge permanently removes all soft-deleted items.
	Purge() error
}

// ListRepository defines the persistence interface for List entities.
type ListRepository interface {
	// Save persists a list and its membership. A zero ID inserts; a
	// nonzero ID updates, replacing the membership rows.
	Save(list *List) error

	// FindByID retrieves a list by its database ID.
	// Returns ListNotFoundError if no matching list exists.
	FindByID(id int64) (*List, error)

	// FindByName retrieves a list by its name.
	// Returns ListNotFoundError if no matching list exists.
	FindByName(name string) (*List, error)

	// All retrieves every live list ordered by name.
	All() ([]*List, error)

	// Delete soft-deletes a list. Returns ListNotFoundError if no
	// matching list exists.
	Delete(id int64) error
}
