package domain

import "time"

// List is a named, position-ordered collection of items. Membership is
// stored as item IDs; ordering follows the slice order.
type List struct {
	id      int64
	guid    string
	name    string
	itemIDs []int64

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewList creates a fresh empty list.
func NewList(guid, name string) *List {
	now := time.Now()
	return &List{
		guid:      guid,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteList rebuilds a List from stored data.
func ReconstituteList(
	id int64,
	guid, name string,
	itemIDs []int64,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *List {
	return &List{
		id:        id,
		guid:      guid,
		name:      name,
		itemIDs:   itemIDs,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

// ID returns the database identifier, zero for unpersisted lists.
func (l *List) ID() int64 { return l.id }

// GUID returns the globally unique identifier.
func (l *List) GUID() string { return l.guid }

// Name returns the list name.
func (l *List) Name() string { return l.name }

// ItemIDs returns the member item IDs in display order.
func (l *List) ItemIDs() []int64 { return l.itemIDs }

// Len returns the number of members.
func (l *List) Len() int { return len(l.itemIDs) }

// CreatedAt returns when the list was created.
func (l *List) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the list was last modified.
func (l *List) UpdatedAt() time.Time { return l.updatedAt }

// DeletedAt returns when the list was soft-deleted, or nil.
func (l *List) DeletedAt() *time.Time { return l.deletedAt }

// IsDeleted returns true if the list has been soft-deleted.
func (l *List) IsDeleted() bool { return l.deletedAt != nil }

// SetID assigns the database identifier after the first insert.
func (l *List) SetID(id int64) { l.id = id }

// Rename changes the list name.
func (l *List) Rename(name string) {
	l.name = name
	l.updatedAt = time.Now()
}

// Contains reports whether the item is a member of the list.
func (l *List) Contains(itemID int64) bool {
	for _, id := range l.itemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Add appends an item to the end of the list. Adding an existing member
// is a no-op.
func (l *List) Add(itemID int64) {
	if l.Contains(itemID) {
		return
	}
	l.itemIDs = append(l.itemIDs, itemID)
	l.updatedAt = time.Now()
}

// Remove drops an item from the list, closing the gap. Removing a
// non-member is a no-op.
func (l *List) Remove(itemID int64) {
	for idx, id := range l.itemIDs {
		if id == itemID {
			l.itemIDs = append(l.itemIDs[:idx], l.itemIDs[idx+1:]...)
			l.updatedAt = time.Now()
			return
		}
	}
}

// Move shifts an item to a new position, clamping the target to the list
// bounds. Moving a non-member is a no-op.
func (l *List) Move(itemID int64, pos int) {
	from := -1
	for idx, id := range l.itemIDs {
		if id == itemID {
			from = idx
			break
		}
	}
	if from == -1 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(l.itemIDs) {
		pos = len(l.itemIDs) - 1
	}
	if pos == from {
		return
	}

	l.itemIDs = append(l.itemIDs[:from], l.itemIDs[from+1:]...)
	l.itemIDs = append(l.itemIDs[:pos], append([]int64{itemID}, l.itemIDs[pos:]...)...)
	l.updatedAt = time.Now()
}

// SoftDelete marks the list as deleted without removing it from storage.
func (l *List) SoftDelete() {
	now := time.Now()
	l.deletedAt = &now
	l.updatedAt = now
}
