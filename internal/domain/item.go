// Package domain provides the pure domain layer for Tiddly items and lists
// with no infrastructure dependencies.
//
// The entities keep their state unexported; construction goes through
// NewItem/NewList for fresh records and the Reconstitute functions when
// hydrating from the database. Mutators bump updatedAt so the persistence
// layer never has to remember to.
package domain

import (
	"strings"
	"time"
)

// ItemKind classifies what an item is.
type ItemKind string

const (
	// KindBookmark is a saved URL with optional notes.
	KindBookmark ItemKind = "bookmark"

	// KindNote is a freestanding markdown note.
	KindNote ItemKind = "note"

	// KindPrompt is a reusable prompt template.
	KindPrompt ItemKind = "prompt"
)

// String returns the string representation of the kind.
func (k ItemKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the recognized item kinds.
func (k ItemKind) IsValid() bool {
	switch k {
	case KindBookmark, KindNote, KindPrompt:
		return true
	default:
		return false
	}
}

// Item is the central entity: one bookmark, note, or prompt with markdown
// content and a flat tag set.
type Item struct {
	id      int64
	guid    string
	kind    ItemKind
	title   string
	url     string
	content string
	tags    []string

	pinned bool

	createdAt  time.Time
	updatedAt  time.Time
	archivedAt *time.Time
	deletedAt  *time.Time
}

// NewItem creates a fresh item of the given kind. The ID stays zero until
// the persistence layer assigns one.
func NewItem(guid string, kind ItemKind, title string) *Item {
	now := time.Now()
	return &Item{
		guid:      guid,
		kind:      kind,
		title:     title,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteItem rebuilds an Item from stored data. All fields are
// provided explicitly; no timestamps are touched.
func ReconstituteItem(
	id int64,
	guid string,
	kind ItemKind,
	title, url, content string,
	tags []string,
	pinned bool,
	createdAt, updatedAt time.Time,
	archivedAt, deletedAt *time.Time,
) *Item {
	return &Item{
		id:         id,
		guid:       guid,
		kind:       kind,
		title:      title,
		url:        url,
		content:    content,
		tags:       tags,
		pinned:     pinned,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		archivedAt: archivedAt,
		deletedAt:  deletedAt,
	}
}

// ID returns the database identifier, zero for unpersisted items.
func (i *Item) ID() int64 { return i.id }

// GUID returns the globally unique identifier.
func (i *Item) GUID() string { return i.guid }

// Kind returns the item kind.
func (i *Item) Kind() ItemKind { return i.kind }

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// URL returns the bookmark URL, empty for notes and prompts.
func (i *Item) URL() string { return i.url }

// Content returns the markdown body.
func (i *Item) Content() string { return i.content }

// Tags returns the item's tags.
func (i *Item) Tags() []string { return i.tags }

// Pinned returns whether the item is pinned to the top of listings.
func (i *Item) Pinned() bool { return i.pinned }

// CreatedAt returns when the item was created.
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns when the item was last modified.
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// ArchivedAt returns when the item was archived, or nil.
func (i *Item) ArchivedAt() *time.Time { return i.archivedAt }

// DeletedAt returns when the item was soft-deleted, or nil.
func (i *Item) DeletedAt() *time.Time { return i.deletedAt }

// IsArchived returns true if the item has been archived.
func (i *Item) IsArchived() bool { return i.archivedAt != nil }

// IsDeleted returns true if the item has been soft-deleted.
func (i *Item) IsDeleted() bool { return i.deletedAt != nil }

// SetID assigns the database identifier. Called by the persistence layer
// after the first insert.
func (i *Item) SetID(id int64) { i.id = id }

// SetTitle updates the display title.
func (i *Item) SetTitle(title string) {
	i.title = title
	i.updatedAt = time.Now()
}

// SetURL updates the bookmark URL.
func (i *Item) SetURL(url string) {
	i.url = url
	i.updatedAt = time.Now()
}

// SetContent replaces the markdown body.
func (i *Item) SetContent(content string) {
	i.content = content
	i.updatedAt = time.Now()
}

// SetTags replaces the tag set. Tags are normalized to lowercase with
// surrounding whitespace stripped; empties and duplicates are dropped.
func (i *Item) SetTags(tags []string) {
	i.tags = NormalizeTags(tags)
	i.updatedAt = time.Now()
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range i.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pin pins the item.
func (i *Item) Pin() {
	i.pinned = true
	i.updatedAt = time.Now()
}

// Unpin unpins the item.
func (i *Item) Unpin() {
	i.pinned = false
	i.updatedAt = time.Now()
}

// Archive marks the item as archived.
func (i *Item) Archive() {
	now := time.Now()
	i.archivedAt = &now
	i.updatedAt = now
}

// Unarchive clears the archived marker.
func (i *Item) Unarchive() {
	i.archivedAt = nil
	i.updatedAt = time.Now()
}

// SoftDelete marks the item as deleted without removing it from storage.
func (i *Item) SoftDelete() {
	now := time.Now()
	i.deletedAt = &now
	i.updatedAt = now
}

// Restore clears the soft-delete marker.
func (i *Item) Restore() {
	i.deletedAt = nil
	i.updatedAt = time.Now()
}

// NormalizeTags lowercases and trims tags, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
