package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/tiddly/internal/domain"
)

// itemColumns is the list of columns to select for item queries.
const itemColumns = `id, guid, kind, title, url, content, pinned,
	created_at, updated_at, archived_at, deleted_at`

// itemRepository implements domain.ItemRepository using SQLite.
type itemRepository struct {
	db *sql.DB
}

// newItemRepository creates a new itemRepository instance.
func newItemRepository(db *sql.DB) *itemRepository {
	return &itemRepository{db: db}
}

// Ensure itemRepository implements domain.ItemRepository.
var _ domain.ItemRepository = (*itemRepository)(nil)

// scanItem scans a row into an ItemModel.
func scanItem(scanner interface{ Scan(...any) error }) (*ItemModel, error) {
	var model ItemModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Kind, &model.Title,
		&model.URL, &model.Content, &model.Pinned,
		&model.CreatedAt, &model.UpdatedAt, &model.ArchivedAt, &model.DeletedAt,
	)
	return &model, err
}

// Save persists an item to the database.
// For new items (ID == 0), inserts a new row and sets the item ID.
// For existing items (ID > 0), updates the existing row.
// Tag rows are replaced wholesale inside the same transaction.
func (r *itemRepository) Save(item *domain.Item) error {
	model := toItemModel(item)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if item.ID() == 0 {
		result, err := tx.Exec(
			`INSERT INTO items (
				guid, kind, title, url, content, pinned,
				created_at, updated_at, archived_at, deleted_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Kind, model.Title, model.URL, model.Content, model.Pinned,
			model.CreatedAt, model.UpdatedAt, model.ArchivedAt, model.DeletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.SetID(id)
		model.ID = id
	} else {
		_, err := tx.Exec(
			`UPDATE items SET
				kind = ?, title = ?, url = ?, content = ?, pinned = ?,
				updated_at = ?, archived_at = ?, deleted_at = ?
			WHERE id = ?`,
			model.Kind, model.Title, model.URL, model.Content, model.Pinned,
			model.UpdatedAt, model.ArchivedAt, model.DeletedAt,
			model.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM item_tags WHERE item_id = ?`, model.ID); err != nil {
		return fmt.Errorf("failed to clear item tags: %w", err)
	}
	for _, tag := range item.Tags() {
		if _, err := tx.Exec(
			`INSERT INTO item_tags (item_id, tag) VALUES (?, ?)`,
			model.ID, tag,
		); err != nil {
			return fmt.Errorf("failed to insert item tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item save: %w", err)
	}
	return nil
}

// FindByID retrieves an item by its internal database ID.
// Returns ItemNotFoundError if no matching item exists.
// Soft-deleted items are not returned.
func (r *itemRepository) FindByID(id int64) (*domain.Item, error) {
	row := r.db.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	model, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ItemNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item by id: %w", err)
	}

	tags, err := r.tagsForItem(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(tags), nil
}

// FindByGUID retrieves an item by its GUID.
// Returns ItemNotFoundError if no matching item exists.
// Soft-deleted items are not returned.
func (r *itemRepository) FindByGUID(guid string) (*domain.Item, error) {
	row := r.db.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE guid = ? AND deleted_at IS NULL`,
		guid,
	)
	model, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ItemNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item by guid: %w", err)
	}

	tags, err := r.tagsForItem(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(tags), nil
}

// ListWithFilter retrieves items matching the given filter criteria.
// Results are ordered pinned-first, then by updated_at descending.
func (r *itemRepository) ListWithFilter(filter domain.ItemFilter) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}

	if filter.Tag != "" {
		query += ` AND EXISTS (SELECT 1 FROM item_tags WHERE item_id = items.id AND tag = ?)`
		args = append(args, filter.Tag)
	}

	if filter.Search != "" {
		// LIKE is case-insensitive for ASCII in sqlite
		pattern := "%" + filter.Search + "%"
		query += ` AND (title LIKE ? OR url LIKE ? OR content LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}

	if filter.PinnedOnly {
		query += ` AND pinned = 1`
	}

	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	if !filter.IncludeArchived {
		query += ` AND archived_at IS NULL`
	}

	query += ` ORDER BY pinned DESC, updated_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var models []*ItemModel
	for rows.Next() {
		model, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	tagsByItem, err := r.tagsForAll()
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Item, 0, len(models))
	for _, model := range models {
		items = append(items, model.toDomain(tagsByItem[model.ID]))
	}
	return items, nil
}

// TagCounts returns every tag in use on live items with its item count,
// ordered by tag name.
func (r *itemRepository) TagCounts() ([]domain.TagCount, error) {
	rows, err := r.db.Query(
		`SELECT t.tag, COUNT(*) FROM item_tags t
		 JOIN items i ON i.id = t.item_id
		 WHERE i.deleted_at IS NULL AND i.archived_at IS NULL
		 GROUP BY t.tag ORDER BY t.tag`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []domain.TagCount
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag counts: %w", err)
	}
	return counts, nil
}

// Delete performs a soft delete by setting the deletedAt timestamp.
// Returns ItemNotFoundError if no matching live item exists.
func (r *itemRepository) Delete(id int64) error {
	now := time.Now().Unix()
	result, err := r.db.Exec(
		`UPDATE items SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ItemNotFoundError{ID: id}
	}
	return nil
}

// Purge permanently removes all soft-deleted items. Tag and list
// membership rows cascade.
func (r *itemRepository) Purge() error {
	if _, err := r.db.Exec(`DELETE FROM items WHERE deleted_at IS NOT NULL`); err != nil {
		return fmt.Errorf("failed to purge items: %w", err)
	}
	return nil
}

func (r *itemRepository) tagsForItem(id int64) ([]string, error) {
	rows, err := r.db.Query(`SELECT tag FROM item_tags WHERE item_id = ? ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load item tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan item tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item tags: %w", err)
	}
	return tags, nil
}

func (r *itemRepository) tagsForAll() (map[int64][]string, error) {
	rows, err := r.db.Query(`SELECT item_id, tag FROM item_tags ORDER BY item_id, tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to load item tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan item tag: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item tags: %w", err)
	}
	return tags, nil
}
