package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/tiddly/internal/domain"
)

// listColumns is the list of columns to select for list queries.
const listColumns = `id, guid, name, created_at, updated_at, deleted_at`

// listRepository implements domain.ListRepository using SQLite.
type listRepository struct {
	db *sql.DB
}

// newListRepository creates a new listRepository instance.
func newListRepository(db *sql.DB) *listRepository {
	return &listRepository{db: db}
}

// Ensure listRepository implements domain.ListRepository.
var _ domain.ListRepository = (*listRepository)(nil)

// scanList scans a row into a ListModel.
func scanList(scanner interface{ Scan(...any) error }) (*ListModel, error) {
	var model ListModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Name,
		&model.CreatedAt, &model.UpdatedAt, &model.DeletedAt,
	)
	return &model, err
}

// Save persists a list and its membership.
// For new lists (ID == 0), inserts a new row and sets the list ID.
// For existing lists (ID > 0), updates the existing row.
// Membership rows are replaced wholesale inside the same transaction so
// positions always match the entity's order.
func (r *listRepository) Save(list *domain.List) error {
	model := toListModel(list)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if list.ID() == 0 {
		result, err := tx.Exec(
			`INSERT INTO lists (guid, name, created_at, updated_at, deleted_at)
			 VALUES (?, ?, ?, ?, ?)`,
			model.GUID, model.Name, model.CreatedAt, model.UpdatedAt, model.DeletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert list: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		list.SetID(id)
		model.ID = id
	} else {
		_, err := tx.Exec(
			`UPDATE lists SET name = ?, updated_at = ?, deleted_at = ? WHERE id = ?`,
			model.Name, model.UpdatedAt, model.DeletedAt, model.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update list: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM list_items WHERE list_id = ?`, model.ID); err != nil {
		return fmt.Errorf("failed to clear list membership: %w", err)
	}
	for pos, itemID := range list.ItemIDs() {
		if _, err := tx.Exec(
			`INSERT INTO list_items (list_id, item_id, position) VALUES (?, ?, ?)`,
			model.ID, itemID, pos,
		); err != nil {
			return fmt.Errorf("failed to insert list membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit list save: %w", err)
	}
	return nil
}

// FindByID retrieves a list by its internal database ID.
// Returns ListNotFoundError if no matching list exists.
func (r *listRepository) FindByID(id int64) (*domain.List, error) {
	row := r.db.QueryRow(
		`SELECT `+listColumns+` FROM lists WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	model, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ListNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find list by id: %w", err)
	}

	itemIDs, err := r.memberIDs(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(itemIDs), nil
}

// FindByName retrieves a list by its name.
// Returns ListNotFoundError if no matching list exists.
func (r *listRepository) FindByName(name string) (*domain.List, error) {
	row := r.db.QueryRow(
		`SELECT `+listColumns+` FROM lists WHERE name = ? AND deleted_at IS NULL`,
		name,
	)
	model, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ListNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find list by name: %w", err)
	}

	itemIDs, err := r.memberIDs(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(itemIDs), nil
}

// All retrieves every live list, ordered by name, with membership loaded.
func (r *listRepository) All() ([]*domain.List, error) {
	rows, err := r.db.Query(
		`SELECT ` + listColumns + ` FROM lists WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var models []*ListModel
	for rows.Next() {
		model, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list rows: %w", err)
	}

	lists := make([]*domain.List, 0, len(models))
	for _, model := range models {
		itemIDs, err := r.memberIDs(model.ID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, model.toDomain(itemIDs))
	}
	return lists, nil
}

// Delete performs a soft delete by setting the deletedAt timestamp.
// Returns ListNotFoundError if no matching live list exists.
func (r *listRepository) Delete(id int64) error {
	now := time.Now().Unix()
	result, err := r.db.Exec(
		`UPDATE lists SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ListNotFoundError{ID: id}
	}
	return nil
}

func (r *listRepository) memberIDs(listID int64) ([]int64, error) {
	rows, err := r.db.Query(
		`SELECT item_id FROM list_items WHERE list_id = ? ORDER BY position`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load list membership: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list members: %w", err)
	}
	return ids, nil
}
