package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// ErrItemNotFound is returned when an item lookup fails.
var ErrItemNotFound = errors.New("item not found")

// ItemRepo encapsulates all database queries related to items. Items
// have no direct owner column; ownership flows through the parent list,
// which is why the owned-items query joins lists.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo constructs an ItemRepo with the provided DB handle.
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

const itemCols = "id, list_id, name, done, status, created_at, updated_at"

func scanItem(row *sql.Row) (*model.Item, error) {
	var i model.Item
	err := row.Scan(&i.ID, &i.ListID, &i.Name, &i.Done, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Create inserts a new active item and populates the struct from the
// stored row.
func (r *ItemRepo) Create(ctx context.Context, i *model.Item) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO items (list_id, name, done, status) VALUES (?, ?, ?, ?)",
		i.ListID, i.Name, i.Done, model.StatusActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	i.ID = uint64(id)

	stored, err := r.GetActiveByID(ctx, i.ID)
	if err != nil {
		return err
	}
	*i = *stored
	return nil
}

// GetActiveByID fetches an active item by id. Archived or missing rows
// both yield ErrItemNotFound.
func (r *ItemRepo) GetActiveByID(ctx context.Context, id uint64) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		"SELECT "+itemCols+" FROM items WHERE id = ? AND status = ? LIMIT 1",
		id, model.StatusActive))
}

// ListActiveOwnedBy returns every active item whose parent list is active
// and owned by the given user, ordered by item id.
func (r *ItemRepo) ListActiveOwnedBy(ctx context.Context, userID uint64) ([]*model.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.list_id, i.name, i.done, i.status, i.created_at, i.updated_at
		 FROM items i
		 JOIN lists l ON l.id = i.list_id
		 WHERE l.user_id = ? AND l.status = ? AND i.status = ?
		 ORDER BY i.id`,
		userID, model.StatusActive, model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Item
	for rows.Next() {
		i := new(model.Item)
		if err := rows.Scan(&i.ID, &i.ListID, &i.Name, &i.Done, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update stores new name and done values for an active item and reloads
// the record.
func (r *ItemRepo) Update(ctx context.Context, i *model.Item) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, done = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		i.Name, i.Done, i.ID, model.StatusActive)
	if err != nil {
		return err
	}
	stored, err := r.GetActiveByID(ctx, i.ID)
	if err != nil {
		return err
	}
	*i = *stored
	return nil
}

// Archive transitions an item to archived. Items are leaves of the
// ownership tree, so no cascade fires. Archiving an already archived
// item is a no-op; an unknown id yields ErrItemNotFound.
func (r *ItemRepo) Archive(ctx context.Context, id uint64) error {
	var status model.Status
	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM items WHERE id = ? LIMIT 1", id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return err
	}
	if status == model.StatusArchived {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusArchived, id, model.StatusActive)
	return err
}
