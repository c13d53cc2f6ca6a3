package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// ErrListNotFound is returned when a list lookup fails. Archived lists
// are excluded from the visible set, so a lookup that only hits an
// archived row reports not found as well.
var ErrListNotFound = errors.New("list not found")

// ListRepo encapsulates all database queries related to lists.
type ListRepo struct {
	db *sql.DB
}

// NewListRepo constructs a ListRepo with the provided DB handle.
func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{db: db}
}

const listCols = "id, user_id, name, permissions, status, created_at, updated_at"

func scanList(row *sql.Row) (*model.List, error) {
	var l model.List
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Permissions, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a new active list. On success the list's ID, status and
// timestamp fields are populated from the stored row.
func (r *ListRepo) Create(ctx context.Context, l *model.List) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO lists (user_id, name, permissions, status) VALUES (?, ?, ?, ?)",
		l.UserID, l.Name, l.Permissions, model.StatusActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	stored, err := r.GetActiveByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

// GetActiveByID fetches an active list by id. Archived or missing rows
// both yield ErrListNotFound.
func (r *ListRepo) GetActiveByID(ctx context.Context, id uint64) (*model.List, error) {
	return scanList(r.db.QueryRowContext(ctx,
		"SELECT "+listCols+" FROM lists WHERE id = ? AND status = ? LIMIT 1",
		id, model.StatusActive))
}

// ListActiveByOwner returns all active lists owned by the given user,
// ordered by id. Permission levels do not widen this set: visibility is
// ownership-only.
func (r *ListRepo) ListActiveByOwner(ctx context.Context, userID uint64) ([]*model.List, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listCols+" FROM lists WHERE user_id = ? AND status = ? ORDER BY id",
		userID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.List
	for rows.Next() {
		l := new(model.List)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Permissions, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update stores new name and permissions for an active list and reloads
// the record. ErrListNotFound is returned when no active row matched.
func (r *ListRepo) Update(ctx context.Context, l *model.List) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lists SET name = ?, permissions = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		l.Name, l.Permissions, l.ID, model.StatusActive)
	if err != nil {
		return err
	}
	// MySQL reports zero affected rows for a no-change update, so the
	// follow-up select is what decides between success and not found.
	stored, err := r.GetActiveByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

// Archive transitions a list to archived and cascades the transition to
// its active items inside one transaction. Archiving an already archived
// list is a no-op. The number of items archived is returned for event
// reporting.
func (r *ListRepo) Archive(ctx context.Context, id uint64) (items int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var status model.Status
	if err = tx.QueryRowContext(ctx,
		"SELECT status FROM lists WHERE id = ? FOR UPDATE", id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrListNotFound
		}
		return 0, err
	}
	if status == model.StatusArchived {
		return 0, nil
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE list_id = ? AND status = ?`,
		model.StatusArchived, id, model.StatusActive)
	if err != nil {
		return 0, err
	}
	items, _ = res.RowsAffected()

	_, err = tx.ExecContext(ctx,
		`UPDATE lists SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusArchived, id)
	return items, err
}
