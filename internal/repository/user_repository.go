package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/utils"
)

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")

// UserRepo encapsulates all database queries related to users, including
// the archive cascade that fans out to the user's lists, items and API
// keys.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// userCols is the column list shared by every user SELECT.
const userCols = "id, username, password_hash, status, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create hashes the password and inserts a new active user, returning the
// fully populated record. Usernames are trimmed but not deduplicated; the
// schema does not enforce uniqueness.
func (r *UserRepo) Create(ctx context.Context, username, password string, cost int) (*model.User, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, status) VALUES (?, ?, ?)",
		username, hash, model.StatusActive)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a user by id regardless of status.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = ? LIMIT 1", id))
}

// GetActiveByUsername fetches an active user by username for Basic
// credential resolution. Password verification happens in the caller via
// a bcrypt comparison.
func (r *UserRepo) GetActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username = ? AND status = ? LIMIT 1",
		strings.TrimSpace(username), model.StatusActive))
}

// ListActive returns all active users ordered by id.
func (r *UserRepo) ListActive(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE status = ? ORDER BY id", model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ArchiveCounts reports how many rows each step of a user archive
// cascade transitioned. It feeds the archive event and tests.
type ArchiveCounts struct {
	Items int64
	Lists int64
	Keys  int64
}

// Archive transitions a user to archived and cascades the transition to
// the user's active lists, the items of those lists, and the user's
// active API keys. The whole cascade runs in one transaction: either all
// transitions commit or none do. Archiving an already archived user is a
// no-op and returns zero counts.
func (r *UserRepo) Archive(ctx context.Context, id uint64) (ArchiveCounts, error) {
	var counts ArchiveCounts
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, err
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
		"SELECT status FROM users WHERE id = ? FOR UPDATE", id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUserNotFound
		}
		return counts, err
	}
	if status == model.StatusArchived {
		// Re-archiving is idempotent; no cascade fires.
		return counts, nil
	}

	// Items first: they are reachable only through still-active lists.
	res, err := tx.ExecContext(ctx,
		`UPDATE items i
		 JOIN lists l ON l.id = i.list_id
		 SET i.status = ?, i.updated_at = CURRENT_TIMESTAMP
		 WHERE l.user_id = ? AND l.status = ? AND i.status = ?`,
		model.StatusArchived, id, model.StatusActive, model.StatusActive)
	if err != nil {
		return counts, err
	}
	counts.Items, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`UPDATE lists SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND status = ?`,
		model.StatusArchived, id, model.StatusActive)
	if err != nil {
		return counts, err
	}
	counts.Lists, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`UPDATE api_keys SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND status = ?`,
		model.StatusArchived, id, model.StatusActive)
	if err != nil {
		return counts, err
	}
	counts.Keys, _ = res.RowsAffected()

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusArchived, id)
	return counts, err
}
