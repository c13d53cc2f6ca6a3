package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/utils"
)

// ErrKeyNotFound is returned when an API key lookup fails.
var ErrKeyNotFound = errors.New("api key not found")

// APIKeyRepo mints, renews and validates opaque bearer tokens stored in
// the api_keys table. Tokens are globally unique: issuance checks the
// candidate against existing rows and regenerates on collision, and the
// unique index on access_token backstops the check-then-insert race by
// forcing a retry on a duplicate-key insert.
type APIKeyRepo struct {
	db *sql.DB
}

// NewAPIKeyRepo constructs an APIKeyRepo with the provided DB handle.
func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

const keyCols = "id, user_id, access_token, expires_at, status, created_at, updated_at"

func scanKey(row *sql.Row) (*model.APIKey, error) {
	var k model.APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.AccessToken, &k.ExpiresAt, &k.Status, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return &k, nil
}

// Issue mints a new key for the user. The access token is regenerated
// until it matches no stored key; the uniqueness check runs on every
// iteration, never just the first. expiresAt is stored as given (callers
// default it to now + model.DefaultKeyTTL).
func (r *APIKeyRepo) Issue(ctx context.Context, userID uint64, expiresAt time.Time) (*model.APIKey, error) {
	for {
		token, err := utils.NewAccessToken()
		if err != nil {
			return nil, err
		}

		var exists bool
		err = r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM api_keys WHERE access_token = ?)", token).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		res, err := r.db.ExecContext(ctx,
			"INSERT INTO api_keys (user_id, access_token, expires_at, status) VALUES (?, ?, ?, ?)",
			userID, token, expiresAt.UTC(), model.StatusActive)
		if err != nil {
			// 1062: another issuance won the race for this token value.
			if strings.Contains(err.Error(), "1062") {
				continue
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return r.GetByID(ctx, uint64(id))
	}
}

// GetByID fetches a key by id regardless of status.
func (r *APIKeyRepo) GetByID(ctx context.Context, id uint64) (*model.APIKey, error) {
	return scanKey(r.db.QueryRowContext(ctx,
		"SELECT "+keyCols+" FROM api_keys WHERE id = ? LIMIT 1", id))
}

// Renew extends an existing key to now + ttl without rotating the token
// value. ErrKeyNotFound is returned when the id matches no active key.
func (r *APIKeyRepo) Renew(ctx context.Context, id uint64, ttl time.Duration) (*model.APIKey, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET expires_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		time.Now().UTC().Add(ttl), id, model.StatusActive)
	if err != nil {
		return nil, err
	}
	k, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if k.Status != model.StatusActive {
		return nil, ErrKeyNotFound
	}
	return k, nil
}

// ValidateToken resolves a bearer token to its key by exact match.
// An unknown or archived token yields ErrKeyNotFound; a known token past
// its expiry yields ErrKeyExpired. Expiry uses a strict comparison: a
// token presented exactly at its expires_at instant is still valid.
func (r *APIKeyRepo) ValidateToken(ctx context.Context, token string, now time.Time) (*model.APIKey, error) {
	k, err := scanKey(r.db.QueryRowContext(ctx,
		"SELECT "+keyCols+" FROM api_keys WHERE access_token = ? LIMIT 1", token))
	if err != nil {
		return nil, err
	}
	if k.Status != model.StatusActive {
		return nil, ErrKeyNotFound
	}
	if now.After(k.ExpiresAt) {
		return nil, ErrKeyExpired
	}
	return k, nil
}
