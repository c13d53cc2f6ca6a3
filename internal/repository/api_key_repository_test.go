package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/model"
)

var keyColumns = []string{"id", "user_id", "access_token", "expires_at", "status", "created_at", "updated_at"}

func newKeyRepo(t *testing.T) (*APIKeyRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAPIKeyRepo(db), mock
}

func keyRow(id, userID uint64, token string, expiresAt time.Time, status model.Status) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(keyColumns).
		AddRow(id, userID, token, expiresAt, string(status), now, now)
}

func TestIssue(t *testing.T) {
	expiry := time.Now().UTC().Add(model.DefaultKeyTTL)

	t.Run("mints a unique token", func(t *testing.T) {
		repo, mock := newKeyRepo(t)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO api_keys").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id").
			WithArgs(uint64(7)).
			WillReturnRows(keyRow(7, 3, "aabbccddeeff00112233445566778899", expiry, model.StatusActive))

		k, err := repo.Issue(context.Background(), 3, expiry)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), k.ID)
		assert.Equal(t, uint64(3), k.UserID)
		assert.Len(t, k.AccessToken, 32)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		repo, mock := newKeyRepo(t)

		// First candidate is already taken, the second goes through.
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO api_keys").
			WillReturnResult(sqlmock.NewResult(8, 1))
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id").
			WillReturnRows(keyRow(8, 3, "00112233445566778899aabbccddeeff", expiry, model.StatusActive))

		k, err := repo.Issue(context.Background(), 3, expiry)
		require.NoError(t, err)
		assert.Equal(t, uint64(8), k.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries when the insert loses the uniqueness race", func(t *testing.T) {
		repo, mock := newKeyRepo(t)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO api_keys").
			WillReturnError(errors.New("Error 1062: Duplicate entry"))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO api_keys").
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id").
			WillReturnRows(keyRow(9, 3, "ffeeddccbbaa99887766554433221100", expiry, model.StatusActive))

		k, err := repo.Issue(context.Background(), 3, expiry)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), k.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := "aabbccddeeff00112233445566778899"

	t.Run("accepts a live token", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE access_token").
			WithArgs(token).
			WillReturnRows(keyRow(1, 2, token, now.Add(time.Hour), model.StatusActive))

		k, err := repo.ValidateToken(context.Background(), token, now)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), k.UserID)
	})

	t.Run("accepts a token exactly at its expiry instant", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE access_token").
			WithArgs(token).
			WillReturnRows(keyRow(1, 2, token, now, model.StatusActive))

		_, err := repo.ValidateToken(context.Background(), token, now)
		assert.NoError(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE access_token").
			WithArgs(token).
			WillReturnRows(keyRow(1, 2, token, now.Add(-time.Second), model.StatusActive))

		_, err := repo.ValidateToken(context.Background(), token, now)
		assert.ErrorIs(t, err, ErrKeyExpired)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE access_token").
			WithArgs(token).
			WillReturnRows(sqlmock.NewRows(keyColumns))

		_, err := repo.ValidateToken(context.Background(), token, now)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("rejects an archived token even if unexpired", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE access_token").
			WithArgs(token).
			WillReturnRows(keyRow(1, 2, token, now.Add(time.Hour), model.StatusArchived))

		_, err := repo.ValidateToken(context.Background(), token, now)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestRenew(t *testing.T) {
	t.Run("extends the expiry without rotating the token", func(t *testing.T) {
		repo, mock := newKeyRepo(t)
		token := "aabbccddeeff00112233445566778899"
		newExpiry := time.Now().UTC().Add(model.DefaultKeyTTL)

		mock.ExpectExec("UPDATE api_keys SET expires_at").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id").
			WithArgs(uint64(5)).
			WillReturnRows(keyRow(5, 2, token, newExpiry, model.StatusActive))

		k, err := repo.Renew(context.Background(), 5, model.DefaultKeyTTL)
		require.NoError(t, err)
		assert.Equal(t, token, k.AccessToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found for an archived key", func(t *testing.T) {
		repo, mock := newKeyRepo(t)

		mock.ExpectExec("UPDATE api_keys SET expires_at").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id").
			WithArgs(uint64(5)).
			WillReturnRows(keyRow(5, 2, "aabbccddeeff00112233445566778899",
				time.Now().UTC(), model.StatusArchived))

		_, err := repo.Renew(context.Background(), 5, model.DefaultKeyTTL)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}
