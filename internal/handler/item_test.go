package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

var (
	testListColumns = []string{"id", "user_id", "name", "permissions", "status", "created_at", "updated_at"}
	testItemColumns = []string{"id", "list_id", "name", "done", "status", "created_at", "updated_at"}
)

func activeListRow(id, userID uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(testListColumns).
		AddRow(id, userID, "groceries", string(model.PermissionViewable), string(model.StatusActive), now, now)
}

func activeItemRow(id, listID uint64, name string, done bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(testItemColumns).
		AddRow(id, listID, name, done, string(model.StatusActive), now, now)
}

func newItemHandler(t *testing.T) (*ItemHandler, sqlmock.Sqlmock) {
	t.Helper()
	mock, db := newMockDB(t)
	return NewItemHandler(repository.NewItemRepo(db), repository.NewListRepo(db)), mock
}

func TestItemCreateHandler(t *testing.T) {
	t.Run("done defaults to false", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 4))
		mock.ExpectExec("INSERT INTO items").
			WithArgs(uint64(11), "milk", false, string(model.StatusActive)).
			WillReturnResult(sqlmock.NewResult(21, 1))
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id").
			WillReturnRows(activeItemRow(21, 11, "milk", false))

		c, rec := newJSONCtx(t, http.MethodPost, "/api/lists/11/items",
			`{"item":{"name":"milk"}}`, 4)
		c.SetParamNames("list_id")
		c.SetParamValues("11")

		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"done":false`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's list is an ownership denial", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 9))

		c, rec := newJSONCtx(t, http.MethodPost, "/api/lists/11/items",
			`{"item":{"name":"milk"}}`, 4)
		c.SetParamNames("list_id")
		c.SetParamValues("11")

		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"message":"you are not the list owner"}`, rec.Body.String())
	})

	t.Run("an unknown list is not found, not denied", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(sqlmock.NewRows(testListColumns))

		c, rec := newJSONCtx(t, http.MethodPost, "/api/lists/99/items",
			`{"item":{"name":"milk"}}`, 4)
		c.SetParamNames("list_id")
		c.SetParamValues("99")

		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"list not found"}`, rec.Body.String())
	})

	t.Run("a blank name fails validation", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 4))

		c, rec := newJSONCtx(t, http.MethodPost, "/api/lists/11/items",
			`{"item":{"name":"  "}}`, 4)
		c.SetParamNames("list_id")
		c.SetParamValues("11")

		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"errors":["Name can't be blank"]}`, rec.Body.String())
	})
}

func TestItemUpdateHandler(t *testing.T) {
	t.Run("a null done fails inclusion validation", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 4))
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id").
			WillReturnRows(activeItemRow(21, 11, "milk", false))

		c, rec := newJSONCtx(t, http.MethodPatch, "/api/lists/11/items/21",
			`{"item":{"name":"oat milk","done":null}}`, 4)
		c.SetParamNames("list_id", "id")
		c.SetParamValues("11", "21")

		assert.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"errors":["Done is not included in the list"]}`, rec.Body.String())
	})

	t.Run("updates name and done together", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 4))
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id").
			WillReturnRows(activeItemRow(21, 11, "milk", false))
		mock.ExpectExec("UPDATE items SET name").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id").
			WillReturnRows(activeItemRow(21, 11, "oat milk", true))

		c, rec := newJSONCtx(t, http.MethodPatch, "/api/lists/11/items/21",
			`{"item":{"name":"oat milk","done":true}}`, 4)
		c.SetParamNames("list_id", "id")
		c.SetParamValues("11", "21")

		assert.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"done":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an item hanging off a different list is not found", func(t *testing.T) {
		h, mock := newItemHandler(t)

		mock.ExpectQuery("SELECT (.+) FROM lists WHERE id").
			WillReturnRows(activeListRow(11, 4))
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id").
			WillReturnRows(activeItemRow(21, 12, "milk", false))

		c, rec := newJSONCtx(t, http.MethodPatch, "/api/lists/11/items/21",
			`{"item":{"name":"milk","done":true}}`, 4)
		c.SetParamNames("list_id", "id")
		c.SetParamValues("11", "21")

		assert.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"item not found"}`, rec.Body.String())
	})
}
