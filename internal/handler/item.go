package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/policy"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
)

// ItemHandler bundles dependencies for item endpoints. Item ownership is
// transitive: the principal must own the parent list.
type ItemHandler struct {
	Items *repository.ItemRepo
	Lists *repository.ListRepo
}

func NewItemHandler(items *repository.ItemRepo, lists *repository.ListRepo) *ItemHandler {
	return &ItemHandler{Items: items, Lists: lists}
}

// ----- DTOs -----

type itemReq struct {
	Item struct {
		Name *string `json:"name"`
		Done *bool   `json:"done"`
	} `json:"item"`
}

// itemPart is the public projection of an item; status is excluded.
type itemPart struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Done   bool   `json:"done"`
	ListID uint64 `json:"list_id"`
}

func toItemPart(i *model.Item) itemPart {
	return itemPart{ID: i.ID, Name: i.Name, Done: i.Done, ListID: i.ListID}
}

// ownedList loads the parent list and enforces transitive ownership. It
// returns the list when the principal may act on its items, or writes
// the response and returns ok=false.
func (h *ItemHandler) ownedList(c echo.Context, principal, listID uint64) (*model.List, error, bool) {
	l, err := h.Lists.GetActiveByID(c.Request().Context(), listID)
	if err != nil {
		if err == repository.ErrListNotFound {
			return nil, notFound(c, "list not found"), false
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"}), false
	}
	if err, ok := authorizeOwner(c, principal, l.UserID, policy.KindItem); !ok {
		return nil, err, false
	}
	return l, nil, true
}

// Index handles GET /api/items and returns every active item on the
// principal's active lists.
func (h *ItemHandler) Index(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	items, err := h.Items.ListActiveOwnedBy(c.Request().Context(), principal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	out := make([]itemPart, 0, len(items))
	for _, i := range items {
		out = append(out, toItemPart(i))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create handles POST /api/lists/:list_id/items. A missing done defaults
// to false on creation.
func (h *ItemHandler) Create(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	listID, ok := pathID(c, "list_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid list_id"})
	}
	l, resp, ok := h.ownedList(c, principal, listID)
	if !ok {
		return resp
	}

	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	name := ""
	if req.Item.Name != nil {
		name = *req.Item.Name
	}
	done := false
	if req.Item.Done != nil {
		done = *req.Item.Done
	}
	if errs := model.ValidateItemInput(name, &done); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	i := &model.Item{ListID: l.ID, Name: name, Done: done}
	if err := h.Items.Create(c.Request().Context(), i); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create item"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toItemPart(i)})
}

// Update handles PATCH /api/lists/:list_id/items/:id. A null or missing
// done fails inclusion validation here: the completion flag cannot be
// silently dropped on update.
func (h *ItemHandler) Update(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	listID, ok := pathID(c, "list_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid list_id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	l, resp, ok := h.ownedList(c, principal, listID)
	if !ok {
		return resp
	}

	i, err := h.Items.GetActiveByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return notFound(c, "item not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if i.ListID != l.ID {
		return notFound(c, "item not found")
	}

	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.Item.Name != nil {
		i.Name = *req.Item.Name
	}
	if errs := model.ValidateItemInput(i.Name, req.Item.Done); len(errs) > 0 {
		return validationFailed(c, errs)
	}
	i.Done = *req.Item.Done

	if err := h.Items.Update(c.Request().Context(), i); err != nil {
		if err == repository.ErrItemNotFound {
			return notFound(c, "item not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toItemPart(i)})
}

// Destroy handles DELETE /api/lists/:list_id/items/:id. Items are leaves
// of the ownership tree, so the transition has no cascade.
func (h *ItemHandler) Destroy(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	listID, ok := pathID(c, "list_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid list_id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	l, resp, ok := h.ownedList(c, principal, listID)
	if !ok {
		return resp
	}

	i, err := h.Items.GetActiveByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return notFound(c, "item not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if i.ListID != l.ID {
		return notFound(c, "item not found")
	}

	if err := h.Items.Archive(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "archive failed"})
	}

	_ = queue_publisher.PublishEntityArchived(c.Request().Context(), queue.EntityArchivedEvent{
		Kind:       "item",
		ID:         id,
		UserID:     principal,
		ArchivedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}
