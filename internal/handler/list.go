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

// ListHandler bundles dependencies for list endpoints.
type ListHandler struct {
	Lists *repository.ListRepo
}

func NewListHandler(lists *repository.ListRepo) *ListHandler {
	return &ListHandler{Lists: lists}
}

// ----- DTOs -----

type listReq struct {
	List struct {
		Name        *string `json:"name"`
		Permissions *string `json:"permissions"`
	} `json:"list"`
}

// listPart is the public projection of a list; status is excluded.
type listPart struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	UserID      uint64 `json:"user_id"`
}

func toListPart(l *model.List) listPart {
	return listPart{ID: l.ID, Name: l.Name, Permissions: string(l.Permissions), UserID: l.UserID}
}

// Index handles GET /api/lists. Visibility is ownership-only: the
// response contains the principal's active lists and nothing else,
// whatever the permission levels of other users' lists say.
func (h *ListHandler) Index(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	lists, err := h.Lists.ListActiveByOwner(c.Request().Context(), principal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	out := make([]listPart, 0, len(lists))
	for _, l := range lists {
		out = append(out, toListPart(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"lists": out})
}

// Create handles POST /api/users/:user_id/lists. The path user must be
// the principal; creating a list under someone else's account is an
// ownership denial, not a not-found.
func (h *ListHandler) Create(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user_id"})
	}
	if err, ok := authorizeOwner(c, principal, userID, policy.KindList); !ok {
		return err
	}

	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	name := ""
	if req.List.Name != nil {
		name = *req.List.Name
	}
	permissions := model.DefaultPermission
	if req.List.Permissions != nil {
		permissions = model.Permission(*req.List.Permissions)
	}
	if errs := model.ValidateListInput(name, permissions); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	l := &model.List{UserID: userID, Name: name, Permissions: permissions}
	if err := h.Lists.Create(c.Request().Context(), l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create list"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"list": toListPart(l)})
}

// Update handles PATCH /api/users/:user_id/lists/:id. Fields absent from
// the body keep their stored values; provided fields are validated.
func (h *ListHandler) Update(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user_id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err, ok := authorizeOwner(c, principal, userID, policy.KindList); !ok {
		return err
	}

	l, err := h.Lists.GetActiveByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrListNotFound {
			return notFound(c, "list not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err, ok := authorizeOwner(c, principal, l.UserID, policy.KindList); !ok {
		return err
	}

	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.List.Name != nil {
		l.Name = *req.List.Name
	}
	if req.List.Permissions != nil {
		l.Permissions = model.Permission(*req.List.Permissions)
	}
	if errs := model.ValidateListInput(l.Name, l.Permissions); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if err := h.Lists.Update(c.Request().Context(), l); err != nil {
		if err == repository.ErrListNotFound {
			return notFound(c, "list not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"list": toListPart(l)})
}

// Destroy handles DELETE /api/users/:user_id/lists/:id. The list and its
// active items transition to archived in one transaction.
func (h *ListHandler) Destroy(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user_id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err, ok := authorizeOwner(c, principal, userID, policy.KindList); !ok {
		return err
	}

	l, err := h.Lists.GetActiveByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrListNotFound {
			return notFound(c, "list not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err, ok := authorizeOwner(c, principal, l.UserID, policy.KindList); !ok {
		return err
	}

	items, err := h.Lists.Archive(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "archive failed"})
	}

	_ = queue_publisher.PublishEntityArchived(c.Request().Context(), queue.EntityArchivedEvent{
		Kind:          "list",
		ID:            id,
		UserID:        principal,
		ItemsArchived: items,
		ArchivedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}
