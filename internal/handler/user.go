package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/policy"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
)

// UserHandler bundles dependencies for user endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type createUserReq struct {
	User struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"user"`
}

// userPart is the public projection of a user. The password hash and
// status never appear in responses.
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Create handles POST /api/users. The password is bcrypt-hashed before
// storage and never echoed back.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if errs := model.ValidateUserInput(req.User.Username, req.User.Password); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	u, err := h.Users.Create(c.Request().Context(), req.User.Username, req.User.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": userPart{ID: u.ID, Username: u.Username}})
}

// Index handles GET /api/users and returns all active users.
func (h *UserHandler) Index(c echo.Context) error {
	users, err := h.Users.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Username: u.Username})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Destroy handles DELETE /api/users/:id. The user and, in the same
// transaction, all of the user's active lists, the items of those lists
// and the user's active API keys transition to archived. Only the user
// themself may archive the account.
func (h *UserHandler) Destroy(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err, ok := authorizeOwner(c, principal, id, policy.KindUser); !ok {
		return err
	}

	counts, err := h.Users.Archive(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return notFound(c, "user not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "archive failed"})
	}

	// Best effort: the cascade has committed, a broker outage must not
	// fail the request.
	_ = queue_publisher.PublishEntityArchived(c.Request().Context(), queue.EntityArchivedEvent{
		Kind:          "user",
		ID:            id,
		UserID:        id,
		ListsArchived: counts.Lists,
		ItemsArchived: counts.Items,
		KeysArchived:  counts.Keys,
		ArchivedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}
