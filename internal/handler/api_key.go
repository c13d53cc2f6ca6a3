package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// APIKeyHandler bundles dependencies for key issuance and renewal. Both
// endpoints are Basic-only: a bearer token cannot mint or extend keys.
type APIKeyHandler struct {
	Cfg  config.Config
	Keys *repository.APIKeyRepo
}

func NewAPIKeyHandler(cfg config.Config, keys *repository.APIKeyRepo) *APIKeyHandler {
	return &APIKeyHandler{Cfg: cfg, Keys: keys}
}

// ----- DTOs -----

type createKeyReq struct {
	APIKey struct {
		ExpiresAt string `json:"expires_at"` // optional, RFC3339
	} `json:"api_key"`
}

type keyPart struct {
	ID          uint64    `json:"id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Create handles POST /api/api_keys. The key is bound to the
// Basic-authenticated principal. Expiry defaults to creation time plus
// the configured TTL; an explicit RFC3339 expiry in the body overrides
// the default, and an unparsable one fails validation.
func (h *APIKeyHandler) Create(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	expiresAt := time.Now().UTC().Add(h.Cfg.KeyTTL)
	var req createKeyReq
	// An empty body is fine; only a present, unparsable expiry is an error.
	if err := c.Bind(&req); err == nil {
		if raw := strings.TrimSpace(req.APIKey.ExpiresAt); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return validationFailed(c, []string{model.ErrExpiresAtMessage})
			}
			expiresAt = t.UTC()
		}
	}

	k, err := h.Keys.Issue(c.Request().Context(), principal, expiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create api key"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"api_key": keyPart{ID: k.ID, AccessToken: k.AccessToken, ExpiresAt: k.ExpiresAt},
	})
}

// Renew handles PATCH /api/api_keys/:id. The expiry moves to now plus
// the configured TTL; the token value is never rotated. Only the key's
// owner may renew it.
func (h *APIKeyHandler) Renew(c echo.Context) error {
	principal, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	k, err := h.Keys.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrKeyNotFound {
			return notFound(c, "api key not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if k.UserID != principal {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	k, err = h.Keys.Renew(c.Request().Context(), id, h.Cfg.KeyTTL)
	if err != nil {
		if err == repository.ErrKeyNotFound {
			return notFound(c, "api key not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "renew failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"api_key": keyPart{ID: k.ID, AccessToken: k.AccessToken, ExpiresAt: k.ExpiresAt},
	})
}
