package handler // handler defines HTTP handlers for the to-do API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/policy"
)

// getUserID extracts the principal's user id placed in the context by the
// auth middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil
}

// validationFailed renders field-constraint failures as a 422 with one
// message per failed validation, in stored validation order.
func validationFailed(c echo.Context, msgs []string) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": msgs})
}

// denied renders an ownership denial as a 403 carrying the policy's
// reason string. Denials are deliberately distinct from 404: an id that
// exists but belongs to someone else is not "not found".
func denied(c echo.Context, err *policy.DeniedError) error {
	return c.JSON(http.StatusForbidden, echo.Map{"message": err.Reason})
}

// notFound renders a missing (or archived, and therefore invisible)
// resource.
func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": msg})
}

// authorizeOwner runs the ownership policy and renders the denial when
// the check fails. The bool reports whether the request may proceed.
func authorizeOwner(c echo.Context, principal, owner uint64, kind policy.Kind) (error, bool) {
	if err := policy.Authorize(principal, owner, kind); err != nil {
		var d *policy.DeniedError
		if errors.As(err, &d) {
			return denied(c, d), false
		}
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"}), false
	}
	return nil, true
}
