package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/todo-list-api/internal/config"
)

func TestRateLimitDisabledIsPassthrough(t *testing.T) {
	mw := RateLimit(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/lists")
	c.Set("user_id", uint64(4))

	key := rateKey(config.RateLimitConfig{Prefix: "rl"}, c)
	assert.Equal(t, "rl:ip:192.0.2.10:user:4:route:GET /api/lists", key)
}
