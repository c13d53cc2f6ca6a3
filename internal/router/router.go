package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/todo-list-api/internal/middleware" // import middleware for credential authentication
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// Deps collects everything route registration needs: the configuration,
// the repositories the auth middleware reads credentials from, and the
// handlers that implement each endpoint.
type Deps struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Keys  *repository.APIKeyRepo

	UserH *handler.UserHandler
	KeyH  *handler.APIKeyHandler
	ListH *handler.ListHandler
	ItemH *handler.ItemHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers every /api route with its authentication mode.
// Authentication happens per route rather than per group so that signup
// and key issuance can carry different credential requirements than the
// rest of the surface.
func RegisterAPI(e *echo.Echo, d Deps) {
	// auth builds the per-route authentication middleware for a mode.
	auth := func(mode middleware.AuthMode) echo.MiddlewareFunc {
		return middleware.Authenticate(d.Users, d.Keys, mode)
	}

	g := e.Group("/api")

	// Signup normally requires an existing credential, matching the
	// closed-registration posture of the original deployment.  The
	// open-signup flag lifts that for bootstrap so the first user can
	// be created on a fresh database.
	signupMode := middleware.AuthAny
	if d.Cfg.OpenSignup {
		signupMode = middleware.AuthNone
	}
	g.POST("/users", d.UserH.Create, auth(signupMode))
	g.GET("/users", d.UserH.Index, auth(middleware.AuthAny))
	g.DELETE("/users/:id", d.UserH.Destroy, auth(middleware.AuthAny))

	// API key issuance and renewal accept basic credentials only: a
	// bearer token must not be able to mint or extend further tokens.
	g.POST("/api_keys", d.KeyH.Create, auth(middleware.AuthBasic))
	g.PATCH("/api_keys/:id", d.KeyH.Renew, auth(middleware.AuthBasic))

	// List endpoints.  The collection read lives at the top level while
	// mutations are nested under the owning user, mirroring the original
	// URL layout.
	g.GET("/lists", d.ListH.Index, auth(middleware.AuthAny))
	g.POST("/users/:user_id/lists", d.ListH.Create, auth(middleware.AuthAny))
	g.PATCH("/users/:user_id/lists/:id", d.ListH.Update, auth(middleware.AuthAny))
	g.DELETE("/users/:user_id/lists/:id", d.ListH.Destroy, auth(middleware.AuthAny))

	// Item endpoints, nested under the parent list for mutations.
	g.GET("/items", d.ItemH.Index, auth(middleware.AuthAny))
	g.POST("/lists/:list_id/items", d.ItemH.Create, auth(middleware.AuthAny))
	g.PATCH("/lists/:list_id/items/:id", d.ItemH.Update, auth(middleware.AuthAny))
	g.DELETE("/lists/:list_id/items/:id", d.ItemH.Destroy, auth(middleware.AuthAny))
}
