// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and middleware to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current user
// is not authorized to perform an operation on a resource owned by
// someone else, while ErrKeyExpired separates an expired bearer token
// from one that never existed so the two can be logged differently even
// though both surface as 401.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrKeyExpired is returned by token validation when the access token
// matches a stored key whose expiry has passed. Externally it is
// indistinguishable from an unknown token (both map to 401).
var ErrKeyExpired = errors.New("api key expired")
