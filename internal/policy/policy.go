// Package policy decides whether an authenticated principal may act on a
// resource. The decision is a pure ownership comparison dispatched by
// resource kind; the kind selects the denial reason surfaced to the
// caller. Reason wording is part of the API contract and must not be
// edited. Ownership violations on mutations are reported as an explicit
// denial, never disguised as not found: an id that exists but belongs to
// someone else yields 403, an id that does not exist yields 404.
package policy

// Kind names a resource type for ownership dispatch.
type Kind string

const (
	KindUser Kind = "user"
	KindList Kind = "list"
	KindItem Kind = "item"
)

// denialReasons maps each resource kind to the reason string returned
// when the principal does not own the target.
var denialReasons = map[Kind]string{
	KindUser: "you are not the requested user",
	KindList: "you are not the owner of the requested list",
	KindItem: "you are not the list owner",
}

// DeniedError carries the human-readable reason for a denial. Handlers
// render it as a 403 with body {"message": reason}.
type DeniedError struct {
	Kind   Kind
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

// Deny builds the denial for a resource kind.
func Deny(kind Kind) *DeniedError {
	return &DeniedError{Kind: kind, Reason: denialReasons[kind]}
}

// Authorize allows the action when the principal owns the resource
// (directly, or transitively via the parent resource whose owner id the
// caller passes in). It returns a *DeniedError otherwise.
func Authorize(principal, owner uint64, kind Kind) error {
	if principal != owner {
		return Deny(kind)
	}
	return nil
}
