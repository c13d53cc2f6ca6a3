package model

import (
	"strings"
	"time"
)

// Permission is the sharing level stored on a list. The field is
// validated and persisted but does not currently gate cross-user read
// visibility: list reads are scoped to the owner regardless of the
// permission value.
type Permission string

const (
	PermissionViewable Permission = "viewable" // default on creation
	PermissionPrivate  Permission = "private"
	PermissionOpen     Permission = "open"
)

// DefaultPermission is applied when a list is created without an
// explicit permissions value.
const DefaultPermission = PermissionViewable

// Valid reports whether p is one of the accepted permission levels.
func (p Permission) Valid() bool {
	return p == PermissionViewable || p == PermissionPrivate || p == PermissionOpen
}

// List represents a to-do list owned by exactly one user. Archiving a
// list archives all of its active items in the same transaction.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user's ID.
//  Name        – required display name.
//  Permissions – sharing level (viewable, private, open).
//  Status      – active or archived.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type List struct {
	ID          uint64     // lists.id
	UserID      uint64     // lists.user_id
	Name        string     // lists.name
	Permissions Permission // lists.permissions
	Status      Status     // lists.status
	CreatedAt   time.Time  // lists.created_at
	UpdatedAt   time.Time  // lists.updated_at
}

// ValidateListInput checks name and permissions after defaults have been
// applied. Message order and wording are part of the API contract.
func ValidateListInput(name string, permissions Permission) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Name can't be blank")
	}
	if !permissions.Valid() {
		errs = append(errs, "Permissions is not included in the list")
	}
	return errs
}
