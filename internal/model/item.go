package model

import (
	"strings"
	"time"
)

// Item is a single to-do entry belonging to one list. Its owner is the
// owner of the parent list; there is no direct user reference on the row.
//
// Fields:
//  ID        – primary key identifier.
//  ListID    – parent list's ID.
//  Name      – required display name.
//  Done      – completion flag, defaults to false on creation.
//  Status    – active or archived.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Item struct {
	ID        uint64    // items.id
	ListID    uint64    // items.list_id
	Name      string    // items.name
	Done      bool      // items.done
	Status    Status    // items.status
	CreatedAt time.Time // items.created_at
	UpdatedAt time.Time // items.updated_at
}

// ValidateItemInput checks an item payload. done is a pointer because a
// JSON null (or missing) done must fail inclusion validation rather than
// silently becoming false. Message order and wording are part of the API
// contract.
func ValidateItemInput(name string, done *bool) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Name can't be blank")
	}
	if done == nil {
		errs = append(errs, "Done is not included in the list")
	}
	return errs
}
