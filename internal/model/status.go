package model

// Status is the lifecycle state shared by every entity. Records are never
// physically deleted; a "destroy" transitions the row from active to
// archived. The transition is one way: archived rows never go back to
// active, and archiving an already archived row is a no-op.
type Status string

const (
	StatusActive   Status = "active"   // row is live and visible
	StatusArchived Status = "archived" // row is soft-deleted
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}
