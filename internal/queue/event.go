// Package queue defines message payloads exchanged over the message broker.
package queue

// EntityArchivedEvent is published after an archive cascade commits. It
// carries enough information for downstream consumers to log or audit
// the transition without querying the primary database. The counts
// describe how many dependent rows the cascade transitioned alongside
// the parent.
type EntityArchivedEvent struct {
	Kind          string `json:"kind"` // "user", "list" or "item"
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"user_id"`
	ListsArchived int64  `json:"lists_archived"`
	ItemsArchived int64  `json:"items_archived"`
	KeysArchived  int64  `json:"keys_archived"`
	ArchivedAt    string `json:"archived_at"`
}
