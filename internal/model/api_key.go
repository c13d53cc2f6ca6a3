package model

import "time"

// DefaultKeyTTL is how long a freshly issued or renewed API key stays
// valid when the caller does not supply an explicit expiry.
const DefaultKeyTTL = 24 * time.Hour

// APIKey models an entry in the `api_keys` table. The access token is an
// opaque random string, globally unique across all keys and immutable
// after creation; renewing a key extends expires_at without rotating the
// token value. A token is accepted up to and including its expiry
// instant.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the key.
//  AccessToken – unique opaque bearer token, hex encoded.
//  ExpiresAt   – expiration timestamp (creation time + DefaultKeyTTL
//                unless set explicitly).
//  Status      – active or archived.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type APIKey struct {
	ID          uint64    // api_keys.id
	UserID      uint64    // api_keys.user_id
	AccessToken string    // api_keys.access_token
	ExpiresAt   time.Time // api_keys.expires_at
	Status      Status    // api_keys.status
	CreatedAt   time.Time // api_keys.created_at
	UpdatedAt   time.Time // api_keys.updated_at
}

// ErrExpiresAtMessage is the validation message for an unparsable
// explicit expiry on key creation.
const ErrExpiresAtMessage = "Expires at must be a valid time value"
