package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy of a generated access token. 16 random bytes
// hex-encode to a 32 character token.
const TokenBytes = 16

// NewAccessToken returns a cryptographically secure random token as a hex
// string. Uniqueness against stored keys is the caller's responsibility;
// the issuing repository checks the token against existing rows and
// regenerates on collision before persisting.
func NewAccessToken() (string, error) {
	return randomHex(TokenBytes)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
