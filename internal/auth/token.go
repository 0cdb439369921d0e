package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewToken generates an opaque bearer token and the hash under which it is
// persisted. The raw token is handed to the client once; only the hash is
// stored, so a leaked table cannot be replayed.
func NewToken() (token string, hash string) {
	uid := uuid.New()
	return uid.String(), HashToken(uid.String())
}

// HashToken returns the stored form of a raw bearer token. Returns an empty
// string for input that is not a token we could have issued.
func HashToken(token string) string {
	uid, err := uuid.Parse(token)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(uid[:])
	return hex.EncodeToString(sum[:])
}
