package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashOwnerKey returns a filesystem-safe identifier for an owner ID. An
// empty owner hashes to a stable anonymous namespace.
func HashOwnerKey(s string) string {
	if s == "" {
		s = "anonymous"
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
