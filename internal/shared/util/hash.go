package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPrompt returns a hex digest of a prompt, used as a cache key.
func HashPrompt(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
