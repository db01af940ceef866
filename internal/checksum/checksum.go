// Package checksum fingerprints source documents so unchanged ones are not
// recompiled.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Matches reports whether data still has the recorded digest. An empty
// digest never matches.
func Matches(recorded string, data []byte) bool {
	return recorded != "" && recorded == Sum(data)
}
