// Package cache stores serialized comparison results keyed by their inputs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever the cached result layout changes
const keyVersion = "dictation:v1:"

// ComparisonKey derives a cache key from the aligner name and both raw texts.
// Parts are length-prefixed so that no two distinct inputs share a key.
func ComparisonKey(aligner, original, attempt string) string {
	h := sha256.New()
	for _, part := range []string{aligner, original, attempt} {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return keyVersion + hex.EncodeToString(h.Sum(nil))
}
