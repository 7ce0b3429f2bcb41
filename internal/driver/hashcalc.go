package driver

import (
	"crypto/sha256"

	"ophelia/internal/version"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// CacheKey: H(version || options || content). A new compiler version or a
// different RequireMain setting never reuses an old entry.
func CacheKey(content []byte, requireMain bool) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	if requireMain {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
