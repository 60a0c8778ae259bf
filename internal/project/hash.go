package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит ключ: H( content || dep1 || dep2 ... ).
// deps must come in a deterministic order; the driver passes included files
// in the order they were read, followed by the options digest.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashString digests an arbitrary string, used for option fingerprints.
func HashString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
